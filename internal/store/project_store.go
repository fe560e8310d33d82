package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nhle/portfolio/internal/model"
)

// projectRow is the database shape of a project.
type projectRow struct {
	ID             string        `db:"id"`
	Title          string        `db:"title"`
	Detail         string        `db:"detail"`
	Color          string        `db:"color"`
	Closed         int           `db:"closed"`
	CreationDate   time.Time     `db:"creation_date"`
	ReminderHour   sql.NullInt64 `db:"reminder_hour"`
	ReminderMinute sql.NullInt64 `db:"reminder_minute"`
}

func (r projectRow) toModel() model.Project {
	p := model.Project{
		ID:           r.ID,
		Title:        r.Title,
		Detail:       r.Detail,
		Color:        r.Color,
		Closed:       r.Closed != 0,
		CreationDate: r.CreationDate,
	}
	if r.ReminderHour.Valid && r.ReminderMinute.Valid {
		p.ReminderTime = &model.TimeOfDay{
			Hour:   int(r.ReminderHour.Int64),
			Minute: int(r.ReminderMinute.Int64),
		}
	}
	return p
}

// reminderColumns splits an optional time of day into nullable columns.
func reminderColumns(t *model.TimeOfDay) (hour, minute any, err error) {
	if t == nil {
		return nil, nil, nil
	}
	if !t.Valid() {
		return nil, nil, fmt.Errorf("reminder time %s out of range", t)
	}
	return t.Hour, t.Minute, nil
}

// CreateProject inserts a new project, filling in its ID, creation date
// and color when they are unset.
func (s *SQLiteStore) CreateProject(ctx context.Context, p *model.Project) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreationDate.IsZero() {
		p.CreationDate = time.Now().UTC()
	}
	p.Color = p.DisplayColor()

	hour, minute, err := reminderColumns(p.ReminderTime)
	if err != nil {
		return fmt.Errorf("creating project: %w", err)
	}

	return s.write(func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO projects (
				id, title, detail, color, closed,
				creation_date, reminder_hour, reminder_minute
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Title, p.Detail, p.Color, boolToInt(p.Closed),
			p.CreationDate.UTC(), hour, minute,
		)
		if err != nil {
			return fmt.Errorf("creating project: %w", err)
		}
		return nil
	})
}

// UpdateProject writes every mutable field of an existing project.
// The creation date is never changed.
func (s *SQLiteStore) UpdateProject(ctx context.Context, p model.Project) error {
	hour, minute, err := reminderColumns(p.ReminderTime)
	if err != nil {
		return fmt.Errorf("updating project %s: %w", p.ID, err)
	}

	return s.write(func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE projects SET
				title = ?, detail = ?, color = ?, closed = ?,
				reminder_hour = ?, reminder_minute = ?
			WHERE id = ?`,
			p.Title, p.Detail, p.DisplayColor(), boolToInt(p.Closed),
			hour, minute, p.ID,
		)
		if err != nil {
			return fmt.Errorf("updating project %s: %w", p.ID, err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return fmt.Errorf("project %s: %w", p.ID, ErrNotFound)
		}
		return nil
	})
}

// DeleteProject removes a project. Its items are removed by cascade.
func (s *SQLiteStore) DeleteProject(ctx context.Context, id string) error {
	return s.write(func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("deleting project %s: %w", id, err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return fmt.Errorf("project %s: %w", id, ErrNotFound)
		}
		return nil
	})
}

// GetProject retrieves a single project by ID.
func (s *SQLiteStore) GetProject(ctx context.Context, id string) (*model.Project, error) {
	var row projectRow
	err := s.conn(func(q sqlx.ExtContext) error {
		return sqlx.GetContext(ctx, q, &row, "SELECT * FROM projects WHERE id = ?", id)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting project %s: %w", id, err)
	}
	p := row.toModel()
	return &p, nil
}

// GetProjects retrieves projects matching the filter, newest first.
func (s *SQLiteStore) GetProjects(ctx context.Context, filter ProjectFilter) ([]model.Project, error) {
	where, args := buildProjectWhere(filter)
	query := "SELECT * FROM projects" + where + " ORDER BY creation_date DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	var rows []projectRow
	err := s.conn(func(q sqlx.ExtContext) error {
		return sqlx.SelectContext(ctx, q, &rows, query, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}

	projects := make([]model.Project, 0, len(rows))
	for _, r := range rows {
		projects = append(projects, r.toModel())
	}
	return projects, nil
}

// CountProjects returns how many projects match the filter.
func (s *SQLiteStore) CountProjects(ctx context.Context, filter ProjectFilter) (int, error) {
	where, args := buildProjectWhere(filter)

	var count int
	err := s.conn(func(q sqlx.ExtContext) error {
		return sqlx.GetContext(ctx, q, &count, "SELECT COUNT(*) FROM projects"+where, args...)
	})
	if err != nil {
		return 0, fmt.Errorf("counting projects: %w", err)
	}
	return count, nil
}

// BatchDeleteProjects removes every project matching the filter, and by
// cascade their items. It returns the number of projects removed.
func (s *SQLiteStore) BatchDeleteProjects(ctx context.Context, filter ProjectFilter) (int, error) {
	where, args := buildProjectWhere(filter)

	var n int64
	err := s.write(func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, "DELETE FROM projects"+where, args...)
		if err != nil {
			return fmt.Errorf("batch deleting projects: %w", err)
		}
		n, _ = result.RowsAffected()
		return nil
	})
	return int(n), err
}

// buildProjectWhere renders the WHERE clause and args for a ProjectFilter.
func buildProjectWhere(filter ProjectFilter) (string, []any) {
	var conditions []string
	var args []any

	if filter.Closed != nil {
		conditions = append(conditions, "closed = ?")
		args = append(args, boolToInt(*filter.Closed))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}
