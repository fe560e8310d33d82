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

// itemRow is the database shape of an item.
type itemRow struct {
	ID           string    `db:"id"`
	ProjectID    string    `db:"project_id"`
	Title        string    `db:"title"`
	Detail       string    `db:"detail"`
	Completed    int       `db:"completed"`
	Priority     int       `db:"priority"`
	CreationDate time.Time `db:"creation_date"`
}

func (r itemRow) toModel() model.Item {
	return model.Item{
		ID:           r.ID,
		ProjectID:    r.ProjectID,
		Title:        r.Title,
		Detail:       r.Detail,
		Completed:    r.Completed != 0,
		Priority:     model.Priority(r.Priority).Normalize(),
		CreationDate: r.CreationDate,
	}
}

// CreateItem inserts a new item under its project. The ID, creation date
// and priority are defaulted when unset.
func (s *SQLiteStore) CreateItem(ctx context.Context, it *model.Item) error {
	if strings.TrimSpace(it.ProjectID) == "" {
		return fmt.Errorf("creating item: %w", ErrItemWithoutProject)
	}
	if it.ID == "" {
		it.ID = uuid.New().String()
	}
	if it.CreationDate.IsZero() {
		it.CreationDate = time.Now().UTC()
	}
	it.Priority = it.Priority.Normalize()

	return s.write(func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO items (
				id, project_id, title, detail, completed, priority, creation_date
			) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			it.ID, it.ProjectID, it.Title, it.Detail,
			boolToInt(it.Completed), int(it.Priority), it.CreationDate.UTC(),
		)
		if err != nil {
			return fmt.Errorf("creating item: %w", err)
		}
		return nil
	})
}

// UpdateItem writes every mutable field of an existing item, including
// moving it to another project. The creation date is never changed.
func (s *SQLiteStore) UpdateItem(ctx context.Context, it model.Item) error {
	if strings.TrimSpace(it.ProjectID) == "" {
		return fmt.Errorf("updating item %s: %w", it.ID, ErrItemWithoutProject)
	}

	return s.write(func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE items SET
				project_id = ?, title = ?, detail = ?, completed = ?, priority = ?
			WHERE id = ?`,
			it.ProjectID, it.Title, it.Detail, boolToInt(it.Completed),
			int(it.Priority.Normalize()), it.ID,
		)
		if err != nil {
			return fmt.Errorf("updating item %s: %w", it.ID, err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return fmt.Errorf("item %s: %w", it.ID, ErrNotFound)
		}
		return nil
	})
}

// DeleteItem removes a single item.
func (s *SQLiteStore) DeleteItem(ctx context.Context, id string) error {
	return s.write(func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, "DELETE FROM items WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("deleting item %s: %w", id, err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return fmt.Errorf("item %s: %w", id, ErrNotFound)
		}
		return nil
	})
}

// GetItem retrieves a single item by ID.
func (s *SQLiteStore) GetItem(ctx context.Context, id string) (*model.Item, error) {
	var row itemRow
	err := s.conn(func(q sqlx.ExtContext) error {
		return sqlx.GetContext(ctx, q, &row, "SELECT * FROM items WHERE id = ?", id)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting item %s: %w", id, err)
	}
	it := row.toModel()
	return &it, nil
}

// GetItems retrieves items matching the filter.
func (s *SQLiteStore) GetItems(ctx context.Context, filter ItemFilter) ([]model.Item, error) {
	where, args := buildItemWhere(filter)
	query := "SELECT * FROM items" + where

	sortBy := "creation_date"
	allowed := map[string]string{
		"creation_date": "creation_date",
		"priority":      "priority",
		"title":         "title",
	}
	if col, ok := allowed[filter.SortBy]; ok {
		sortBy = col
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s, id ASC", sortBy, direction)

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	var rows []itemRow
	err := s.conn(func(q sqlx.ExtContext) error {
		return sqlx.SelectContext(ctx, q, &rows, query, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}

	items := make([]model.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.toModel())
	}
	return items, nil
}

// CountItems returns how many items match the filter.
func (s *SQLiteStore) CountItems(ctx context.Context, filter ItemFilter) (int, error) {
	where, args := buildItemWhere(filter)

	var count int
	err := s.conn(func(q sqlx.ExtContext) error {
		return sqlx.GetContext(ctx, q, &count, "SELECT COUNT(*) FROM items"+where, args...)
	})
	if err != nil {
		return 0, fmt.Errorf("counting items: %w", err)
	}
	return count, nil
}

// BatchDeleteItems removes every item matching the filter and returns how
// many were removed.
func (s *SQLiteStore) BatchDeleteItems(ctx context.Context, filter ItemFilter) (int, error) {
	where, args := buildItemWhere(filter)

	var n int64
	err := s.write(func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, "DELETE FROM items"+where, args...)
		if err != nil {
			return fmt.Errorf("batch deleting items: %w", err)
		}
		n, _ = result.RowsAffected()
		return nil
	})
	return int(n), err
}

// buildItemWhere renders the WHERE clause and args for an ItemFilter.
func buildItemWhere(filter ItemFilter) (string, []any) {
	var conditions []string
	var args []any

	if filter.ProjectID != nil {
		conditions = append(conditions, "project_id = ?")
		args = append(args, *filter.ProjectID)
	}
	if filter.Completed != nil {
		conditions = append(conditions, "completed = ?")
		args = append(args, boolToInt(*filter.Completed))
	}
	if filter.Priority != nil {
		conditions = append(conditions, "priority = ?")
		args = append(args, int(*filter.Priority))
	}
	if filter.Query != nil && *filter.Query != "" {
		conditions = append(conditions, "(title LIKE ? OR detail LIKE ?)")
		q := "%" + *filter.Query + "%"
		args = append(args, q, q)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}
