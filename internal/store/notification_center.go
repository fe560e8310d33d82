package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/portfolio/internal/reminder"
)

// NotificationCenter is a local notification authority that keeps its
// authorization answer and pending requests in the database. A desktop
// agent reads the pending requests to actually show notifications.
type NotificationCenter struct {
	store     *SQLiteStore
	autoGrant bool
}

var _ reminder.Center = (*NotificationCenter)(nil)

// NewNotificationCenter returns a center backed by s. autoGrant is the
// answer given the first time permission is requested.
func NewNotificationCenter(s *SQLiteStore, autoGrant bool) *NotificationCenter {
	return &NotificationCenter{store: s, autoGrant: autoGrant}
}

// AuthorizationStatus returns the stored status, StatusNotDetermined if
// permission was never requested.
func (c *NotificationCenter) AuthorizationStatus(ctx context.Context) (reminder.AuthorizationStatus, error) {
	var status string
	err := c.store.conn(func(q sqlx.ExtContext) error {
		return sqlx.GetContext(ctx, q, &status,
			"SELECT status FROM notification_authorization WHERE id = 1")
	})
	if errors.Is(err, sql.ErrNoRows) {
		return reminder.StatusNotDetermined, nil
	}
	if err != nil {
		return reminder.StatusNotDetermined, fmt.Errorf("reading authorization status: %w", err)
	}
	return reminder.ParseAuthorizationStatus(status), nil
}

// SetAuthorizationStatus records the user's answer, e.g. from a settings command.
func (c *NotificationCenter) SetAuthorizationStatus(ctx context.Context, status reminder.AuthorizationStatus) error {
	err := c.store.conn(func(q sqlx.ExtContext) error {
		_, err := q.ExecContext(ctx, `
			INSERT INTO notification_authorization (id, status) VALUES (1, ?)
			ON CONFLICT(id) DO UPDATE SET status = excluded.status`,
			status.String(),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("writing authorization status: %w", err)
	}
	return nil
}

// RequestAuthorization answers with autoGrant and remembers the answer.
func (c *NotificationCenter) RequestAuthorization(ctx context.Context, _ reminder.AuthorizationOptions) (bool, error) {
	status := reminder.StatusDenied
	if c.autoGrant {
		status = reminder.StatusAuthorized
	}
	if err := c.SetAuthorizationStatus(ctx, status); err != nil {
		return false, err
	}
	return c.autoGrant, nil
}

// Add stores req, replacing any pending request with the same ID.
func (c *NotificationCenter) Add(ctx context.Context, req reminder.Request) error {
	err := c.store.conn(func(q sqlx.ExtContext) error {
		_, err := q.ExecContext(ctx, `
			INSERT OR REPLACE INTO notification_requests (
				id, title, subtitle, sound, hour, minute, repeats, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			req.ID, req.Content.Title, req.Content.Subtitle, boolToInt(req.Content.Sound),
			req.Trigger.Hour, req.Trigger.Minute, boolToInt(req.Trigger.Repeats),
			time.Now().UTC(),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("adding notification request %s: %w", req.ID, err)
	}
	return nil
}

// RemovePending removes the requests with the given IDs. Unknown IDs are ignored.
func (c *NotificationCenter) RemovePending(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In("DELETE FROM notification_requests WHERE id IN (?)", ids)
	if err != nil {
		return fmt.Errorf("building notification delete: %w", err)
	}
	err = c.store.conn(func(q sqlx.ExtContext) error {
		_, err := q.ExecContext(ctx, q.Rebind(query), args...)
		return err
	})
	if err != nil {
		return fmt.Errorf("removing notification requests: %w", err)
	}
	return nil
}

// RemoveAllPending clears every pending request.
func (c *NotificationCenter) RemoveAllPending(ctx context.Context) error {
	err := c.store.conn(func(q sqlx.ExtContext) error {
		_, err := q.ExecContext(ctx, "DELETE FROM notification_requests")
		return err
	})
	if err != nil {
		return fmt.Errorf("clearing notification requests: %w", err)
	}
	return nil
}

// notificationRow is the database shape of a pending request.
type notificationRow struct {
	ID        string    `db:"id"`
	Title     string    `db:"title"`
	Subtitle  string    `db:"subtitle"`
	Sound     int       `db:"sound"`
	Hour      int       `db:"hour"`
	Minute    int       `db:"minute"`
	Repeats   int       `db:"repeats"`
	CreatedAt time.Time `db:"created_at"`
}

// Pending lists pending requests ordered by ID.
func (c *NotificationCenter) Pending(ctx context.Context) ([]reminder.Request, error) {
	var rows []notificationRow
	err := c.store.conn(func(q sqlx.ExtContext) error {
		return sqlx.SelectContext(ctx, q, &rows, "SELECT * FROM notification_requests ORDER BY id")
	})
	if err != nil {
		return nil, fmt.Errorf("listing notification requests: %w", err)
	}

	reqs := make([]reminder.Request, 0, len(rows))
	for _, r := range rows {
		reqs = append(reqs, reminder.Request{
			ID: r.ID,
			Content: reminder.Content{
				Title:    r.Title,
				Subtitle: r.Subtitle,
				Sound:    r.Sound != 0,
			},
			Trigger: reminder.CalendarTrigger{
				Hour:    r.Hour,
				Minute:  r.Minute,
				Repeats: r.Repeats != 0,
			},
		})
	}
	return reqs, nil
}
