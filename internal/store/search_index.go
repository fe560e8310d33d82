package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/portfolio/internal/search"
)

// SearchIndex is a search.Index kept in the search_index table.
type SearchIndex struct {
	store *SQLiteStore
}

var _ search.Index = (*SearchIndex)(nil)

// NewSearchIndex returns an index stored alongside the entities in s.
func NewSearchIndex(s *SQLiteStore) *SearchIndex {
	return &SearchIndex{store: s}
}

// Index inserts or replaces records by ID.
func (si *SearchIndex) Index(ctx context.Context, records []search.Record) error {
	if len(records) == 0 {
		return nil
	}

	now := time.Now().UTC()
	return si.store.conn(func(q sqlx.ExtContext) error {
		for _, r := range records {
			_, err := q.ExecContext(ctx, `
				INSERT OR REPLACE INTO search_index (id, domain, title, content, updated_at)
				VALUES (?, ?, ?, ?, ?)`,
				r.ID, r.Domain, r.Title, r.Content, now,
			)
			if err != nil {
				return fmt.Errorf("indexing %s: %w", r.ID, err)
			}
		}
		return nil
	})
}

// DeleteByIdentifier removes the records with the given IDs.
func (si *SearchIndex) DeleteByIdentifier(ctx context.Context, ids []string) error {
	return si.deleteIn(ctx, "id", ids)
}

// DeleteByDomain removes every record under the given domains.
func (si *SearchIndex) DeleteByDomain(ctx context.Context, domains []string) error {
	return si.deleteIn(ctx, "domain", domains)
}

func (si *SearchIndex) deleteIn(ctx context.Context, column string, values []string) error {
	if len(values) == 0 {
		return nil
	}

	query, args, err := sqlx.In("DELETE FROM search_index WHERE "+column+" IN (?)", values)
	if err != nil {
		return fmt.Errorf("building index delete: %w", err)
	}

	return si.store.conn(func(q sqlx.ExtContext) error {
		if _, err := q.ExecContext(ctx, q.Rebind(query), args...); err != nil {
			return fmt.Errorf("deleting from index by %s: %w", column, err)
		}
		return nil
	})
}

// Search returns records whose title or content contains query, best
// title matches first.
func (si *SearchIndex) Search(ctx context.Context, query string, limit int) ([]search.Record, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}

	like := "%" + query + "%"
	var records []search.Record
	err := si.store.conn(func(q sqlx.ExtContext) error {
		return sqlx.SelectContext(ctx, q, &records, `
			SELECT id, domain, title, content FROM search_index
			WHERE title LIKE ? OR content LIKE ?
			ORDER BY (title LIKE ?) DESC, updated_at DESC
			LIMIT ?`,
			like, like, like, limit,
		)
	})
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}
	return records, nil
}

// Count returns the number of indexed records, optionally within a domain.
func (si *SearchIndex) Count(ctx context.Context, domain string) (int, error) {
	query := "SELECT COUNT(*) FROM search_index"
	var args []any
	if domain != "" {
		query += " WHERE domain = ?"
		args = append(args, domain)
	}

	var n int
	err := si.store.conn(func(q sqlx.ExtContext) error {
		return sqlx.GetContext(ctx, q, &n, query, args...)
	})
	if err != nil {
		return 0, fmt.Errorf("counting index records: %w", err)
	}
	return n, nil
}
