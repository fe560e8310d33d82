// Package search keeps an external search index in step with item
// changes. The index itself is a capability supplied by the caller.
package search

import (
	"context"

	"go.uber.org/zap"

	"github.com/nhle/portfolio/internal/model"
)

// Record is one searchable entry. ID is the item's identity URI and Domain
// the owning project's identity URI, so a project can be dropped in one call.
type Record struct {
	ID      string `json:"id" db:"id"`
	Domain  string `json:"domain" db:"domain"`
	Title   string `json:"title" db:"title"`
	Content string `json:"content" db:"content"`
}

// Index is the search index capability.
type Index interface {
	// Index inserts or replaces records by ID.
	Index(ctx context.Context, records []Record) error

	// DeleteByIdentifier removes the records with the given IDs.
	DeleteByIdentifier(ctx context.Context, ids []string) error

	// DeleteByDomain removes every record under the given domains.
	DeleteByDomain(ctx context.Context, domains []string) error
}

// RecordFor builds the index record for an item.
func RecordFor(it model.Item) Record {
	r := Record{
		ID:      it.URI(),
		Title:   it.DisplayTitle(),
		Content: it.Detail,
	}
	if it.ProjectID != "" {
		r.Domain = model.ProjectURI(it.ProjectID)
	}
	return r
}

// Synchronizer mirrors item changes into an Index. Index failures are
// logged and never returned: indexing must not block persistence.
type Synchronizer struct {
	index  Index
	logger *zap.Logger
}

// NewSynchronizer creates a Synchronizer. A nil logger discards output.
func NewSynchronizer(index Index, logger *zap.Logger) *Synchronizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synchronizer{index: index, logger: logger}
}

// ItemChanged upserts the record for a created or updated item.
func (s *Synchronizer) ItemChanged(ctx context.Context, it model.Item) {
	rec := RecordFor(it)
	if err := s.index.Index(ctx, []Record{rec}); err != nil {
		s.logger.Warn("indexing item failed",
			zap.String("item", rec.ID),
			zap.Error(err))
	}
}

// ItemDeleted removes the record of a single item.
func (s *Synchronizer) ItemDeleted(ctx context.Context, itemID string) {
	id := model.ItemURI(itemID)
	if err := s.index.DeleteByIdentifier(ctx, []string{id}); err != nil {
		s.logger.Warn("removing item from index failed",
			zap.String("item", id),
			zap.Error(err))
	}
}

// ProjectDeleted removes every record of a project's items with a single
// domain deletion.
func (s *Synchronizer) ProjectDeleted(ctx context.Context, projectID string) {
	s.ProjectsDeleted(ctx, []string{projectID})
}

// ProjectsDeleted is ProjectDeleted for several projects at once.
func (s *Synchronizer) ProjectsDeleted(ctx context.Context, projectIDs []string) {
	if len(projectIDs) == 0 {
		return
	}
	domains := make([]string, 0, len(projectIDs))
	for _, id := range projectIDs {
		domains = append(domains, model.ProjectURI(id))
	}
	if err := s.index.DeleteByDomain(ctx, domains); err != nil {
		s.logger.Warn("removing projects from index failed",
			zap.Strings("domains", domains),
			zap.Error(err))
	}
}
