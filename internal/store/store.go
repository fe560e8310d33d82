package store

import (
	"context"

	"github.com/nhle/portfolio/internal/model"
)

// ProjectFilter selects projects for queries, counts and batch deletes.
type ProjectFilter struct {
	Closed *bool
	Limit  int
}

// ItemFilter selects items for queries, counts and batch deletes.
// A zero filter matches every item.
type ItemFilter struct {
	ProjectID *string
	Completed *bool
	Priority  *model.Priority
	Query     *string // title or detail substring
	SortBy    string  // "creation_date", "priority", "title"
	SortDesc  bool
	Limit     int
}

// Store is the durable home of projects and items.
//
// Mutations are collected in a unit of work: the first mutation opens it,
// reads and counts observe it, and Save commits it. Save with nothing
// pending does not write.
type Store interface {
	// === Projects ===

	CreateProject(ctx context.Context, p *model.Project) error
	UpdateProject(ctx context.Context, p model.Project) error
	DeleteProject(ctx context.Context, id string) error
	GetProject(ctx context.Context, id string) (*model.Project, error)
	GetProjects(ctx context.Context, filter ProjectFilter) ([]model.Project, error)
	CountProjects(ctx context.Context, filter ProjectFilter) (int, error)
	BatchDeleteProjects(ctx context.Context, filter ProjectFilter) (int, error)

	// === Items ===

	CreateItem(ctx context.Context, it *model.Item) error
	UpdateItem(ctx context.Context, it model.Item) error
	DeleteItem(ctx context.Context, id string) error
	GetItem(ctx context.Context, id string) (*model.Item, error)
	GetItems(ctx context.Context, filter ItemFilter) ([]model.Item, error)
	CountItems(ctx context.Context, filter ItemFilter) (int, error)
	BatchDeleteItems(ctx context.Context, filter ItemFilter) (int, error)

	// === Identity ===

	// Lookup resolves an identity URI to a *model.Project or *model.Item.
	Lookup(ctx context.Context, uri string) (any, error)

	// === Unit of work ===

	HasChanges() bool
	Save(ctx context.Context) error
	Rollback() error
}

// Settings is a small key-value store for user preferences.
type Settings interface {
	Bool(key string) (bool, error)
	SetBool(key string, value bool) error
}

// Ptr returns a pointer to v, for filling optional filter fields.
func Ptr[T any](v T) *T {
	return &v
}
