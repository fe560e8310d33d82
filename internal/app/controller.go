// Package app is the composition root: the Controller wires the store,
// award engine, reminder scheduler, index synchronizer and gating policy
// behind the single facade the presentation layer uses.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/portfolio/internal/award"
	"github.com/nhle/portfolio/internal/gating"
	"github.com/nhle/portfolio/internal/model"
	"github.com/nhle/portfolio/internal/reminder"
	"github.com/nhle/portfolio/internal/search"
	"github.com/nhle/portfolio/internal/store"
)

// Deps are the collaborators a Controller is built from.
type Deps struct {
	Store    store.Store
	Catalog  *award.Catalog
	Index    search.Index
	Center   reminder.Center
	Settings store.Settings

	// Optional.
	Policy          *gating.Policy
	Prompter        gating.ReviewPrompter
	Scenes          gating.SceneProvider
	Dispatcher      reminder.Dispatcher
	ReminderTimeout time.Duration
	Logger          *zap.Logger
	Now             func() time.Time
}

// Controller owns the store and everything derived from it.
type Controller struct {
	store     store.Store
	catalog   *award.Catalog
	awards    *award.Engine
	index     *search.Synchronizer
	reminders *reminder.Scheduler
	settings  store.Settings
	policy    gating.Policy
	prompter  gating.ReviewPrompter
	scenes    gating.SceneProvider
	logger    *zap.Logger
	now       func() time.Time
	bus       *bus

	// mu makes each intent a single writer, e.g. the project count
	// check and the insert in AddProject.
	mu sync.Mutex
}

// New builds a Controller from its dependencies.
func New(d Deps) (*Controller, error) {
	switch {
	case d.Store == nil:
		return nil, errors.New("controller needs a store")
	case d.Catalog == nil:
		return nil, errors.New("controller needs an award catalog")
	case d.Index == nil:
		return nil, errors.New("controller needs a search index")
	case d.Center == nil:
		return nil, errors.New("controller needs a notification center")
	case d.Settings == nil:
		return nil, errors.New("controller needs a settings store")
	}

	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	policy := gating.DefaultPolicy()
	if d.Policy != nil {
		policy = *d.Policy
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}

	opts := []reminder.Option{
		reminder.WithLogger(logger.Named("reminder")),
		reminder.WithClock(now),
	}
	if d.Dispatcher != nil {
		opts = append(opts, reminder.WithDispatcher(d.Dispatcher))
	}
	if d.ReminderTimeout > 0 {
		opts = append(opts, reminder.WithTimeout(d.ReminderTimeout))
	}

	return &Controller{
		store:     d.Store,
		catalog:   d.Catalog,
		awards:    award.NewEngine(d.Store, logger.Named("award")),
		index:     search.NewSynchronizer(d.Index, logger.Named("search")),
		reminders: reminder.NewScheduler(d.Center, opts...),
		settings:  d.Settings,
		policy:    policy,
		prompter:  d.Prompter,
		scenes:    d.Scenes,
		logger:    logger,
		now:       now,
		bus:       newBus(),
	}, nil
}

// Save commits pending changes. It does nothing when nothing changed.
// Failures are logged, not returned. A failed commit discards the pending
// changes; only a save attempted with an already cancelled ctx keeps them
// for the next save.
func (c *Controller) Save(ctx context.Context) {
	if !c.store.HasChanges() {
		return
	}
	if err := c.store.Save(ctx); err != nil {
		if store.IsPersistenceError(err) {
			c.logger.Error("saving changes failed", zap.Error(err))
		} else {
			c.logger.Error("saving changes failed with unexpected error", zap.Error(err))
		}
	}
}

// === Settings & gating ===

// FullVersionUnlocked reports whether the paid unlock has been bought.
func (c *Controller) FullVersionUnlocked() bool {
	unlocked, err := c.settings.Bool(gating.FullVersionKey)
	if err != nil {
		c.logger.Warn("reading unlock flag failed", zap.Error(err))
		return false
	}
	return unlocked
}

// SetFullVersionUnlocked records the paid unlock.
func (c *Controller) SetFullVersionUnlocked(unlocked bool) error {
	if err := c.settings.SetBool(gating.FullVersionKey, unlocked); err != nil {
		return fmt.Errorf("writing unlock flag: %w", err)
	}
	return nil
}

// CanCreateProject reports whether AddProject would succeed now.
func (c *Controller) CanCreateProject(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canCreateProject(ctx)
}

func (c *Controller) canCreateProject(ctx context.Context) bool {
	if c.FullVersionUnlocked() {
		return true
	}
	n, err := c.store.CountProjects(ctx, store.ProjectFilter{})
	if err != nil {
		c.logger.Warn("counting projects failed", zap.Error(err))
		return false
	}
	return c.policy.CanCreateProject(false, n)
}

// AppLaunched asks for a review once enough projects exist and the app
// has a foreground-active scene. Best effort; nothing is returned.
func (c *Controller) AppLaunched(ctx context.Context) {
	if c.prompter == nil {
		return
	}
	n, err := c.store.CountProjects(ctx, store.ProjectFilter{})
	if err != nil || !c.policy.ShouldRequestReview(n) {
		return
	}
	scene, ok := gating.ForegroundScene(c.scenes)
	if !ok {
		return
	}
	c.prompter.RequestReview(scene)
}

// === Projects ===

// AddProject creates an open, empty project if the gating policy allows
// it, and reports whether it did.
func (c *Controller) AddProject(ctx context.Context) (model.Project, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.canCreateProject(ctx) {
		return model.Project{}, false
	}

	p := model.Project{
		Closed:       false,
		CreationDate: c.now().UTC(),
	}
	if err := c.store.CreateProject(ctx, &p); err != nil {
		c.logger.Error("creating project failed", zap.Error(err))
		return model.Project{}, false
	}
	c.Save(ctx)
	c.bus.publish(Change{Kind: ProjectCreated, ID: p.ID})
	return p, true
}

// UpdateProject writes a project's editable fields.
func (c *Controller) UpdateProject(ctx context.Context, p model.Project) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.UpdateProject(ctx, p); err != nil {
		return err
	}
	c.Save(ctx)
	c.bus.publish(Change{Kind: ProjectUpdated, ID: p.ID})
	return nil
}

// ToggleClosed flips a project between open and closed.
func (c *Controller) ToggleClosed(ctx context.Context, id string) (model.Project, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, err := c.store.GetProject(ctx, id)
	if err != nil {
		return model.Project{}, err
	}
	p.Closed = !p.Closed
	if err := c.store.UpdateProject(ctx, *p); err != nil {
		return model.Project{}, err
	}
	c.Save(ctx)
	c.bus.publish(Change{Kind: ProjectUpdated, ID: p.ID})
	return *p, nil
}

// DeleteProject removes a project, its items, their index records (in one
// domain deletion) and its pending reminder.
func (c *Controller) DeleteProject(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, err := c.store.GetProject(ctx, id)
	if err != nil {
		return err
	}

	c.index.ProjectDeleted(ctx, id)
	if err := c.store.DeleteProject(ctx, id); err != nil {
		return err
	}
	c.Save(ctx)
	c.reminders.Disable(ctx, *p)
	c.bus.publish(Change{Kind: ProjectDeleted, ID: id})
	return nil
}

// Project returns a project by ID.
func (c *Controller) Project(ctx context.Context, id string) (*model.Project, error) {
	return c.store.GetProject(ctx, id)
}

// Projects lists projects, newest first.
func (c *Controller) Projects(ctx context.Context, filter store.ProjectFilter) ([]model.Project, error) {
	return c.store.GetProjects(ctx, filter)
}

// CountProjects counts projects matching filter.
func (c *Controller) CountProjects(ctx context.Context, filter store.ProjectFilter) (int, error) {
	return c.store.CountProjects(ctx, filter)
}

// === Items ===

// AddItem creates a low-priority, open item under a project.
func (c *Controller) AddItem(ctx context.Context, projectID string) (model.Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.store.GetProject(ctx, projectID); err != nil {
		return model.Item{}, err
	}

	it := model.Item{
		ProjectID:    projectID,
		Priority:     model.PriorityLow,
		CreationDate: c.now().UTC(),
	}
	if err := c.store.CreateItem(ctx, &it); err != nil {
		return model.Item{}, err
	}
	c.index.ItemChanged(ctx, it)
	c.Save(ctx)
	c.bus.publish(Change{Kind: ItemCreated, ID: it.ID})
	return it, nil
}

// UpdateItem writes an item's editable fields, re-indexes it and saves.
func (c *Controller) UpdateItem(ctx context.Context, it model.Item) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updateItem(ctx, it)
}

func (c *Controller) updateItem(ctx context.Context, it model.Item) error {
	it.Priority = it.Priority.Normalize()
	if err := c.store.UpdateItem(ctx, it); err != nil {
		return err
	}
	c.index.ItemChanged(ctx, it)
	c.Save(ctx)
	c.bus.publish(Change{Kind: ItemUpdated, ID: it.ID})
	return nil
}

// ToggleCompleted flips an item between open and completed.
func (c *Controller) ToggleCompleted(ctx context.Context, id string) (model.Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	it, err := c.store.GetItem(ctx, id)
	if err != nil {
		return model.Item{}, err
	}
	it.Completed = !it.Completed
	if err := c.updateItem(ctx, *it); err != nil {
		return model.Item{}, err
	}
	return *it, nil
}

// DeleteItem removes an item and its index record.
func (c *Controller) DeleteItem(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.index.ItemDeleted(ctx, id)
	if err := c.store.DeleteItem(ctx, id); err != nil {
		return err
	}
	c.Save(ctx)
	c.bus.publish(Change{Kind: ItemDeleted, ID: id})
	return nil
}

// Items lists items matching filter.
func (c *Controller) Items(ctx context.Context, filter store.ItemFilter) ([]model.Item, error) {
	return c.store.GetItems(ctx, filter)
}

// CountItems counts items matching filter.
func (c *Controller) CountItems(ctx context.Context, filter store.ItemFilter) (int, error) {
	return c.store.CountItems(ctx, filter)
}

// ItemWithIdentifier resolves an item identity URI, such as the ID of a
// search result, to the item. ok is false when it does not resolve.
func (c *Controller) ItemWithIdentifier(ctx context.Context, uri string) (model.Item, bool) {
	entity, err := c.store.Lookup(ctx, uri)
	if err != nil {
		return model.Item{}, false
	}
	it, ok := entity.(*model.Item)
	if !ok || it == nil {
		return model.Item{}, false
	}
	return *it, true
}

// === Awards ===

// Awards returns the catalog in order.
func (c *Controller) Awards() []model.Award {
	return c.catalog.All()
}

// HasEarned reports whether the award is currently earned.
func (c *Controller) HasEarned(ctx context.Context, a model.Award) bool {
	return c.awards.HasEarned(ctx, a)
}

// AwardStatuses evaluates the whole catalog.
func (c *Controller) AwardStatuses(ctx context.Context) []award.Status {
	return c.awards.Statuses(ctx, c.catalog.All())
}

// AwardColor is the palette key for drawing an award.
func (c *Controller) AwardColor(ctx context.Context, a model.Award) string {
	return award.ColorName(a, c.HasEarned(ctx, a))
}

// AwardLabel is the accessibility label for an award.
func (c *Controller) AwardLabel(ctx context.Context, a model.Award) string {
	return award.AccessibilityLabel(a, c.HasEarned(ctx, a))
}

// AwardAlert is the title and message shown for a selected award.
func (c *Controller) AwardAlert(ctx context.Context, a model.Award) (title, message string) {
	return award.Alert(a, c.HasEarned(ctx, a))
}

// === Reminders ===

// EnableReminders places the project's recurring reminder, asking for
// permission first if needed. It reports whether the reminder is scheduled.
func (c *Controller) EnableReminders(ctx context.Context, p model.Project) bool {
	ok, err := c.reminders.Enable(ctx, p)
	if err != nil {
		c.logger.Info("reminder not enabled",
			zap.String("project", p.ID),
			zap.Error(err))
	}
	return ok
}

// EnableRemindersAsync is EnableReminders in the background; completion
// runs exactly once on the controller's Dispatcher.
func (c *Controller) EnableRemindersAsync(ctx context.Context, p model.Project, completion func(bool)) *reminder.Task {
	return c.reminders.EnableAsync(ctx, p, completion)
}

// DisableReminders removes the project's reminder. Always safe to call.
func (c *Controller) DisableReminders(ctx context.Context, p model.Project) {
	c.reminders.Disable(ctx, p)
}

// === Maintenance ===

// DeleteAll removes every item and project, and their index records.
func (c *Controller) DeleteAll(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	projects, err := c.store.GetProjects(ctx, store.ProjectFilter{})
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	c.index.ProjectsDeleted(ctx, ids)

	if _, err := c.store.BatchDeleteItems(ctx, store.ItemFilter{}); err != nil {
		return err
	}
	if _, err := c.store.BatchDeleteProjects(ctx, store.ProjectFilter{}); err != nil {
		return err
	}
	c.Save(ctx)
	for _, p := range projects {
		c.reminders.Disable(ctx, p)
	}
	c.bus.publish(Change{Kind: StoreReset})
	return nil
}
