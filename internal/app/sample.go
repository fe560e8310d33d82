package app

import (
	"context"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/nhle/portfolio/internal/model"
)

// Sample data shape used by `portfolio sample` and previews.
const (
	SampleProjects        = 5
	SampleItemsPerProject = 10
)

// CreateSampleData fills the store with numbered projects and items whose
// closed, completed and priority fields are random. It ignores the free
// project limit and, unlike Save, reports a failed commit.
func (c *Controller) CreateSampleData(ctx context.Context, projects, itemsPerProject int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().UTC()
	for i := 1; i <= projects; i++ {
		p := model.Project{
			Title:        fmt.Sprintf("Project %d", i),
			Closed:       rand.IntN(2) == 1,
			CreationDate: now,
		}
		if err := c.store.CreateProject(ctx, &p); err != nil {
			return c.abandon(fmt.Errorf("creating sample project: %w", err))
		}

		for j := 1; j <= itemsPerProject; j++ {
			it := model.Item{
				ProjectID:    p.ID,
				Title:        fmt.Sprintf("Item %d", j),
				Completed:    rand.IntN(2) == 1,
				Priority:     model.Priority(rand.IntN(3) + 1),
				CreationDate: now,
			}
			if err := c.store.CreateItem(ctx, &it); err != nil {
				return c.abandon(fmt.Errorf("creating sample item: %w", err))
			}
			c.index.ItemChanged(ctx, it)
		}
	}

	if err := c.store.Save(ctx); err != nil {
		return err
	}
	c.bus.publish(Change{Kind: StoreReset})
	return nil
}

// abandon rolls back the pending unit of work and returns err.
func (c *Controller) abandon(err error) error {
	if rbErr := c.store.Rollback(); rbErr != nil {
		c.logger.Warn("rolling back sample data failed", zap.Error(rbErr))
	}
	return err
}
