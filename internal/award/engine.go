// Package award decides which catalog awards the user has earned.
//
// Earned state is derived: it is recomputed from item counts on every
// query and never stored, so it always agrees with the current data.
package award

import (
	"context"

	"go.uber.org/zap"

	"github.com/nhle/portfolio/internal/model"
	"github.com/nhle/portfolio/internal/store"
)

// Locked presentation, shared by every award that is not yet earned.
const (
	LockedColor = "Light Gray"
	LockedLabel = "Locked"
)

// Counter is the slice of the store the engine needs.
type Counter interface {
	CountItems(ctx context.Context, filter store.ItemFilter) (int, error)
}

// evaluator reports whether a criterion with the given threshold is met.
type evaluator func(ctx context.Context, c Counter, value int) (bool, error)

var evaluators = map[model.CriterionKind]evaluator{
	model.CriterionItems: func(ctx context.Context, c Counter, value int) (bool, error) {
		n, err := c.CountItems(ctx, store.ItemFilter{})
		return n >= value, err
	},
	model.CriterionComplete: func(ctx context.Context, c Counter, value int) (bool, error) {
		n, err := c.CountItems(ctx, store.ItemFilter{Completed: store.Ptr(true)})
		return n >= value, err
	},
}

// Engine evaluates awards against the store.
type Engine struct {
	counter Counter
	logger  *zap.Logger
}

// NewEngine creates an Engine. A nil logger discards output.
func NewEngine(counter Counter, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{counter: counter, logger: logger}
}

// HasEarned reports whether the award's criterion is currently met.
// Unknown criteria are never earned. A failed count is logged and
// reported as not earned.
func (e *Engine) HasEarned(ctx context.Context, a model.Award) bool {
	eval, ok := evaluators[a.Criterion.Kind]
	if !ok {
		return false
	}

	earned, err := eval(ctx, e.counter, a.Value)
	if err != nil {
		e.logger.Warn("evaluating award failed",
			zap.String("award", a.ID),
			zap.Stringer("criterion", a.Criterion),
			zap.Error(err))
		return false
	}
	return earned
}

// Status pairs an award with its earned state.
type Status struct {
	Award  model.Award
	Earned bool
}

// Statuses evaluates every award in order.
func (e *Engine) Statuses(ctx context.Context, awards []model.Award) []Status {
	out := make([]Status, 0, len(awards))
	for _, a := range awards {
		out = append(out, Status{Award: a, Earned: e.HasEarned(ctx, a)})
	}
	return out
}

// ColorName is the palette key to draw the award with.
func ColorName(a model.Award, earned bool) string {
	if earned {
		return a.Color
	}
	return LockedColor
}

// AccessibilityLabel describes the award without revealing a locked
// award's name.
func AccessibilityLabel(a model.Award, earned bool) string {
	if earned {
		return a.Name
	}
	return LockedLabel
}

// Alert returns the title and message shown when an award is selected.
// A locked award shows its description, never the "Unlocked" framing.
func Alert(a model.Award, earned bool) (title, message string) {
	if earned {
		return "Unlocked: " + a.Name, a.Description
	}
	return LockedLabel, a.Description
}
