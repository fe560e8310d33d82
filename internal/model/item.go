package model

import (
	"fmt"
	"strings"
	"time"
)

// Priority is an item's importance: 1 low, 2 medium, 3 high.
type Priority int

const (
	PriorityLow    Priority = 1
	PriorityMedium Priority = 2
	PriorityHigh   Priority = 3
)

// Normalize clamps out-of-range priorities to PriorityLow.
func (p Priority) Normalize() Priority {
	if p < PriorityLow || p > PriorityHigh {
		return PriorityLow
	}
	return p
}

func (p Priority) String() string {
	switch p.Normalize() {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	default:
		return "low"
	}
}

// ParsePriority accepts "low", "medium", "high" or 1-3.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "1":
		return PriorityLow, nil
	case "medium", "2":
		return PriorityMedium, nil
	case "high", "3":
		return PriorityHigh, nil
	default:
		return PriorityLow, fmt.Errorf("unknown priority %q", s)
	}
}

// Item is a unit of work owned by a project.
type Item struct {
	ID           string    `json:"id" db:"id"`
	ProjectID    string    `json:"project_id" db:"project_id"`
	Title        string    `json:"title" db:"title"`
	Detail       string    `json:"detail" db:"detail"`
	Completed    bool      `json:"completed" db:"completed"`
	Priority     Priority  `json:"priority" db:"priority"`
	CreationDate time.Time `json:"creation_date" db:"creation_date"`
}

// DisplayTitle returns the title, or a placeholder when it is blank.
func (i Item) DisplayTitle() string {
	if i.Title == "" {
		return "New Item"
	}
	return i.Title
}

// ExampleItem is a high-priority item used by previews and tests.
func ExampleItem() Item {
	return Item{
		Title:        "Example Item",
		Detail:       "This is an example item",
		Priority:     PriorityHigh,
		CreationDate: time.Now(),
	}
}
