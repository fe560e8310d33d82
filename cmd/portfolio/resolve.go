package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nhle/portfolio/internal/model"
	"github.com/nhle/portfolio/internal/store"
)

var errAmbiguous = errors.New("ambiguous id prefix")

// resolveProject finds a project by full ID, identity URI or unique ID prefix.
func resolveProject(ctx context.Context, ref string) (model.Project, error) {
	c := env.controller
	if kind, id, err := model.ParseIdentity(ref); err == nil && kind == model.KindProject {
		ref = id
	}
	if p, err := c.Project(ctx, ref); err == nil {
		return *p, nil
	}

	projects, err := c.Projects(ctx, store.ProjectFilter{})
	if err != nil {
		return model.Project{}, err
	}
	var match []model.Project
	for _, p := range projects {
		if strings.HasPrefix(p.ID, ref) {
			match = append(match, p)
		}
	}
	switch len(match) {
	case 0:
		return model.Project{}, fmt.Errorf("project %s: %w", ref, store.ErrNotFound)
	case 1:
		return match[0], nil
	default:
		return model.Project{}, fmt.Errorf("project %s: %w", ref, errAmbiguous)
	}
}

// resolveItem finds an item by full ID, identity URI or unique ID prefix.
func resolveItem(ctx context.Context, ref string) (model.Item, error) {
	c := env.controller
	if it, ok := c.ItemWithIdentifier(ctx, ref); ok {
		return it, nil
	}
	if it, ok := c.ItemWithIdentifier(ctx, model.ItemURI(ref)); ok {
		return it, nil
	}

	items, err := c.Items(ctx, store.ItemFilter{})
	if err != nil {
		return model.Item{}, err
	}
	var match []model.Item
	for _, it := range items {
		if strings.HasPrefix(it.ID, ref) {
			match = append(match, it)
		}
	}
	switch len(match) {
	case 0:
		return model.Item{}, fmt.Errorf("item %s: %w", ref, store.ErrNotFound)
	case 1:
		return match[0], nil
	default:
		return model.Item{}, fmt.Errorf("item %s: %w", ref, errAmbiguous)
	}
}

// shortID is the prefix shown in listings.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
