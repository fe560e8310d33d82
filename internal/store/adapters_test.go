package store_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/portfolio/internal/model"
	"github.com/nhle/portfolio/internal/reminder"
	"github.com/nhle/portfolio/internal/search"
	"github.com/nhle/portfolio/internal/store"
	"github.com/nhle/portfolio/tests/testutil"
)

func TestSettingsStore(t *testing.T) {
	s := testutil.NewTestStore(t)
	settings := store.NewSettingsStore(s)

	v, err := settings.Bool("fullVersionUnlocked")
	require.NoError(t, err)
	assert.False(t, v, "missing keys read as false")

	require.NoError(t, settings.SetBool("fullVersionUnlocked", true))
	v, err = settings.Bool("fullVersionUnlocked")
	require.NoError(t, err)
	assert.True(t, v)

	require.NoError(t, settings.SetBool("fullVersionUnlocked", false))
	v, err = settings.Bool("fullVersionUnlocked")
	require.NoError(t, err)
	assert.False(t, v)
}

func TestSearchIndex(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	idx := store.NewSearchIndex(s)

	garden := model.ProjectURI("garden")
	house := model.ProjectURI("house")
	records := []search.Record{
		{ID: model.ItemURI("1"), Domain: garden, Title: "Plant tulips", Content: "before the frost"},
		{ID: model.ItemURI("2"), Domain: garden, Title: "Water ferns", Content: ""},
		{ID: model.ItemURI("3"), Domain: house, Title: "Fix the tap", Content: "buy a washer for the tulip vase"},
	}
	require.NoError(t, idx.Index(ctx, records))

	got, err := idx.Search(ctx, "tulip", 10)
	require.NoError(t, err)
	// Title matches rank ahead of content matches.
	if diff := cmp.Diff([]search.Record{records[0], records[2]}, got); diff != "" {
		t.Errorf("search results mismatch (-want +got):\n%s", diff)
	}

	// Re-indexing replaces by ID.
	updated := records[1]
	updated.Title = "Water the ferns"
	require.NoError(t, idx.Index(ctx, []search.Record{updated}))
	n, err := idx.Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, idx.DeleteByDomain(ctx, []string{garden}))
	n, err = idx.Count(ctx, garden)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, idx.DeleteByIdentifier(ctx, []string{records[2].ID}))
	n, err = idx.Count(ctx, "")
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err = idx.Search(ctx, "  ", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearchIndexRidesUnitOfWork(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	idx := store.NewSearchIndex(s)

	p := model.Project{}
	require.NoError(t, s.CreateProject(ctx, &p))
	require.NoError(t, idx.Index(ctx, []search.Record{{ID: model.ItemURI("x"), Domain: p.URI()}}))

	require.NoError(t, s.Rollback())
	n, err := idx.Count(ctx, "")
	require.NoError(t, err)
	assert.Zero(t, n, "index writes made during a unit of work roll back with it")
}

func TestNotificationCenter(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	c := store.NewNotificationCenter(s, true)
	status, err := c.AuthorizationStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, reminder.StatusNotDetermined, status)

	granted, err := c.RequestAuthorization(ctx, reminder.OptionAlert|reminder.OptionSound)
	require.NoError(t, err)
	assert.True(t, granted)
	status, err = c.AuthorizationStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, reminder.StatusAuthorized, status)

	req := reminder.Request{
		ID:      model.ProjectURI("p1"),
		Content: reminder.Content{Title: "Garden", Subtitle: "weekly", Sound: true},
		Trigger: reminder.CalendarTrigger{Hour: 7, Minute: 30, Repeats: true},
	}
	require.NoError(t, c.Add(ctx, req))

	// Same ID replaces.
	req.Trigger.Hour = 9
	require.NoError(t, c.Add(ctx, req))

	pending, err := c.Pending(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff([]reminder.Request{req}, pending); diff != "" {
		t.Errorf("pending mismatch (-want +got):\n%s", diff)
	}

	require.NoError(t, c.RemovePending(ctx, []string{req.ID, "unknown"}))
	require.NoError(t, c.RemovePending(ctx, []string{req.ID}))
	pending, err = c.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	require.NoError(t, c.Add(ctx, req))
	require.NoError(t, c.RemoveAllPending(ctx))
	pending, err = c.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestNotificationCenterDenies(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	c := store.NewNotificationCenter(s, false)
	granted, err := c.RequestAuthorization(ctx, reminder.OptionAlert)
	require.NoError(t, err)
	assert.False(t, granted)

	status, err := c.AuthorizationStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, reminder.StatusDenied, status)

	require.NoError(t, c.SetAuthorizationStatus(ctx, reminder.StatusProvisional))
	status, err = c.AuthorizationStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, reminder.StatusProvisional, status)
}
