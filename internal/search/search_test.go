package search_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/portfolio/internal/model"
	"github.com/nhle/portfolio/internal/search"
	"github.com/nhle/portfolio/tests/testutil"
)

func TestRecordFor(t *testing.T) {
	rec := search.RecordFor(model.Item{ID: "i1", ProjectID: "p1", Title: "Buy seeds", Detail: "tomatoes"})
	assert.Equal(t, search.Record{
		ID:      model.ItemURI("i1"),
		Domain:  model.ProjectURI("p1"),
		Title:   "Buy seeds",
		Content: "tomatoes",
	}, rec)

	rec = search.RecordFor(model.Item{ID: "i2"})
	assert.Empty(t, rec.Domain)
	assert.Equal(t, "New Item", rec.Title)
}

func TestSynchronizerMirrorsChanges(t *testing.T) {
	idx := testutil.NewFakeIndex()
	syncer := search.NewSynchronizer(idx, nil)
	ctx := context.Background()

	a := model.Item{ID: "a", ProjectID: "p1", Title: "first"}
	b := model.Item{ID: "b", ProjectID: "p1", Title: "second"}
	c := model.Item{ID: "c", ProjectID: "p2", Title: "third"}
	for _, it := range []model.Item{a, b, c} {
		syncer.ItemChanged(ctx, it)
	}
	require.Equal(t, 3, idx.Len())

	a.Title = "renamed"
	syncer.ItemChanged(ctx, a)
	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, "renamed", idx.Records[a.URI()].Title)

	syncer.ItemDeleted(ctx, "c")
	assert.Equal(t, [][]string{{c.URI()}}, idx.IdentifierDeletes)
	assert.Equal(t, 2, idx.Len())

	syncer.ProjectDeleted(ctx, "p1")
	assert.Equal(t, [][]string{{model.ProjectURI("p1")}}, idx.DomainDeletes)
	assert.Zero(t, idx.Len())
}

func TestProjectsDeletedBatchesDomains(t *testing.T) {
	idx := testutil.NewFakeIndex()
	syncer := search.NewSynchronizer(idx, nil)

	syncer.ProjectsDeleted(context.Background(), nil)
	assert.Empty(t, idx.DomainDeletes)

	syncer.ProjectsDeleted(context.Background(), []string{"p1", "p2"})
	require.Len(t, idx.DomainDeletes, 1)
	assert.Equal(t, []string{model.ProjectURI("p1"), model.ProjectURI("p2")}, idx.DomainDeletes[0])
}

func TestSynchronizerSwallowsIndexErrors(t *testing.T) {
	idx := testutil.NewFakeIndex()
	idx.Err = errors.New("index offline")
	syncer := search.NewSynchronizer(idx, nil)
	ctx := context.Background()

	assert.NotPanics(t, func() {
		syncer.ItemChanged(ctx, model.Item{ID: "a", ProjectID: "p"})
		syncer.ItemDeleted(ctx, "a")
		syncer.ProjectDeleted(ctx, "p")
	})
	assert.Equal(t, 1, idx.IndexCalls)
	assert.Zero(t, idx.Len())
}
