package awards

import (
	"context"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/portfolio/internal/award"
	"github.com/nhle/portfolio/internal/keys"
	"github.com/nhle/portfolio/internal/model"
)

type staticSource []award.Status

func (s staticSource) AwardStatuses(context.Context) []award.Status { return s }

func statuses(n, earned int) staticSource {
	out := make(staticSource, n)
	for i := range out {
		out[i] = award.Status{
			Award: model.Award{
				ID:          fmt.Sprintf("a%d", i),
				Name:        fmt.Sprintf("Award %d", i),
				Description: fmt.Sprintf("Do thing %d.", i),
				Color:       "Gold",
			},
			Earned: i < earned,
		}
	}
	return out
}

// loaded builds a model and feeds it the result of its own Init command.
func loaded(t *testing.T, src Source) Model {
	t.Helper()
	m := New(src, keys.DefaultKeyMap(), 80, 24)
	cmd := m.Init()
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	return next.(Model)
}

func press(m Model, k tea.KeyType) Model {
	next, _ := m.Update(tea.KeyMsg{Type: k})
	return next.(Model)
}

func TestCursorStaysInGrid(t *testing.T) {
	m := loaded(t, statuses(10, 0))

	m = press(m, tea.KeyUp)
	assert.Equal(t, 0, m.Cursor())
	m = press(m, tea.KeyLeft)
	assert.Equal(t, 0, m.Cursor())

	m = press(m, tea.KeyDown)
	assert.Equal(t, 4, m.Cursor())
	m = press(m, tea.KeyDown)
	assert.Equal(t, 8, m.Cursor())
	m = press(m, tea.KeyDown)
	assert.Equal(t, 8, m.Cursor(), "no row below")

	m = press(m, tea.KeyRight)
	assert.Equal(t, 9, m.Cursor())
	m = press(m, tea.KeyRight)
	assert.Equal(t, 9, m.Cursor())

	m = press(m, tea.KeyUp)
	assert.Equal(t, 5, m.Cursor())
}

func TestAlertShowsAndDismisses(t *testing.T) {
	m := loaded(t, statuses(3, 1))

	m = press(m, tea.KeyEnter)
	require.True(t, m.Alerting())
	assert.Contains(t, m.View(), "Unlocked: Award 0")

	// Navigation is ignored while the alert is up.
	m = press(m, tea.KeyRight)
	assert.Equal(t, 0, m.Cursor())

	m = press(m, tea.KeyEsc)
	assert.False(t, m.Alerting())

	m = press(m, tea.KeyRight)
	m = press(m, tea.KeyEnter)
	view := m.View()
	assert.Contains(t, view, "Locked")
	assert.Contains(t, view, "Do thing 1.")
	assert.NotContains(t, view, "Award 1")
}

func TestGridHidesLockedNames(t *testing.T) {
	m := loaded(t, statuses(5, 2))

	view := m.View()
	assert.Contains(t, view, "2/5 earned")
	assert.Contains(t, view, "Award 0")
	assert.Contains(t, view, "Award 1")
	assert.NotContains(t, view, "Award 2")
	assert.Equal(t, 2, m.Earned())
}

func TestEmptyCatalog(t *testing.T) {
	m := loaded(t, staticSource(nil))

	m = press(m, tea.KeyEnter)
	assert.False(t, m.Alerting())
	assert.Contains(t, m.View(), "No awards in the catalog.")
}

func TestReloadClampsCursor(t *testing.T) {
	m := loaded(t, statuses(10, 0))
	m = press(m, tea.KeyDown)
	m = press(m, tea.KeyDown)
	require.Equal(t, 8, m.Cursor())

	next, _ := m.Update(StatusesLoadedMsg{Statuses: statuses(3, 0)})
	assert.Equal(t, 2, next.(Model).Cursor())

	_, cmd := next.Update(RefreshMsg{})
	require.NotNil(t, cmd)
	assert.IsType(t, StatusesLoadedMsg{}, cmd())
}

func TestQuit(t *testing.T) {
	m := loaded(t, statuses(1, 0))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
