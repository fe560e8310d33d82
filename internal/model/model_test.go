package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityRoundTrip(t *testing.T) {
	p := Project{ID: "6f0c1d7e-0b1a-4d7e-9a55-2f6c7b1e2a10"}
	it := Item{ID: "a1b2c3", ProjectID: p.ID}

	assert.Equal(t, "x-portfolio://Project/6f0c1d7e-0b1a-4d7e-9a55-2f6c7b1e2a10", p.URI())

	kind, id, err := ParseIdentity(p.URI())
	require.NoError(t, err)
	assert.Equal(t, KindProject, kind)
	assert.Equal(t, p.ID, id)

	kind, id, err = ParseIdentity(it.URI())
	require.NoError(t, err)
	assert.Equal(t, KindItem, kind)
	assert.Equal(t, it.ID, id)
}

func TestParseIdentityRejects(t *testing.T) {
	for _, s := range []string{
		"",
		"a1b2c3",
		"https://Project/abc",
		"x-portfolio://Award/abc",
		"x-portfolio://Item/",
		"x-portfolio://Item/a/b",
	} {
		t.Run(s, func(t *testing.T) {
			_, _, err := ParseIdentity(s)
			assert.ErrorIs(t, err, ErrInvalidIdentity)
		})
	}
}

func TestParseCriterion(t *testing.T) {
	tests := []struct {
		tag  string
		kind CriterionKind
	}{
		{"items", CriterionItems},
		{"complete", CriterionComplete},
		{"Items", CriterionUnknown},
		{" items", CriterionUnknown},
		{"chat", CriterionUnknown},
		{"unlock", CriterionUnknown},
		{"", CriterionUnknown},
	}
	for _, tt := range tests {
		c := ParseCriterion(tt.tag)
		assert.Equal(t, tt.kind, c.Kind, "tag %q", tt.tag)
	}

	// Unknown tags keep their raw spelling.
	assert.Equal(t, "chat", ParseCriterion("chat").Tag)
}

func TestAwardJSON(t *testing.T) {
	var a Award
	err := json.Unmarshal([]byte(`{
		"id": "Chatterbox", "name": "Chatterbox", "description": "Post 10 messages.",
		"color": "Teal", "image": "bubble", "criterion": "chat", "value": 10
	}`), &a)
	require.NoError(t, err)
	assert.Equal(t, CriterionUnknown, a.Criterion.Kind)
	assert.Equal(t, 10, a.Value)

	out, err := json.Marshal(a)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"criterion":"chat"`)
}

func TestPriority(t *testing.T) {
	assert.Equal(t, PriorityLow, Priority(0).Normalize())
	assert.Equal(t, PriorityLow, Priority(9).Normalize())
	assert.Equal(t, PriorityMedium, Priority(2).Normalize())
	assert.Equal(t, "high", PriorityHigh.String())

	p, err := ParsePriority("High")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)

	p, err = ParsePriority("2")
	require.NoError(t, err)
	assert.Equal(t, PriorityMedium, p)

	_, err = ParsePriority("urgent")
	assert.Error(t, err)
}

func TestProjectDisplay(t *testing.T) {
	var p Project
	assert.Equal(t, "New Project", p.DisplayTitle())
	assert.Equal(t, DefaultProjectColor, p.DisplayColor())

	p.Color = "Mauve"
	assert.Equal(t, DefaultProjectColor, p.DisplayColor())

	p.Color = "Midnight"
	assert.Equal(t, "Midnight", p.DisplayColor())

	assert.Equal(t, "New Item", Item{}.DisplayTitle())
	assert.Len(t, ProjectColors, 12)
	assert.True(t, ExampleProject().Closed)
	assert.Equal(t, PriorityHigh, ExampleItem().Priority)
}

func TestCompletionAmount(t *testing.T) {
	assert.Zero(t, CompletionAmount(nil))
	items := []Item{{Completed: true}, {}, {Completed: true}, {}}
	assert.InDelta(t, 0.5, CompletionAmount(items), 1e-9)
}

func TestTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("07:45")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 7, Minute: 45}, tod)
	assert.Equal(t, "07:45", tod.String())
	assert.True(t, tod.Valid())

	_, err = ParseTimeOfDay("25:00")
	assert.Error(t, err)

	at := time.Date(2024, 3, 1, 21, 5, 0, 0, time.UTC)
	assert.Equal(t, TimeOfDay{Hour: 21, Minute: 5}, TimeOfDayFrom(at))
	assert.False(t, TimeOfDay{Hour: 24}.Valid())
}
