package award

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/portfolio/internal/model"
)

func TestLoadDefault(t *testing.T) {
	c, err := LoadDefault()
	require.NoError(t, err)

	assert.Equal(t, 1, c.Version())
	assert.Equal(t, 20, c.Len())

	kinds := map[model.CriterionKind]int{}
	for _, a := range c.All() {
		kinds[a.Criterion.Kind]++
		assert.NotEmpty(t, a.Color, a.ID)
	}
	assert.Equal(t, 8, kinds[model.CriterionItems])
	assert.Equal(t, 8, kinds[model.CriterionComplete])
	assert.Equal(t, 4, kinds[model.CriterionUnknown])

	a, ok := c.ByID("Unlimited")
	require.True(t, ok)
	assert.Equal(t, "unlock", a.Criterion.Tag)
}

func TestAllReturnsCopy(t *testing.T) {
	c, err := LoadDefault()
	require.NoError(t, err)

	all := c.All()
	all[0].Name = "changed"
	assert.NotEqual(t, "changed", c.All()[0].Name)
}

func TestParseJSONRejects(t *testing.T) {
	tests := map[string]string{
		"empty":     `{"version": 1, "awards": []}`,
		"malformed": `{"version": 1, "awards": [`,
		"no id":     `[{"name": "x", "criterion": "items", "value": 1}]`,
		"negative":  `[{"id": "x", "name": "x", "criterion": "items", "value": -1}]`,
		"duplicate": `[{"id": "x", "name": "x", "criterion": "items"}, {"id": "x", "name": "y", "criterion": "items"}]`,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseJSON([]byte(data))
			assert.Error(t, err)
		})
	}

	_, err := ParseJSON([]byte(`{"awards": []}`))
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestParseJSONBareArray(t *testing.T) {
	c, err := ParseJSON([]byte(`[{"id": "a", "name": "A", "criterion": "complete", "value": 2}]`))
	require.NoError(t, err)
	assert.Equal(t, 0, c.Version())
	assert.Equal(t, model.CriterionComplete, c.All()[0].Criterion.Kind)
}

func TestLoadFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "awards.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
version: 2
awards:
  - id: starter
    name: Starter
    description: Add an item.
    color: Pink
    image: pencil
    criterion: items
    value: 1
  - id: social
    name: Social
    description: Post a message.
    color: Red
    criterion: chat
    value: 1
`), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Version())
	require.Equal(t, 2, c.Len())

	all := c.All()
	assert.Equal(t, model.CriterionItems, all[0].Criterion.Kind)
	assert.Equal(t, model.Criterion{Kind: model.CriterionUnknown, Tag: "chat"}, all[1].Criterion)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "none.json"))
	assert.Error(t, err)
}
