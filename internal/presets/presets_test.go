package presets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hueforge/themed/internal/theme"
)

func TestAllDecodes(t *testing.T) {
	presets, err := All()
	require.NoError(t, err)
	require.NotEmpty(t, presets)

	names := make(map[string]bool)
	for _, p := range presets {
		assert.NotEmpty(t, p.Name)
		assert.False(t, names[p.Name], "duplicate preset name %q", p.Name)
		names[p.Name] = true
	}
	assert.True(t, names["Neutral"])
	assert.True(t, names["High Contrast"])
}

func TestMaterializeProducesValidDocuments(t *testing.T) {
	presets, err := All()
	require.NoError(t, err)

	for _, p := range presets {
		t.Run(p.Name, func(t *testing.T) {
			doc := p.Materialize()

			data, err := theme.ToJSON(doc, false)
			require.NoError(t, err)
			_, err = theme.Validate(data)
			require.NoError(t, err, "preset %q must satisfy the schema", p.Name)

			assert.Equal(t, p.Author, doc.Author)
		})
	}
}

func TestPresetIDs(t *testing.T) {
	assert.Equal(t, "high-contrast", Preset{Name: "High Contrast"}.ID())
}
