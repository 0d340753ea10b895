package taxonomy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gregorizeidler/urbansight/internal/model"
)

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRules_Valid(t *testing.T) {
	t.Parallel()

	path := writeRules(t, `
priority: [amenity, shop]
amenity:
  food: [restaurant, izakaya]
  healthcare: [hospital]
keys:
  shop: shopping
`)

	c, err := LoadRules(path)
	require.NoError(t, err)

	cat, sub := c.Classify(map[string]string{"amenity": "izakaya"})
	assert.Equal(t, model.CategoryFood, cat)
	assert.Equal(t, "izakaya", sub)

	cat, _ = c.Classify(map[string]string{"shop": "deli"})
	assert.Equal(t, model.CategoryShopping, cat)

	// Keys outside the loaded priority list are ignored.
	cat, sub = c.Classify(map[string]string{"leisure": "park"})
	assert.Equal(t, model.CategoryOther, cat)
	assert.Equal(t, SubcategoryUnknown, sub)
}

func TestLoadRules_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{
			"unknown category",
			"priority: [amenity]\namenity:\n  snacks: [crisps]\n",
			"unknown amenity category",
		},
		{
			"empty priority",
			"amenity:\n  food: [restaurant]\n  healthcare: [clinic]\n",
			"priority list is empty",
		},
		{
			"single category",
			"priority: [amenity]\namenity:\n  food: [restaurant, cafe]\n",
			"fewer than 2 categories",
		},
		{
			"priority key without mapping",
			"priority: [amenity, craft]\namenity:\n  food: [restaurant]\n  healthcare: [clinic]\n",
			"priority key craft has no category mapping",
		},
		{
			"not yaml at all",
			"{{nope",
			"parse rules file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadRules(writeRules(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoadRules_DuplicateAmenityValue(t *testing.T) {
	t.Parallel()

	path := writeRules(t, `
priority: [amenity]
amenity:
  food: [restaurant]
  services: [restaurant]
`)
	_, err := LoadRules(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mapped to both")
}

func TestLoadRules_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadRules(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
