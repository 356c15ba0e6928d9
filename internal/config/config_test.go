package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kaizen/internal/config"
)

func TestDefaultCatalog(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	require.Len(t, cfg.Waste.Catalog, 8)

	waiting, ok := cfg.Category("waiting")
	require.True(t, ok)
	assert.Equal(t, 4, waiting.Points)
	defects, ok := cfg.Category("defects")
	require.True(t, ok)
	assert.Equal(t, 7, defects.Points)
}

func TestCategoryLookupCaseInsensitive(t *testing.T) {
	cfg := config.Default()
	cat, ok := cfg.Category("  Motion ")
	require.True(t, ok)
	assert.Equal(t, "motion", cat.ID)

	_, ok = cfg.Category("nonsense")
	assert.False(t, ok)
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)
	assert.Len(t, cfg.Waste.Catalog, 8)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadCustomCatalog(t *testing.T) {
	dir := t.TempDir()
	doc := `waste:
  catalog:
    - id: rework
      name: Rework
      points: 3
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "kaizen.yml"), []byte(doc), 0o644))

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	require.Len(t, cfg.Waste.Catalog, 1)
	assert.Equal(t, "rework", cfg.Waste.Catalog[0].ID)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidateRejectsBadCatalog(t *testing.T) {
	for name, doc := range map[string]string{
		"duplicate id": `waste:
  catalog:
    - {id: waiting, name: Waiting, points: 4}
    - {id: Waiting, name: Again, points: 2}
`,
		"empty name": `waste:
  catalog:
    - {id: waiting, name: "", points: 4}
`,
		"zero points": `waste:
  catalog:
    - {id: waiting, name: Waiting, points: 0}
`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := config.FromYAML([]byte(doc))
			assert.Error(t, err)
		})
	}
}
