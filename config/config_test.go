package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 5, cfg.Heuristics.MaxJunctionMetadataColumns)
	assert.Equal(t, "parent", cfg.Heuristics.SelfRefPropertyNames["parent_id"])
	assert.Equal(t, "children", cfg.Heuristics.SelfRefCollectionNames["parent_id"])
	assert.Equal(t, "generated", cfg.Output.Dir)
	assert.Equal(t, "entities", cfg.Output.Package)
	assert.True(t, cfg.Heuristics.AlreadyPlural()["children"])
	require.NoError(t, cfg.Validate())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Heuristics.MaxJunctionMetadataColumns, cfg.Heuristics.MaxJunctionMetadataColumns)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ormgen.yaml")
	content := `
output:
  dir: out
  package: models
heuristics:
  max_junction_metadata_columns: 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.Output.Dir)
	assert.Equal(t, "models", cfg.Output.Package)
	assert.Equal(t, 2, cfg.Heuristics.MaxJunctionMetadataColumns)
	// untouched defaults survive a partial file
	assert.Equal(t, "parent", cfg.Heuristics.SelfRefPropertyNames["parent_id"])
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ormgen.yaml")
	content := `
heuristics:
  max_junction_metadata_columns: -1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_junction_metadata_columns")
}
