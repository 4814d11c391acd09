package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleManifest() *Manifest {
	return &Manifest{
		Version:     "1.0.0",
		LastUpdated: "2026-01-01T00:00:00Z",
		Plugins: []Plugin{
			{
				Slug:     "taiga",
				Title:    "Taiga",
				Kind:     "issue",
				TaskType: "taiga.item.create",
				ConfigFields: []ConfigField{
					{Key: "serviceUrl", Label: "Taiga URL", Type: "url", Required: true, Initial: "https://tree.taiga.io"},
				},
				ErrorCodes: []string{"INTEGRATION_ERROR"},
			},
			{
				Slug:     "taiga-userstory",
				Title:    "Taiga User Stories",
				Kind:     "userstory",
				TaskType: "taiga.item.create",
			},
		},
	}
}

func TestSaveAndLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "plugins.json")

	require.NoError(t, SaveManifest(path, sampleManifest()))

	loaded, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, sampleManifest(), loaded)

	p := loaded.Find("taiga")
	require.NotNil(t, p)
	assert.Equal(t, "https://tree.taiga.io", p.ConfigFields[0].Initial)
	assert.Nil(t, loaded.Find("jira"))
}

func TestLoadManifest_Errors(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	_, err = LoadManifest(path)
	assert.ErrorContains(t, err, "parse manifest")
}

func TestManifest_Validate(t *testing.T) {
	m := sampleManifest()
	m.Plugins = append(m.Plugins, Plugin{Slug: "taiga", Title: "Again", TaskType: "x"}, Plugin{})

	err := m.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plugin taiga: duplicate slug")
	assert.Contains(t, err.Error(), "plugin 3: slug is required")

	assert.Error(t, SaveManifest(filepath.Join(t.TempDir(), "x.json"), m))
}
