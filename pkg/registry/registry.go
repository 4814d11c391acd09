// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return &m, nil
}

// SaveManifest writes m as indented JSON, creating parent directories.
func SaveManifest(path string, m *Manifest) error {
	if err := m.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Find returns the plugin with slug, or nil.
func (m *Manifest) Find(slug string) *Plugin {
	for i := range m.Plugins {
		if m.Plugins[i].Slug == slug {
			return &m.Plugins[i]
		}
	}
	return nil
}

// Validate checks every plugin has a slug, title and task type, and that
// slugs are unique.
func (m *Manifest) Validate() error {
	var errs []error
	seen := map[string]bool{}
	for i, p := range m.Plugins {
		if p.Slug == "" {
			errs = append(errs, fmt.Errorf("plugin %d: slug is required", i))
			continue
		}
		if seen[p.Slug] {
			errs = append(errs, fmt.Errorf("plugin %s: duplicate slug", p.Slug))
		}
		seen[p.Slug] = true
		if p.Title == "" {
			errs = append(errs, fmt.Errorf("plugin %s: title is required", p.Slug))
		}
		if p.TaskType == "" {
			errs = append(errs, fmt.Errorf("plugin %s: taskType is required", p.Slug))
		}
	}
	return errors.Join(errs...)
}
