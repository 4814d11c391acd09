package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	apperrors "sentry-taiga/internal/common/errors"
	"sentry-taiga/internal/common/validation"
	"sentry-taiga/internal/connector"
	taigaitemcreate "sentry-taiga/internal/workers/taiga/taiga-item-create"
	"sentry-taiga/pkg/registry"
)

func (a *app) manifestCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Write the plugin manifest (descriptors, config forms, task contract) as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := buildManifest(a.registry(nil), time.Now().UTC())
			if err != nil {
				return err
			}
			if err := registry.SaveManifest(out, m); err != nil {
				return fmt.Errorf("write manifest: %w", err)
			}
			fmt.Fprintf(a.out, "ok: wrote %d plugins to %s\n", len(m.Plugins), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "configs/plugins.json", "Manifest output path")
	return cmd
}

var manifestErrorCodes = []string{
	string(apperrors.ErrCodeIntegration),
	string(apperrors.ErrCodePluginNotConfigured),
	string(apperrors.ErrCodeUnknownPlugin),
	string(apperrors.ErrCodeOptionsUnavailable),
	string(apperrors.ErrCodeValidationFailed),
	string(apperrors.ErrCodeInputParsingFailed),
}

func buildManifest(reg *connector.Registry, now time.Time) (*registry.Manifest, error) {
	input, err := schemaMap(taigaitemcreate.GetInputSchema())
	if err != nil {
		return nil, err
	}
	output, err := schemaMap(taigaitemcreate.GetOutputSchema())
	if err != nil {
		return nil, err
	}

	m := &registry.Manifest{
		Version:     connector.Version,
		LastUpdated: now.Format(time.RFC3339),
	}
	for _, c := range reg.List() {
		d := c.Descriptor()
		fields := make([]registry.ConfigField, 0, len(d.ConfigSchema))
		for _, f := range d.ConfigSchema {
			fields = append(fields, registry.ConfigField{
				Key:      f.Key,
				Label:    f.Label,
				Type:     string(f.Type),
				Required: f.Required,
				Initial:  f.Initial,
			})
		}
		m.Plugins = append(m.Plugins, registry.Plugin{
			Slug:         d.Slug,
			Title:        d.Title,
			Kind:         string(d.Kind),
			Description:  d.Description,
			Version:      d.Version,
			NewItemTitle: d.NewItemTitle,
			TaskType:     taigaitemcreate.TaskType,
			ConfigFields: fields,
			InputSchema:  input,
			OutputSchema: output,
			ErrorCodes:   manifestErrorCodes,
			Tags:         []string{"taiga", string(d.Kind)},
		})
	}
	return m, m.Validate()
}

func schemaMap(s validation.JSONSchema) (map[string]interface{}, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
