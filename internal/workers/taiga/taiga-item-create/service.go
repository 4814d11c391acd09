package taigaitemcreate

import (
	"context"
	"fmt"

	"sentry-taiga/internal/common/logger"
	"sentry-taiga/internal/connector"
	"sentry-taiga/internal/items"
)

type Service struct {
	config *Config
	logger logger.Logger
	items  *items.Service
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config: config,
		logger: deps.Logger,
		items:  deps.Items,
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	s.logger.Info("Executing Taiga item create", map[string]interface{}{
		"pluginSlug": input.PluginSlug,
		"projectId":  input.ProjectID,
		"titleLen":   len(input.Title),
	})

	result, err := s.items.Create(ctx, input.PluginSlug, input.ProjectID, connector.FormInput{
		Title:       input.Title,
		Description: input.Description,
	})
	if err != nil {
		return nil, err
	}

	return &Output{
		Success:   true,
		Message:   fmt.Sprintf("Created %s %s", result.Kind, result.Label),
		Kind:      string(result.Kind),
		Ref:       result.Ref,
		Label:     result.Label,
		URL:       result.URL,
		CreatedAt: result.CreatedAt,
	}, nil
}

// Ready fails when no connector is registered.
func (s *Service) Ready() error {
	if s.items == nil || len(s.items.Registry().List()) == 0 {
		return fmt.Errorf("no connectors registered")
	}
	return nil
}
