// Package items is the host-side use case around the connector: it resolves
// the plugin, loads project options, creates the item and records telemetry.
package items

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	apperrors "sentry-taiga/internal/common/errors"
	"sentry-taiga/internal/common/logger"
	"sentry-taiga/internal/common/metrics"
	"sentry-taiga/internal/common/observability"
	"sentry-taiga/internal/connector"
	"sentry-taiga/internal/options"
)

// Result describes a created item.
type Result struct {
	PluginSlug string         `json:"pluginSlug"`
	Kind       connector.Kind `json:"kind"`
	Ref        int64          `json:"ref"`
	Label      string         `json:"label"`
	URL        string         `json:"url"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// Link is the display data for an existing item.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

type Dependencies struct {
	Registry      *connector.Registry
	Store         options.Store
	Logger        logger.Logger
	Observability *observability.Observability
}

type Service struct {
	registry *connector.Registry
	store    options.Store
	logger   logger.Logger
	obs      *observability.Observability
}

func NewService(deps Dependencies) *Service {
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Service{
		registry: deps.Registry,
		store:    deps.Store,
		logger:   log,
		obs:      deps.Observability,
	}
}

// Connector returns the connector registered under slug.
func (s *Service) Connector(slug string) (*connector.Connector, error) {
	c, ok := s.registry.Get(slug)
	if !ok {
		return nil, apperrors.NewUnknownPluginError(slug)
	}
	return c, nil
}

func (s *Service) load(ctx context.Context, slug, projectID string) (*connector.Connector, connector.ConnectorConfig, error) {
	c, err := s.Connector(slug)
	if err != nil {
		return nil, connector.ConnectorConfig{}, err
	}
	cfg, err := options.LoadConfig(ctx, s.store, slug, projectID)
	if err != nil {
		return nil, connector.ConnectorConfig{}, apperrors.NewOptionsUnavailableError(err)
	}
	return c, cfg, nil
}

// IsConfigured reports whether the plugin is usable for the project.
func (s *Service) IsConfigured(ctx context.Context, slug, projectID string) (bool, error) {
	c, cfg, err := s.load(ctx, slug, projectID)
	if err != nil {
		return false, err
	}
	return c.IsConfigured(cfg), nil
}

// Create files a new item for the project. Connector failures come back as
// *errors.IntegrationError; lookup and configuration problems as
// *errors.StandardError.
func (s *Service) Create(ctx context.Context, slug, projectID string, form connector.FormInput) (*Result, error) {
	c, cfg, err := s.load(ctx, slug, projectID)
	if err != nil {
		return nil, err
	}
	if !c.IsConfigured(cfg) {
		return nil, apperrors.NewPluginNotConfiguredError(slug, projectID)
	}

	kind := string(c.Kind())
	log := s.logger.WithFields(map[string]interface{}{
		"plugin":    slug,
		"projectId": projectID,
		"kind":      kind,
	})

	ctx, span := s.obs.StartSpan(ctx, "taiga.create_item",
		attribute.String("plugin", slug),
		attribute.String("project_id", projectID),
		attribute.String("kind", kind),
	)
	defer span.End()

	start := time.Now()
	ref, err := c.CreateItem(ctx, cfg, form)
	elapsed := time.Since(start)
	metrics.TaigaItemCreateDuration.WithLabelValues(kind).Observe(elapsed.Seconds())

	if err != nil {
		metrics.TaigaItemCreateFailures.WithLabelValues(kind).Inc()
		s.obs.RecordItemCreate(ctx, kind, "failure", elapsed)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Warn("Taiga item creation failed", map[string]interface{}{
			"error":      err.Error(),
			"durationMs": elapsed.Milliseconds(),
		})
		return nil, err
	}

	metrics.TaigaItemsCreated.WithLabelValues(kind).Inc()
	s.obs.RecordItemCreate(ctx, kind, "success", elapsed)
	span.SetAttributes(attribute.Int64("ref", int64(ref)))

	result := &Result{
		PluginSlug: slug,
		Kind:       c.Kind(),
		Ref:        int64(ref),
		Label:      c.FormatItemLabel(ref),
		URL:        c.BuildItemURL(cfg, ref),
		CreatedAt:  time.Now().UTC(),
	}

	log.Info("Taiga item created", map[string]interface{}{
		"ref":        result.Ref,
		"label":      result.Label,
		"durationMs": elapsed.Milliseconds(),
	})

	return result, nil
}

// Link renders the label and URL for an existing ref.
func (s *Service) Link(ctx context.Context, slug, projectID string, ref int64) (*Link, error) {
	c, cfg, err := s.load(ctx, slug, projectID)
	if err != nil {
		return nil, err
	}
	return &Link{
		Label: c.FormatItemLabel(connector.ItemRef(ref)),
		URL:   c.BuildItemURL(cfg, connector.ItemRef(ref)),
	}, nil
}

// SaveOptions stores project options for slug. Unknown slugs are rejected.
func (s *Service) SaveOptions(ctx context.Context, slug, projectID string, values map[string]string) error {
	if _, err := s.Connector(slug); err != nil {
		return err
	}
	if err := s.store.SaveOptions(ctx, slug, projectID, values); err != nil {
		return apperrors.NewOptionsUnavailableError(err)
	}
	s.logger.Info("Plugin options saved", map[string]interface{}{
		"plugin":    slug,
		"projectId": projectID,
		"keys":      len(values),
	})
	return nil
}

// Options returns the stored config for slug/projectID.
func (s *Service) Options(ctx context.Context, slug, projectID string) (connector.ConnectorConfig, error) {
	_, cfg, err := s.load(ctx, slug, projectID)
	return cfg, err
}

// Registry exposes the plugin registry for listing.
func (s *Service) Registry() *connector.Registry {
	return s.registry
}
