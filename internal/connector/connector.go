// Package connector files Sentry events as Taiga issues or user stories.
package connector

import (
	"context"
	"strings"

	apperrors "sentry-taiga/internal/common/errors"
	httpclient "sentry-taiga/internal/common/http"
	"sentry-taiga/internal/common/taiga"
)

// FormInput is the user-submitted create form.
type FormInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Tracker is the part of the Taiga API a create call uses.
type Tracker interface {
	Authenticate(ctx context.Context, username, password string) error
	ProjectBySlug(ctx context.Context, slug string) (*taiga.Project, error)
	AddIssue(ctx context.Context, issue taiga.NewIssue) (*taiga.Item, error)
	AddUserStory(ctx context.Context, story taiga.NewUserStory) (*taiga.Item, error)
}

// TrackerFactory returns a fresh, unauthenticated Tracker for apiURL.
type TrackerFactory func(apiURL string) Tracker

// NewTaigaTrackerFactory builds Taiga REST clients sharing one transport.
// Each call still gets its own client and session token.
func NewTaigaTrackerFactory(hc *httpclient.Client) TrackerFactory {
	return func(apiURL string) Tracker {
		return taiga.NewClient(apiURL, hc)
	}
}

// Connector creates one kind of Taiga item. It holds no per-call state and
// is safe for concurrent use.
type Connector struct {
	kind       Kind
	descriptor Descriptor
	newTracker TrackerFactory
}

// New returns a connector for kind. A nil factory uses Taiga REST clients
// with default transport settings.
func New(kind Kind, factory TrackerFactory) *Connector {
	if factory == nil {
		factory = NewTaigaTrackerFactory(nil)
	}
	return &Connector{
		kind:       kind,
		descriptor: describe(kind),
		newTracker: factory,
	}
}

func (c *Connector) Kind() Kind {
	return c.kind
}

func (c *Connector) Descriptor() Descriptor {
	return c.descriptor
}

// IsConfigured reports whether the project slug is set. It does not check
// that the slug resolves.
func (c *Connector) IsConfigured(cfg ConnectorConfig) bool {
	return strings.TrimSpace(cfg.ProjectSlug) != ""
}

// CreateItem files form as a new Taiga item and returns its ref. Every
// failure is an *errors.IntegrationError. Nothing is retried.
func (c *Connector) CreateItem(ctx context.Context, cfg ConnectorConfig, form FormInput) (ItemRef, error) {
	if err := cfg.Validate(); err != nil {
		return 0, apperrors.NewIntegrationError(err, "Taiga is not configured: %s", err)
	}

	tracker := c.newTracker(cfg.EffectiveAPIURL())

	if err := tracker.Authenticate(ctx, cfg.Username, cfg.Password); err != nil {
		return 0, apperrors.NewIntegrationError(err, "Error Communicating with Taiga: %s", err)
	}

	slug := strings.TrimSpace(cfg.ProjectSlug)
	project, err := tracker.ProjectBySlug(ctx, slug)
	if err != nil {
		return 0, apperrors.NewIntegrationError(err, "Error Communicating with Taiga: %s", err)
	}
	if project == nil {
		return 0, apperrors.NewIntegrationError(nil, "No project found in Taiga with slug %s", slug)
	}

	tags := ParseLabels(cfg.Labels)

	var item *taiga.Item
	switch c.kind {
	case KindUserStory:
		if project.DefaultUSStatus == nil {
			return 0, apperrors.NewIntegrationError(nil,
				"Project %s has no default status. Set the default user story status in Taiga", project.Name)
		}
		item, err = tracker.AddUserStory(ctx, taiga.NewUserStory{
			Project:     project.ID,
			Subject:     form.Title,
			Description: form.Description,
			Status:      *project.DefaultUSStatus,
			Tags:        tags,
		})
	default:
		if project.DefaultIssueStatus == nil {
			return 0, apperrors.NewIntegrationError(nil,
				"Project %s has no default status. Set the default issue status in Taiga", project.Name)
		}
		if tags == nil {
			tags = []string{}
		}
		item, err = tracker.AddIssue(ctx, taiga.NewIssue{
			Project:     project.ID,
			Subject:     form.Title,
			Description: form.Description,
			Status:      *project.DefaultIssueStatus,
			Priority:    project.DefaultPriority,
			Type:        project.DefaultIssueType,
			Severity:    project.DefaultSeverity,
			Tags:        tags,
		})
	}
	if err != nil {
		return 0, apperrors.NewIntegrationError(err, "Error creating Taiga %s: %s", c.kind.noun(), err)
	}
	if item == nil {
		return 0, apperrors.NewIntegrationError(nil, "Error creating Taiga %s: empty response", c.kind.noun())
	}

	return ItemRef(item.Ref), nil
}

// FormatItemLabel renders "TG-<ref>".
func (c *Connector) FormatItemLabel(ref ItemRef) string {
	return FormatItemLabel(ref)
}

// BuildItemURL links to the item in Taiga's web UI.
func (c *Connector) BuildItemURL(cfg ConnectorConfig, ref ItemRef) string {
	return BuildItemURL(cfg, c.kind, ref)
}
