package taigaitemcreate

import (
	"time"

	"sentry-taiga/internal/common/logger"
	"sentry-taiga/internal/items"
)

type Input struct {
	PluginSlug  string `json:"pluginSlug"`
	ProjectID   string `json:"projectId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type Output struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Kind      string    `json:"kind,omitempty"`
	Ref       int64     `json:"ref,omitempty"`
	Label     string    `json:"label,omitempty"`
	URL       string    `json:"url,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

type ServiceDependencies struct {
	Logger logger.Logger
	Items  *items.Service
}
