// Package options reads and writes the per-project plugin settings the host
// keeps for each connector.
package options

import (
	"context"
	"fmt"
	"regexp"
	"sort"

	"sentry-taiga/internal/common/config"
	"sentry-taiga/internal/common/database"
	"sentry-taiga/internal/connector"
)

// Store is the host's key/value option storage, partitioned by plugin slug
// and project id. A project with nothing stored yields an empty map.
type Store interface {
	Options(ctx context.Context, pluginKey, projectID string) (map[string]string, error)
	SaveOptions(ctx context.Context, pluginKey, projectID string, values map[string]string) error
}

// LoadConfig reads the options for one plugin/project pair into a typed config.
func LoadConfig(ctx context.Context, store Store, pluginKey, projectID string) (connector.ConnectorConfig, error) {
	opts, err := store.Options(ctx, pluginKey, projectID)
	if err != nil {
		return connector.ConnectorConfig{}, fmt.Errorf("failed to load options for %s/%s: %w", pluginKey, projectID, err)
	}
	return connector.ConfigFromOptions(opts), nil
}

// ToOptions is the inverse of connector.ConfigFromOptions. Empty fields are
// left out.
func ToOptions(cfg connector.ConnectorConfig) map[string]string {
	out := map[string]string{}
	set := func(k, v string) {
		if v != "" {
			out[k] = v
		}
	}
	set(connector.OptionServiceURL, cfg.ServiceURL)
	set(connector.OptionAPIURL, cfg.APIURL)
	set(connector.OptionUsername, cfg.Username)
	set(connector.OptionPassword, cfg.Password)
	set(connector.OptionProjectSlug, cfg.ProjectSlug)
	set(connector.OptionLabels, cfg.Labels)
	return out
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// NewFromConfig builds the store selected by cfg.Backend. The redis and
// postgres clients are only required for their respective backends.
func NewFromConfig(cfg config.OptionsConfig, rdb *database.RedisClient, pg *database.PostgresClient) (Store, error) {
	switch cfg.Backend {
	case config.OptionsBackendMemory, "":
		return NewMemoryStore(), nil
	case config.OptionsBackendRedis:
		if rdb == nil {
			return nil, fmt.Errorf("redis option store requires a redis client")
		}
		return NewRedisStore(rdb.Client, cfg.KeyPrefix), nil
	case config.OptionsBackendPostgres:
		if pg == nil {
			return nil, fmt.Errorf("postgres option store requires a postgres client")
		}
		return NewPostgresStore(pg.DB, cfg.Table)
	default:
		return nil, fmt.Errorf("unsupported options backend %q", cfg.Backend)
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
