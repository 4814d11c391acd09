package options

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each plugin/project option set in one hash at
// "<prefix>:<plugin>:<project>".
type RedisStore struct {
	client redis.Cmdable
	prefix string
}

func NewRedisStore(client redis.Cmdable, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "plugin_options"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(pluginKey, projectID string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, pluginKey, projectID)
}

func (s *RedisStore) Options(ctx context.Context, pluginKey, projectID string) (map[string]string, error) {
	values, err := s.client.HGetAll(ctx, s.key(pluginKey, projectID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall failed: %w", err)
	}
	if values == nil {
		values = map[string]string{}
	}
	return values, nil
}

// SaveOptions merges values into the hash. An empty value deletes the field.
func (s *RedisStore) SaveOptions(ctx context.Context, pluginKey, projectID string, values map[string]string) error {
	key := s.key(pluginKey, projectID)

	set := map[string]interface{}{}
	var del []string
	for k, v := range values {
		if v == "" {
			del = append(del, k)
			continue
		}
		set[k] = v
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(set) > 0 {
			pipe.HSet(ctx, key, set)
		}
		if len(del) > 0 {
			pipe.HDel(ctx, key, del...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save options failed: %w", err)
	}
	return nil
}
