package options

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore keeps options as one row per key.
type PostgresStore struct {
	db    *sql.DB
	table string
}

// NewPostgresStore validates table as a plain SQL identifier; it is
// interpolated into queries.
func NewPostgresStore(db *sql.DB, table string) (*PostgresStore, error) {
	if table == "" {
		table = "plugin_options"
	}
	if !identifierPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid options table name %q", table)
	}
	return &PostgresStore{db: db, table: table}, nil
}

// EnsureSchema creates the options table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		plugin     TEXT NOT NULL,
		project_id TEXT NOT NULL,
		key        TEXT NOT NULL,
		value      TEXT NOT NULL,
		PRIMARY KEY (plugin, project_id, key)
	)`, s.table)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create %s: %w", s.table, err)
	}
	return nil
}

func (s *PostgresStore) Options(ctx context.Context, pluginKey, projectID string) (map[string]string, error) {
	query := fmt.Sprintf(`SELECT key, value FROM %s WHERE plugin = $1 AND project_id = $2`, s.table)

	rows, err := s.db.QueryContext(ctx, query, pluginKey, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query options: %w", err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		out[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read options: %w", err)
	}
	return out, nil
}

// SaveOptions upserts values in one transaction. An empty value deletes the key.
func (s *PostgresStore) SaveOptions(ctx context.Context, pluginKey, projectID string, values map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	upsert := fmt.Sprintf(`INSERT INTO %s (plugin, project_id, key, value) VALUES ($1, $2, $3, $4)
		ON CONFLICT (plugin, project_id, key) DO UPDATE SET value = EXCLUDED.value`, s.table)
	remove := fmt.Sprintf(`DELETE FROM %s WHERE plugin = $1 AND project_id = $2 AND key = $3`, s.table)

	for _, k := range sortedKeys(values) {
		v := values[k]
		if v == "" {
			if _, err := tx.ExecContext(ctx, remove, pluginKey, projectID, k); err != nil {
				return fmt.Errorf("failed to delete option %s: %w", k, err)
			}
			continue
		}
		if _, err := tx.ExecContext(ctx, upsert, pluginKey, projectID, k, v); err != nil {
			return fmt.Errorf("failed to save option %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit options: %w", err)
	}
	return nil
}
