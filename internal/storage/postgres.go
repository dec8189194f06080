package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS presets (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		config_json JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_presets_user_id ON presets(user_id);

	CREATE TABLE IF NOT EXISTS preferences (
		user_id TEXT PRIMARY KEY,
		last_config_json JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);
`

type PostgresRepository struct {
	*sqlRepository
}

func NewPostgresRepository(connStr string) (*PostgresRepository, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	repo, err := newSQLRepository(db, dialect{name: "postgres", schema: postgresSchema, numbered: true})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &PostgresRepository{repo}, nil
}
