package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hperssn/intervals/internal/domain"
)

// dialect carries what differs between the SQL backends.
type dialect struct {
	name     string
	schema   string
	numbered bool
}

// sqlRepository implements Repository over database/sql. Statements are
// written with ? placeholders and rebound for dialects that number them.
type sqlRepository struct {
	db *sql.DB
	d  dialect
}

func newSQLRepository(db *sql.DB, d dialect) (*sqlRepository, error) {
	repo := &sqlRepository{db: db, d: d}
	if err := repo.createTables(); err != nil {
		return nil, fmt.Errorf("%s: create tables: %w", d.name, err)
	}
	return repo, nil
}

func (r *sqlRepository) createTables() error {
	_, err := r.db.Exec(r.d.schema)
	return err
}

func (r *sqlRepository) rebind(query string) string {
	if !r.d.numbered {
		return query
	}

	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

func (r *sqlRepository) SavePreset(record *PresetRecord) error {
	configJSON, err := json.Marshal(record.Config)
	if err != nil {
		return err
	}

	query := r.rebind(`
		INSERT INTO presets (id, user_id, name, config_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			config_json = excluded.config_json,
			updated_at = excluded.updated_at
		WHERE presets.user_id = excluded.user_id
	`)

	_, err = r.db.Exec(
		query,
		record.ID,
		record.UserID,
		record.Name,
		string(configJSON),
		record.CreatedAt,
		record.UpdatedAt,
	)
	return err
}

func (r *sqlRepository) GetPreset(userID, id string) (*PresetRecord, error) {
	query := r.rebind(`
		SELECT id, user_id, name, config_json, created_at, updated_at
		FROM presets
		WHERE user_id = ? AND id = ?
	`)

	rows, err := r.db.Query(query, userID, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records, err := r.scanPresets(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrPresetNotFound
	}
	return &records[0], nil
}

func (r *sqlRepository) ListPresets(userID string) ([]PresetRecord, error) {
	query := r.rebind(`
		SELECT id, user_id, name, config_json, created_at, updated_at
		FROM presets
		WHERE user_id = ?
		ORDER BY name ASC, created_at ASC
	`)

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanPresets(rows)
}

func (r *sqlRepository) DeletePreset(userID, id string) error {
	res, err := r.db.Exec(r.rebind(`DELETE FROM presets WHERE user_id = ? AND id = ?`), userID, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPresetNotFound
	}
	return nil
}

func (r *sqlRepository) SaveLastConfig(userID string, c domain.WorkoutConfig) error {
	configJSON, err := json.Marshal(c)
	if err != nil {
		return err
	}

	query := r.rebind(`
		INSERT INTO preferences (user_id, last_config_json, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			last_config_json = excluded.last_config_json,
			updated_at = excluded.updated_at
	`)

	_, err = r.db.Exec(query, userID, string(configJSON), time.Now().UTC())
	return err
}

func (r *sqlRepository) GetLastConfig(userID string) (domain.WorkoutConfig, bool, error) {
	var c domain.WorkoutConfig
	var configJSON []byte

	err := r.db.QueryRow(
		r.rebind(`SELECT last_config_json FROM preferences WHERE user_id = ?`),
		userID,
	).Scan(&configJSON)

	if errors.Is(err, sql.ErrNoRows) {
		return c, false, nil
	}
	if err != nil {
		return c, false, err
	}
	if err := json.Unmarshal(configJSON, &c); err != nil {
		return c, false, err
	}
	return c, true, nil
}

func (r *sqlRepository) scanPresets(rows *sql.Rows) ([]PresetRecord, error) {
	var records []PresetRecord

	for rows.Next() {
		var record PresetRecord
		var configJSON []byte

		err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.Name,
			&configJSON,
			&record.CreatedAt,
			&record.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal(configJSON, &record.Config); err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	return records, rows.Err()
}

func (r *sqlRepository) Ping() error {
	return r.db.Ping()
}

func (r *sqlRepository) Close() error {
	return r.db.Close()
}
