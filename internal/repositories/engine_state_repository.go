package repositories

import (
	"database/sql"
	"time"
)

const narrativeDismissedKey = "narrative_dismissed_at"

type EngineStateRepository struct {
	db *sql.DB
}

func NewEngineStateRepository(db *sql.DB) *EngineStateRepository {
	return &EngineStateRepository{db: db}
}

// GetNarrativeDismissedAt returns when the briefing was last dismissed, or nil
func (r *EngineStateRepository) GetNarrativeDismissedAt() (*time.Time, error) {
	value, err := r.get(narrativeDismissedKey)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	dismissedAt, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &dismissedAt, nil
}

// SetNarrativeDismissedAt durably records a briefing dismissal
func (r *EngineStateRepository) SetNarrativeDismissedAt(dismissedAt time.Time) error {
	return r.set(narrativeDismissedKey, dismissedAt.Format(time.RFC3339))
}

func (r *EngineStateRepository) get(key string) (string, error) {
	query := `SELECT value FROM engine_state WHERE key = ?`

	var value string
	err := r.db.QueryRow(query, key).Scan(&value)
	return value, err
}

func (r *EngineStateRepository) set(key, value string) error {
	query := `
		INSERT INTO engine_state (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`

	_, err := r.db.Exec(query, key, value, time.Now())
	return err
}
