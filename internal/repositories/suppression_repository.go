package repositories

import (
	"database/sql"
	"time"

	"github.com/alimgiray/daybrief/internal/models"
)

type SuppressionRepository struct {
	db *sql.DB
}

func NewSuppressionRepository(db *sql.DB) *SuppressionRepository {
	return &SuppressionRepository{db: db}
}

// Upsert creates or refreshes the suppression entry for a kind+key pair
func (r *SuppressionRepository) Upsert(suppression *models.Suppression) error {
	query := `
		INSERT INTO suppressions (id, kind, key, dismissed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (kind, key) DO UPDATE SET
			dismissed_at = excluded.dismissed_at,
			updated_at = excluded.updated_at
	`

	_, err := r.db.Exec(query,
		suppression.ID, string(suppression.Kind), suppression.Key,
		suppression.DismissedAt, suppression.CreatedAt, suppression.UpdatedAt,
	)

	return err
}

// GetByKindKey retrieves a suppression by its kind+key pair
func (r *SuppressionRepository) GetByKindKey(kind models.InsightKind, key string) (*models.Suppression, error) {
	query := `
		SELECT id, kind, key, dismissed_at, created_at, updated_at
		FROM suppressions WHERE kind = ? AND key = ?
	`

	suppression := &models.Suppression{}
	var kindStr string
	err := r.db.QueryRow(query, string(kind), key).Scan(
		&suppression.ID, &kindStr, &suppression.Key,
		&suppression.DismissedAt, &suppression.CreatedAt, &suppression.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}
	suppression.Kind = models.InsightKind(kindStr)

	return suppression, nil
}

// IsSuppressed checks whether a kind+key pair was dismissed within the cooldown window
func (r *SuppressionRepository) IsSuppressed(kind models.InsightKind, key string, now time.Time) (bool, error) {
	suppression, err := r.GetByKindKey(kind, key)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return suppression.Active(now), nil
}

// Suppress records a dismissal for a kind+key pair
func (r *SuppressionRepository) Suppress(kind models.InsightKind, key string, now time.Time) error {
	return r.Upsert(models.NewSuppression(kind, key, now))
}

// DeleteExpired removes suppressions whose cooldown has long passed
func (r *SuppressionRepository) DeleteExpired(now time.Time) error {
	query := `DELETE FROM suppressions WHERE dismissed_at < ?`
	_, err := r.db.Exec(query, now.Add(-2*models.SuppressionCooldown))
	return err
}
