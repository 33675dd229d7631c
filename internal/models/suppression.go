package models

import (
	"time"

	"github.com/google/uuid"
)

// SuppressionCooldown is how long a dismissed insight stays hidden
const SuppressionCooldown = 7 * 24 * time.Hour

// Suppression is a durable record of a dismissed insight
type Suppression struct {
	ID          string      `json:"id"`
	Kind        InsightKind `json:"kind"`
	Key         string      `json:"key"`
	DismissedAt time.Time   `json:"dismissed_at"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NewSuppression creates a new Suppression with a generated UUID
func NewSuppression(kind InsightKind, key string, dismissedAt time.Time) *Suppression {
	now := time.Now()
	return &Suppression{
		ID:          uuid.New().String(),
		Kind:        kind,
		Key:         key,
		DismissedAt: dismissedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Active reports whether the suppression still hides its insight at the given time
func (s *Suppression) Active(now time.Time) bool {
	return now.Sub(s.DismissedAt) < SuppressionCooldown
}
