package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/dlservice-api/internal/models"
)

// RenewalRepository reads the append-only renewal history.
type RenewalRepository struct {
	db *sqlx.DB
}

// NewRenewalRepository constructs the repository.
func NewRenewalRepository(db *sqlx.DB) *RenewalRepository {
	return &RenewalRepository{db: db}
}

// ListByUser returns every renewal the user made, newest first.
func (r *RenewalRepository) ListByUser(ctx context.Context, userID string) ([]models.LicenseRenewal, error) {
	const query = `SELECT id, user_id, license_number, renewal_date, renewal_reason, old_expiry_date, new_expiry_date FROM license_renewals WHERE user_id = $1 ORDER BY renewal_date DESC`
	var items []models.LicenseRenewal
	if err := r.db.SelectContext(ctx, &items, query, userID); err != nil {
		return nil, fmt.Errorf("list renewals: %w", err)
	}
	return items, nil
}
