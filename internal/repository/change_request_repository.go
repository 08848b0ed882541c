package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/dlservice-api/internal/models"
)

// ChangeRequestRepository reads contact change history.
type ChangeRequestRepository struct {
	db *sqlx.DB
}

// NewChangeRequestRepository constructs the repository.
func NewChangeRequestRepository(db *sqlx.DB) *ChangeRequestRepository {
	return &ChangeRequestRepository{db: db}
}

// ListByLicense returns the changes the user made to one license, newest first.
func (r *ChangeRequestRepository) ListByLicense(ctx context.Context, userID, licenseNumber string) ([]models.LicenseChangeRequest, error) {
	const query = `SELECT id, user_id, license_number, request_date, old_address, old_city, old_state, old_zip, old_phone, new_address, new_city, new_state, new_zip, new_phone, status FROM license_change_requests WHERE user_id = $1 AND license_number = $2 ORDER BY request_date DESC`
	var items []models.LicenseChangeRequest
	if err := r.db.SelectContext(ctx, &items, query, userID, licenseNumber); err != nil {
		return nil, fmt.Errorf("list change requests: %w", err)
	}
	return items, nil
}
