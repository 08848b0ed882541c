package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// LicenseIDRepository answers whether a generated identifier is already taken.
type LicenseIDRepository struct {
	db *sqlx.DB
}

// NewLicenseIDRepository constructs the repository.
func NewLicenseIDRepository(db *sqlx.DB) *LicenseIDRepository {
	return &LicenseIDRepository{db: db}
}

// ApplicationIDExists checks both learning and driving applications.
func (r *LicenseIDRepository) ApplicationIDExists(ctx context.Context, id string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM learning_licenses WHERE application_id = $1) OR EXISTS (SELECT 1 FROM driving_licenses WHERE application_id = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, fmt.Errorf("check application id: %w", err)
	}
	return exists, nil
}

// LicenseNumberExists checks issued driving license numbers.
func (r *LicenseIDRepository) LicenseNumberExists(ctx context.Context, number string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM driving_licenses WHERE license_number = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, number); err != nil {
		return false, fmt.Errorf("check license number: %w", err)
	}
	return exists, nil
}
