package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/dlservice-api/internal/models"
)

const learningColumns = `id, application_id, user_id, name, dob, gender, place_of_birth, phone, email, address, city, state, zip_code, license_type, blood_group, rh_factor, citizenship, document_type, document_path, status, apply_date`

// LearningLicenseRepository persists learning license applications.
type LearningLicenseRepository struct {
	db *sqlx.DB
}

// NewLearningLicenseRepository constructs the repository.
func NewLearningLicenseRepository(db *sqlx.DB) *LearningLicenseRepository {
	return &LearningLicenseRepository{db: db}
}

// Create inserts a learning license application.
func (r *LearningLicenseRepository) Create(ctx context.Context, ll *models.LearningLicense) error {
	if ll.ID == "" {
		ll.ID = uuid.NewString()
	}
	const query = `INSERT INTO learning_licenses (` + learningColumns + `) VALUES (:id, :application_id, :user_id, :name, :dob, :gender, :place_of_birth, :phone, :email, :address, :city, :state, :zip_code, :license_type, :blood_group, :rh_factor, :citizenship, :document_type, :document_path, :status, :apply_date)`
	if _, err := r.db.NamedExecContext(ctx, query, ll); err != nil {
		return fmt.Errorf("create learning license: %w", err)
	}
	return nil
}

// FindByApplicationIDForUser returns the application only when it belongs to userID.
func (r *LearningLicenseRepository) FindByApplicationIDForUser(ctx context.Context, applicationID, userID string) (*models.LearningLicense, error) {
	const query = `SELECT ` + learningColumns + ` FROM learning_licenses WHERE application_id = $1 AND user_id = $2 LIMIT 1`
	var ll models.LearningLicense
	if err := r.db.GetContext(ctx, &ll, query, applicationID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find learning license: %w", err)
	}
	return &ll, nil
}

// ListByUser returns the user's learning applications, newest first.
func (r *LearningLicenseRepository) ListByUser(ctx context.Context, userID string) ([]models.LearningLicense, error) {
	const query = `SELECT ` + learningColumns + ` FROM learning_licenses WHERE user_id = $1 ORDER BY apply_date DESC`
	var items []models.LearningLicense
	if err := r.db.SelectContext(ctx, &items, query, userID); err != nil {
		return nil, fmt.Errorf("list learning licenses: %w", err)
	}
	return items, nil
}
