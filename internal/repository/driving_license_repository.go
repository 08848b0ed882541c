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

const drivingColumns = `id, application_id, license_number, user_id, learning_license_id, name, dob, gender, place_of_birth, phone, email, address, city, state, zip_code, license_type, blood_group, rh_factor, citizenship, test_date, test_time, status, apply_date, issue_date, expiry_date`

// DrivingLicenseRepository persists driving licenses and the writes that mutate them.
type DrivingLicenseRepository struct {
	db *sqlx.DB
}

// NewDrivingLicenseRepository constructs the repository.
func NewDrivingLicenseRepository(db *sqlx.DB) *DrivingLicenseRepository {
	return &DrivingLicenseRepository{db: db}
}

// Create inserts a driving license.
func (r *DrivingLicenseRepository) Create(ctx context.Context, dl *models.DrivingLicense) error {
	if dl.ID == "" {
		dl.ID = uuid.NewString()
	}
	const query = `INSERT INTO driving_licenses (` + drivingColumns + `) VALUES (:id, :application_id, :license_number, :user_id, :learning_license_id, :name, :dob, :gender, :place_of_birth, :phone, :email, :address, :city, :state, :zip_code, :license_type, :blood_group, :rh_factor, :citizenship, :test_date, :test_time, :status, :apply_date, :issue_date, :expiry_date)`
	if _, err := r.db.NamedExecContext(ctx, query, dl); err != nil {
		return fmt.Errorf("create driving license: %w", err)
	}
	return nil
}

// FindByLicenseNumberForUser returns the license only when it belongs to userID.
func (r *DrivingLicenseRepository) FindByLicenseNumberForUser(ctx context.Context, licenseNumber, userID string) (*models.DrivingLicense, error) {
	const query = `SELECT ` + drivingColumns + ` FROM driving_licenses WHERE license_number = $1 AND user_id = $2 LIMIT 1`
	return r.get(ctx, query, "find driving license by number", licenseNumber, userID)
}

// FindByApplicationIDForUser looks a driving application up by its application ID.
func (r *DrivingLicenseRepository) FindByApplicationIDForUser(ctx context.Context, applicationID, userID string) (*models.DrivingLicense, error) {
	const query = `SELECT ` + drivingColumns + ` FROM driving_licenses WHERE application_id = $1 AND user_id = $2 LIMIT 1`
	return r.get(ctx, query, "find driving license by application", applicationID, userID)
}

// ListByUser returns the user's driving licenses, newest first.
func (r *DrivingLicenseRepository) ListByUser(ctx context.Context, userID string) ([]models.DrivingLicense, error) {
	const query = `SELECT ` + drivingColumns + ` FROM driving_licenses WHERE user_id = $1 ORDER BY apply_date DESC`
	var items []models.DrivingLicense
	if err := r.db.SelectContext(ctx, &items, query, userID); err != nil {
		return nil, fmt.Errorf("list driving licenses: %w", err)
	}
	return items, nil
}

// Renew moves the license to its new expiry and appends the renewal row in one transaction.
func (r *DrivingLicenseRepository) Renew(ctx context.Context, dl *models.DrivingLicense, renewal *models.LicenseRenewal) error {
	if renewal.ID == "" {
		renewal.ID = uuid.NewString()
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin renewal tx: %w", err)
	}

	const update = `UPDATE driving_licenses SET expiry_date = $2, status = $3 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, update, dl.ID, dl.ExpiryDate, dl.Status); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("update license expiry: %w", err)
	}

	const insert = `INSERT INTO license_renewals (id, user_id, license_number, renewal_date, renewal_reason, old_expiry_date, new_expiry_date) VALUES (:id, :user_id, :license_number, :renewal_date, :renewal_reason, :old_expiry_date, :new_expiry_date)`
	if _, err := tx.NamedExecContext(ctx, insert, renewal); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("insert license renewal: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit renewal tx: %w", err)
	}
	return nil
}

// ApplyContactChange records the change request and rewrites the license contact
// fields in one transaction.
func (r *DrivingLicenseRepository) ApplyContactChange(ctx context.Context, licenseID string, change *models.LicenseChangeRequest) error {
	if change.ID == "" {
		change.ID = uuid.NewString()
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin change details tx: %w", err)
	}

	const insert = `INSERT INTO license_change_requests (id, user_id, license_number, request_date, old_address, old_city, old_state, old_zip, old_phone, new_address, new_city, new_state, new_zip, new_phone, status) VALUES (:id, :user_id, :license_number, :request_date, :old_address, :old_city, :old_state, :old_zip, :old_phone, :new_address, :new_city, :new_state, :new_zip, :new_phone, :status)`
	if _, err := tx.NamedExecContext(ctx, insert, change); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("insert change request: %w", err)
	}

	const update = `UPDATE driving_licenses SET address = $2, city = $3, state = $4, zip_code = $5, phone = $6 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, update, licenseID, change.NewAddress, change.NewCity, change.NewState, change.NewZip, change.NewPhone); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("update license contact details: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit change details tx: %w", err)
	}
	return nil
}

func (r *DrivingLicenseRepository) get(ctx context.Context, query, op string, args ...interface{}) (*models.DrivingLicense, error) {
	var dl models.DrivingLicense
	if err := r.db.GetContext(ctx, &dl, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &dl, nil
}
