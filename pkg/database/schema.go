package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            VARCHAR(36) PRIMARY KEY,
		username      VARCHAR(64) NOT NULL UNIQUE,
		email         VARCHAR(120) NOT NULL UNIQUE,
		password_hash VARCHAR(256) NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
		id          VARCHAR(36) PRIMARY KEY,
		user_id     VARCHAR(36) REFERENCES users(id),
		action      VARCHAR(64) NOT NULL,
		resource    VARCHAR(64) NOT NULL,
		resource_id VARCHAR(64),
		old_values  JSONB,
		new_values  JSONB,
		ip_address  VARCHAR(64) NOT NULL DEFAULT '',
		user_agent  TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS learning_licenses (
		id             VARCHAR(36) PRIMARY KEY,
		application_id VARCHAR(20) NOT NULL UNIQUE,
		user_id        VARCHAR(36) NOT NULL REFERENCES users(id),
		name           VARCHAR(100) NOT NULL,
		dob            DATE NOT NULL,
		gender         VARCHAR(10) NOT NULL,
		place_of_birth VARCHAR(100) NOT NULL,
		phone          VARCHAR(15) NOT NULL,
		email          VARCHAR(120) NOT NULL,
		address        VARCHAR(200) NOT NULL,
		city           VARCHAR(50) NOT NULL,
		state          VARCHAR(50) NOT NULL,
		zip_code       VARCHAR(10) NOT NULL,
		license_type   VARCHAR(50) NOT NULL DEFAULT 'Learning License',
		blood_group    VARCHAR(5) NOT NULL,
		rh_factor      VARCHAR(10) NOT NULL,
		citizenship    VARCHAR(50) NOT NULL,
		document_type  VARCHAR(50) NOT NULL,
		document_path  VARCHAR(255) NOT NULL DEFAULT '',
		status         VARCHAR(20) NOT NULL DEFAULT 'Processing',
		apply_date     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS driving_licenses (
		id                  VARCHAR(36) PRIMARY KEY,
		application_id      VARCHAR(20) NOT NULL UNIQUE,
		license_number      VARCHAR(20) NOT NULL UNIQUE,
		user_id             VARCHAR(36) NOT NULL REFERENCES users(id),
		learning_license_id VARCHAR(20) NOT NULL REFERENCES learning_licenses(application_id),
		name                VARCHAR(100) NOT NULL,
		dob                 DATE NOT NULL,
		gender              VARCHAR(10) NOT NULL,
		place_of_birth      VARCHAR(100) NOT NULL,
		phone               VARCHAR(15) NOT NULL,
		email               VARCHAR(120) NOT NULL,
		address             VARCHAR(200) NOT NULL,
		city                VARCHAR(50) NOT NULL,
		state               VARCHAR(50) NOT NULL,
		zip_code            VARCHAR(10) NOT NULL,
		license_type        VARCHAR(50) NOT NULL DEFAULT 'Driving License',
		blood_group         VARCHAR(5) NOT NULL,
		rh_factor           VARCHAR(10) NOT NULL,
		citizenship         VARCHAR(50) NOT NULL,
		test_date           DATE NOT NULL,
		test_time           VARCHAR(10) NOT NULL,
		status              VARCHAR(20) NOT NULL DEFAULT 'Scheduled',
		apply_date          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		issue_date          TIMESTAMPTZ,
		expiry_date         TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS license_renewals (
		id              VARCHAR(36) PRIMARY KEY,
		user_id         VARCHAR(36) NOT NULL REFERENCES users(id),
		license_number  VARCHAR(20) NOT NULL REFERENCES driving_licenses(license_number),
		renewal_date    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		renewal_reason  VARCHAR(200) NOT NULL,
		old_expiry_date TIMESTAMPTZ NOT NULL,
		new_expiry_date TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS license_change_requests (
		id             VARCHAR(36) PRIMARY KEY,
		user_id        VARCHAR(36) NOT NULL REFERENCES users(id),
		license_number VARCHAR(20) NOT NULL REFERENCES driving_licenses(license_number),
		request_date   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		old_address    VARCHAR(200) NOT NULL,
		old_city       VARCHAR(50) NOT NULL,
		old_state      VARCHAR(50) NOT NULL,
		old_zip        VARCHAR(10) NOT NULL,
		old_phone      VARCHAR(15) NOT NULL,
		new_address    VARCHAR(200) NOT NULL,
		new_city       VARCHAR(50) NOT NULL,
		new_state      VARCHAR(50) NOT NULL,
		new_zip        VARCHAR(10) NOT NULL,
		new_phone      VARCHAR(15) NOT NULL,
		status         VARCHAR(20) NOT NULL DEFAULT 'Pending'
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id           VARCHAR(36) PRIMARY KEY,
		user_id      VARCHAR(36) NOT NULL REFERENCES users(id),
		license_type VARCHAR(20) NOT NULL,
		amount       INTEGER NOT NULL,
		card_last4   VARCHAR(4) NOT NULL,
		card_holder  VARCHAR(100) NOT NULL,
		reference    VARCHAR(20) NOT NULL,
		status       VARCHAR(20) NOT NULL,
		paid_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_learning_licenses_user ON learning_licenses(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_driving_licenses_user ON driving_licenses(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_license_renewals_license ON license_renewals(license_number)`,
	`CREATE INDEX IF NOT EXISTS idx_change_requests_license ON license_change_requests(license_number)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_user ON payments(user_id)`,
}

// EnsureSchema creates the portal tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for i, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
