package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dlservice-api/internal/models"
)

var learningRowColumns = []string{"id", "application_id", "user_id", "name", "dob", "gender", "place_of_birth", "phone", "email", "address", "city", "state", "zip_code", "license_type", "blood_group", "rh_factor", "citizenship", "document_type", "document_path", "status", "apply_date"}

func TestLearningLicenseFindScopedToUser(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLearningLicenseRepository(db)

	dob := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now()
	rows := sqlmock.NewRows(learningRowColumns).
		AddRow("ll-1", "APP202610161200AB12", "u1", "Jane Doe", dob, "female", "Pune", "9876543210", "jane@x.com", "1 Main St", "Pune", "MH", "411001", models.LicenseTypeLearning, "O+", "positive", "Indian", "passport", "", "Processing", now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM learning_licenses WHERE application_id = $1 AND user_id = $2 LIMIT 1")).
		WithArgs("APP202610161200AB12", "u1").
		WillReturnRows(rows)

	ll, err := repo.FindByApplicationIDForUser(context.Background(), "APP202610161200AB12", "u1")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", ll.Name)
	assert.Equal(t, "411001", ll.ZipCode)
	assert.Equal(t, models.LearningStatusProcessing, ll.Status)

	mock.ExpectQuery(regexp.QuoteMeta("FROM learning_licenses WHERE application_id = $1 AND user_id = $2 LIMIT 1")).
		WithArgs("APP202610161200AB12", "u2").
		WillReturnError(sql.ErrNoRows)
	_, err = repo.FindByApplicationIDForUser(context.Background(), "APP202610161200AB12", "u2")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLearningLicenseCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLearningLicenseRepository(db)

	mock.ExpectExec("INSERT INTO learning_licenses").WillReturnResult(sqlmock.NewResult(1, 1))

	ll := &models.LearningLicense{ApplicationID: "APP202610161200AB12", UserID: "u1", Status: models.LearningStatusProcessing}
	require.NoError(t, repo.Create(context.Background(), ll))
	assert.NotEmpty(t, ll.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDrivingLicenseRenewCommitsBothWrites(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDrivingLicenseRepository(db)

	newExpiry := time.Date(2046, 10, 16, 0, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE driving_licenses SET expiry_date = $2, status = $3 WHERE id = $1")).
		WithArgs("dl-1", newExpiry, models.DrivingStatusRenewed).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO license_renewals").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	dl := &models.DrivingLicense{ID: "dl-1", ExpiryDate: newExpiry, Status: models.DrivingStatusRenewed}
	renewal := &models.LicenseRenewal{UserID: "u1", LicenseNumber: "DL20261016ABC123", RenewalReason: "expiring"}
	require.NoError(t, repo.Renew(context.Background(), dl, renewal))
	assert.NotEmpty(t, renewal.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDrivingLicenseApplyContactChangeRollsBack(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDrivingLicenseRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO license_change_requests").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE driving_licenses SET address").WillReturnError(errors.New("db down"))
	mock.ExpectRollback()

	change := models.NewChangeRequest("u1", "DL20261016ABC123",
		models.ContactDetails{Address: "old", City: "c", State: "s", ZipCode: "1", Phone: "1111111111"},
		models.ContactDetails{Address: "new", City: "c2", State: "s2", ZipCode: "2", Phone: "2222222222"},
		time.Now())
	err := repo.ApplyContactChange(context.Background(), "dl-1", change)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "update license contact details")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDrivingLicenseApplyContactChange(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDrivingLicenseRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO license_change_requests").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE driving_licenses SET address = $2, city = $3, state = $4, zip_code = $5, phone = $6 WHERE id = $1")).
		WithArgs("dl-1", "new", "c2", "s2", "2", "2222222222").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	change := models.NewChangeRequest("u1", "DL20261016ABC123",
		models.ContactDetails{Address: "old", City: "c", State: "s", ZipCode: "1", Phone: "1111111111"},
		models.ContactDetails{Address: "new", City: "c2", State: "s2", ZipCode: "2", Phone: "2222222222"},
		time.Now())
	require.NoError(t, repo.ApplyContactChange(context.Background(), "dl-1", change))
	assert.Equal(t, models.ChangeRequestStatusPending, change.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLicenseIDRepositoryExists(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLicenseIDRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM learning_licenses WHERE application_id = $1)")).
		WithArgs("APP202610161200AB12").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM driving_licenses WHERE license_number = $1)")).
		WithArgs("DL20261016ABC123").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := repo.ApplicationIDExists(context.Background(), "APP202610161200AB12")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.LicenseNumberExists(context.Background(), "DL20261016ABC123")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChangeRequestListByLicense(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewChangeRequestRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "license_number", "request_date", "old_address", "old_city", "old_state", "old_zip", "old_phone", "new_address", "new_city", "new_state", "new_zip", "new_phone", "status"}).
		AddRow("c1", "u1", "DL20261016ABC123", now, "old", "c", "s", "1", "1111111111", "new", "c2", "s2", "2", "2222222222", "Pending")
	mock.ExpectQuery(regexp.QuoteMeta("FROM license_change_requests WHERE user_id = $1 AND license_number = $2 ORDER BY request_date DESC")).
		WithArgs("u1", "DL20261016ABC123").
		WillReturnRows(rows)

	items, err := repo.ListByLicense(context.Background(), "u1", "DL20261016ABC123")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "new", items[0].NewAddress)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	mock.ExpectExec("INSERT INTO payments").
		WithArgs(sqlmock.AnyArg(), "u1", models.WorkflowLearning, 500, "4242", "Jane Doe", "APP202610161200AB12", models.PaymentStatusSucceeded, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	p := &models.Payment{UserID: "u1", LicenseType: models.WorkflowLearning, Amount: 500, CardLast4: "4242", CardHolder: "Jane Doe", Reference: "APP202610161200AB12", Status: models.PaymentStatusSucceeded, PaidAt: time.Now()}
	require.NoError(t, repo.Create(context.Background(), p))
	assert.NotEmpty(t, p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
