package models

import (
	"encoding/json"
	"time"
)

// License type labels shown to applicants.
const (
	LicenseTypeLearning = "Learning License"
	LicenseTypeDriving  = "Driving License"
)

// LearningLicenseStatus enumerates learning application states.
type LearningLicenseStatus string

const (
	LearningStatusProcessing LearningLicenseStatus = "Processing"
	LearningStatusApproved   LearningLicenseStatus = "Approved"
	LearningStatusRejected   LearningLicenseStatus = "Rejected"
)

// DrivingLicenseStatus enumerates driving license states.
type DrivingLicenseStatus string

const (
	DrivingStatusScheduled DrivingLicenseStatus = "Scheduled"
	DrivingStatusIssued    DrivingLicenseStatus = "Issued"
	DrivingStatusRenewed   DrivingLicenseStatus = "Renewed"
)

// LicenseValidityYears is how long a driving license stays valid after issue or renewal.
const LicenseValidityYears = 10

// ContactDetails are the applicant fields that can change after issue.
type ContactDetails struct {
	Phone   string `db:"phone" json:"phone"`
	Address string `db:"address" json:"address"`
	City    string `db:"city" json:"city"`
	State   string `db:"state" json:"state"`
	ZipCode string `db:"zip_code" json:"zip_code"`
}

// ApplicantDetails holds everything an applicant declares about themselves.
type ApplicantDetails struct {
	Name         string    `db:"name" json:"name"`
	DOB          time.Time `db:"dob" json:"dob"`
	Gender       string    `db:"gender" json:"gender"`
	PlaceOfBirth string    `db:"place_of_birth" json:"place_of_birth"`
	Email        string    `db:"email" json:"email"`
	ContactDetails
	BloodGroup  string `db:"blood_group" json:"blood_group"`
	RhFactor    string `db:"rh_factor" json:"rh_factor"`
	Citizenship string `db:"citizenship" json:"citizenship"`
}

// LearningLicense is a learning license application.
type LearningLicense struct {
	ID            string `db:"id" json:"id"`
	ApplicationID string `db:"application_id" json:"application_id"`
	UserID        string `db:"user_id" json:"user_id"`
	ApplicantDetails
	LicenseType  string                `db:"license_type" json:"license_type"`
	DocumentType string                `db:"document_type" json:"document_type"`
	DocumentPath string                `db:"document_path" json:"-"`
	Status       LearningLicenseStatus `db:"status" json:"status"`
	ApplyDate    time.Time             `db:"apply_date" json:"apply_date"`
}

// MarshalJSON reports whether a document was uploaded without exposing where it
// is stored. Documents are fetched through signed links.
func (l LearningLicense) MarshalJSON() ([]byte, error) {
	type learningLicense LearningLicense
	return json.Marshal(struct {
		learningLicense
		HasDocument bool `json:"has_document"`
	}{learningLicense(l), l.DocumentPath != ""})
}

// DrivingLicense is an issued or scheduled driving license.
type DrivingLicense struct {
	ID                string `db:"id" json:"id"`
	ApplicationID     string `db:"application_id" json:"application_id"`
	LicenseNumber     string `db:"license_number" json:"license_number"`
	UserID            string `db:"user_id" json:"user_id"`
	LearningLicenseID string `db:"learning_license_id" json:"learning_license_id"`
	ApplicantDetails
	LicenseType string               `db:"license_type" json:"license_type"`
	TestDate    time.Time            `db:"test_date" json:"test_date"`
	TestTime    string               `db:"test_time" json:"test_time"`
	Status      DrivingLicenseStatus `db:"status" json:"status"`
	ApplyDate   time.Time            `db:"apply_date" json:"apply_date"`
	IssueDate   *time.Time           `db:"issue_date" json:"issue_date,omitempty"`
	ExpiryDate  time.Time            `db:"expiry_date" json:"expiry_date"`
}

// SnapshotFromLearning builds a driving license that copies the applicant details of
// the learning license once. Later edits to either record never propagate.
func SnapshotFromLearning(ll *LearningLicense, applicationID, licenseNumber string, testDate time.Time, testTime string, now time.Time) *DrivingLicense {
	return &DrivingLicense{
		ApplicationID:     applicationID,
		LicenseNumber:     licenseNumber,
		UserID:            ll.UserID,
		LearningLicenseID: ll.ApplicationID,
		ApplicantDetails:  ll.ApplicantDetails,
		LicenseType:       LicenseTypeDriving,
		TestDate:          testDate,
		TestTime:          testTime,
		Status:            DrivingStatusScheduled,
		ApplyDate:         now,
		ExpiryDate:        now.AddDate(LicenseValidityYears, 0, 0),
	}
}
