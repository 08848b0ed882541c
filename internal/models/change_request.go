package models

import "time"

// ChangeRequestStatusPending is the only state a change request takes.
const ChangeRequestStatusPending = "Pending"

// LicenseChangeRequest records one contact/address change with before and after values.
type LicenseChangeRequest struct {
	ID            string    `db:"id" json:"id"`
	UserID        string    `db:"user_id" json:"user_id"`
	LicenseNumber string    `db:"license_number" json:"license_number"`
	RequestDate   time.Time `db:"request_date" json:"request_date"`
	OldAddress    string    `db:"old_address" json:"old_address"`
	OldCity       string    `db:"old_city" json:"old_city"`
	OldState      string    `db:"old_state" json:"old_state"`
	OldZip        string    `db:"old_zip" json:"old_zip"`
	OldPhone      string    `db:"old_phone" json:"old_phone"`
	NewAddress    string    `db:"new_address" json:"new_address"`
	NewCity       string    `db:"new_city" json:"new_city"`
	NewState      string    `db:"new_state" json:"new_state"`
	NewZip        string    `db:"new_zip" json:"new_zip"`
	NewPhone      string    `db:"new_phone" json:"new_phone"`
	Status        string    `db:"status" json:"status"`
}

// NewChangeRequest pairs the current and requested contact details.
func NewChangeRequest(userID, licenseNumber string, old, updated ContactDetails, now time.Time) *LicenseChangeRequest {
	return &LicenseChangeRequest{
		UserID:        userID,
		LicenseNumber: licenseNumber,
		RequestDate:   now,
		OldAddress:    old.Address,
		OldCity:       old.City,
		OldState:      old.State,
		OldZip:        old.ZipCode,
		OldPhone:      old.Phone,
		NewAddress:    updated.Address,
		NewCity:       updated.City,
		NewState:      updated.State,
		NewZip:        updated.ZipCode,
		NewPhone:      updated.Phone,
		Status:        ChangeRequestStatusPending,
	}
}
