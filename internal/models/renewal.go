package models

import "time"

// Renewal reasons accepted by the renewal form.
const (
	RenewalReasonExpiring = "expiring"
	RenewalReasonExpired  = "expired"
	RenewalReasonDamaged  = "damaged"
)

// LicenseRenewal is an append-only record of one renewal.
type LicenseRenewal struct {
	ID            string    `db:"id" json:"id"`
	UserID        string    `db:"user_id" json:"user_id"`
	LicenseNumber string    `db:"license_number" json:"license_number"`
	RenewalDate   time.Time `db:"renewal_date" json:"renewal_date"`
	RenewalReason string    `db:"renewal_reason" json:"renewal_reason"`
	OldExpiryDate time.Time `db:"old_expiry_date" json:"old_expiry_date"`
	NewExpiryDate time.Time `db:"new_expiry_date" json:"new_expiry_date"`
}
