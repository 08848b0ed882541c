package dto

import "time"

// Choice is one option of a select field.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// LearningLicenseForm lists the choices of the learning license form.
type LearningLicenseForm struct {
	Genders       []Choice `json:"genders"`
	BloodGroups   []Choice `json:"blood_groups"`
	RhFactors     []Choice `json:"rh_factors"`
	DocumentTypes []Choice `json:"document_types"`
	MaxUploadSize int64    `json:"max_upload_size"`
	Fee           int      `json:"fee"`
}

// DrivingLicenseForm lists the booking window and time slots.
type DrivingLicenseForm struct {
	EarliestTestDate time.Time `json:"earliest_test_date"`
	LatestTestDate   time.Time `json:"latest_test_date"`
	TimeSlots        []Choice  `json:"time_slots"`
	Fee              int       `json:"fee"`
}

// RenewalForm lists the renewal reasons.
type RenewalForm struct {
	Reasons []Choice `json:"reasons"`
	Fee     int      `json:"fee"`
}
