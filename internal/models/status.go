package models

import "time"

// ApplicationStatus answers a status check.
type ApplicationStatus struct {
	Type                    string    `json:"type"`
	ID                      string    `json:"id"`
	Status                  string    `json:"status"`
	ApplyDate               time.Time `json:"apply_date"`
	EstimatedProcessingTime string    `json:"estimated_processing_time"`
	LicenseNumber           string    `json:"license_number,omitempty"`
}

// Dashboard summarises a user's records on the home page.
type Dashboard struct {
	User             UserInfo          `json:"user"`
	LearningLicenses []LearningLicense `json:"learning_licenses"`
	DrivingLicenses  []DrivingLicense  `json:"driving_licenses"`
	Renewals         []LicenseRenewal  `json:"renewals"`
	Counts           DashboardCounts   `json:"counts"`
}

// DashboardCounts are the tallies shown alongside the lists.
type DashboardCounts struct {
	Learning int `json:"learning"`
	Driving  int `json:"driving"`
	Renewals int `json:"renewals"`
}

// DocumentLink is a short-lived URL for an uploaded document.
type DocumentLink struct {
	ApplicationID string    `json:"application_id"`
	URL           string    `json:"url"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// SystemMetrics is a point-in-time summary exposed on the readiness probe.
type SystemMetrics struct {
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	StagedLookups            uint64    `json:"staged_lookups"`
	StagedMisses             uint64    `json:"staged_misses"`
	PaymentsTotal            uint64    `json:"payments_total"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
