package models

import "time"

// License lifecycle event types.
const (
	EventLearningApplied  = "license.learning.applied"
	EventDrivingScheduled = "license.driving.scheduled"
	EventLicenseRenewed   = "license.renewed"
	EventDetailsChanged   = "license.details.changed"
)

// LicenseEvent is published after a license record changes.
type LicenseEvent struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	UserID     string                 `json:"user_id"`
	Reference  string                 `json:"reference"`
	OccurredAt time.Time              `json:"occurred_at"`
	Data       map[string]interface{} `json:"data,omitempty"`
}
