package models

import (
	"encoding/json"
	"time"
)

// Workflow identifies a paid application flow.
type Workflow string

const (
	WorkflowLearning Workflow = "learning"
	WorkflowDriving  Workflow = "driving"
	WorkflowRenewal  Workflow = "renewal"
)

// PaymentStatusSucceeded marks a simulated charge that went through.
const PaymentStatusSucceeded = "SUCCEEDED"

var workflowFees = map[Workflow]int{
	WorkflowLearning: 500,
	WorkflowDriving:  1000,
	WorkflowRenewal:  750,
}

// ParseWorkflow maps a path segment to a workflow.
func ParseWorkflow(raw string) (Workflow, bool) {
	w := Workflow(raw)
	_, ok := workflowFees[w]
	return w, ok
}

// Fee returns the charge for the workflow.
func (w Workflow) Fee() int {
	return workflowFees[w]
}

// Payment is the persisted record of a fulfilled charge.
type Payment struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	LicenseType Workflow  `db:"license_type" json:"license_type"`
	Amount      int       `db:"amount" json:"amount"`
	CardLast4   string    `db:"card_last4" json:"card_last4"`
	CardHolder  string    `db:"card_holder" json:"card_holder"`
	Reference   string    `db:"reference" json:"reference"`
	Status      string    `db:"status" json:"status"`
	PaidAt      time.Time `db:"paid_at" json:"paid_at"`
}

// PaymentQuote is shown before the card form is submitted.
type PaymentQuote struct {
	LicenseType Workflow   `json:"license_type"`
	Amount      int        `json:"amount"`
	Staged      bool       `json:"staged"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// PaymentResult reports the identifiers produced by a fulfilled payment.
type PaymentResult struct {
	PaymentID     string     `json:"payment_id"`
	LicenseType   Workflow   `json:"license_type"`
	Amount        int        `json:"amount"`
	ApplicationID string     `json:"application_id,omitempty"`
	LicenseNumber string     `json:"license_number,omitempty"`
	ExpiryDate    *time.Time `json:"expiry_date,omitempty"`
	Status        string     `json:"status"`
}

// PendingTransaction is a validated workflow step waiting for payment.
type PendingTransaction struct {
	Workflow  Workflow        `json:"workflow"`
	UserID    string          `json:"user_id"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// LearningStage is the staged learning application.
type LearningStage struct {
	Applicant    ApplicantDetails `json:"applicant"`
	DocumentType string           `json:"document_type"`
	DocumentPath string           `json:"document_path,omitempty"`
}

// DrivingStage is the staged driving test booking.
type DrivingStage struct {
	LearningLicenseID string    `json:"learning_license_id"`
	TestDate          time.Time `json:"test_date"`
	TestTime          string    `json:"test_time"`
}

// RenewalStage is the staged renewal request.
type RenewalStage struct {
	LicenseNumber string `json:"license_number"`
	Reason        string `json:"reason"`
}
