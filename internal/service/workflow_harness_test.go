package service

import (
	"context"
	"testing"

	"github.com/noah-isme/dlservice-api/internal/dto"
	"github.com/noah-isme/dlservice-api/internal/models"
	"github.com/noah-isme/dlservice-api/internal/validation"
)

type portalHarness struct {
	pending  *memoryPendingStore
	learning *memoryLearningStore
	driving  *memoryDrivingStore
	payments *memoryPaymentStore
	audit    *auditRecorder
	events   *eventRecorder
	ids      *sequenceIDs

	staging  *StagingService
	learnSvc *LearningService
	driveSvc *DrivingService
	renewSvc *RenewalService
	paySvc   *PaymentService
	status   *StatusService
	changes  *ChangeDetailsService
}

func newPortalHarness(t *testing.T) *portalHarness {
	t.Helper()
	h := &portalHarness{
		pending:  newMemoryPendingStore(),
		learning: newMemoryLearningStore(),
		driving:  newMemoryDrivingStore(),
		payments: newMemoryPaymentStore(),
		audit:    &auditRecorder{},
		events:   &eventRecorder{},
		ids: &sequenceIDs{
			apps:     []string{"APP202610160930AAAA", "APP202610160930BBBB", "APP202610160930CCCC"},
			licenses: []string{"DL20261016ABC123", "DL20261016DEF456"},
		},
	}
	validate := validation.New(fixedClock)
	h.staging = NewStagingService(h.pending, nil, 0, nil, fixedClock)
	h.learnSvc = NewLearningService(h.staging, nil, validate, nil, 16<<20)
	h.driveSvc = NewDrivingService(h.learning, h.staging, validate, nil, fixedClock)
	h.renewSvc = NewRenewalService(h.driving, h.staging, validate, nil)
	h.paySvc = NewPaymentService(PaymentDeps{
		Staging:   h.staging,
		Learning:  h.learning,
		Driving:   h.driving,
		Payments:  h.payments,
		IDs:       h.ids,
		Audit:     h.audit,
		Events:    h.events,
		Validator: validate,
		Now:       fixedClock,
	})
	h.status = NewStatusService(h.learning, h.driving, nil)
	h.changes = NewChangeDetailsService(h.driving, h.driving, h.audit, h.events, validate, nil, fixedClock)
	return h
}

func learningRequest(dob string) dto.LearningLicenseRequest {
	return dto.LearningLicenseRequest{
		Name:         "Asha Rao",
		DOB:          dob,
		Gender:       "female",
		PlaceOfBirth: "Pune",
		Phone:        "9876543210",
		Email:        "e1@x.com",
		Address:      "12 MG Road",
		City:         "Pune",
		State:        "MH",
		ZipCode:      "411001",
		BloodGroup:   "O+",
		RhFactor:     "positive",
		Citizenship:  "Indian",
		DocumentType: "passport",
	}
}

func validCard() dto.PaymentRequest {
	return dto.PaymentRequest{
		CardNumber: "4111111111111111",
		CardHolder: "Asha Rao",
		ExpiryDate: "12/29",
		CVV:        "123",
	}
}

func seedLearning(t *testing.T, h *portalHarness, userID, applicationID string) *models.LearningLicense {
	t.Helper()
	ll := &models.LearningLicense{
		ApplicationID:    applicationID,
		UserID:           userID,
		ApplicantDetails: sampleApplicant(),
		LicenseType:      models.LicenseTypeLearning,
		DocumentType:     "passport",
		Status:           models.LearningStatusProcessing,
		ApplyDate:        fixedNow.AddDate(0, -1, 0),
	}
	if err := h.learning.Create(context.Background(), ll); err != nil {
		t.Fatalf("seed learning license: %v", err)
	}
	return ll
}

func seedDriving(t *testing.T, h *portalHarness, userID, licenseNumber string) *models.DrivingLicense {
	t.Helper()
	ll := seedLearning(t, h, userID, "APP-SEED-"+licenseNumber)
	dl := models.SnapshotFromLearning(ll, "APP-DL-"+licenseNumber, licenseNumber, fixedNow.AddDate(0, 0, 10), "10:00", fixedNow.AddDate(-9, 0, 0))
	if err := h.driving.Create(context.Background(), dl); err != nil {
		t.Fatalf("seed driving license: %v", err)
	}
	return dl
}
