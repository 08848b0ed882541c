package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/dlservice-api/internal/dto"
	"github.com/noah-isme/dlservice-api/internal/models"
	"github.com/noah-isme/dlservice-api/internal/validation"
	appErrors "github.com/noah-isme/dlservice-api/pkg/errors"
	"github.com/noah-isme/dlservice-api/pkg/export"
)

type paymentStore interface {
	Create(ctx context.Context, p *models.Payment) error
	FindByIDForUser(ctx context.Context, id, userID string) (*models.Payment, error)
}

type idAllocator interface {
	ApplicationID(ctx context.Context) (string, error)
	LicenseNumber(ctx context.Context) (string, error)
}

// PaymentDeps groups the collaborators of PaymentService.
type PaymentDeps struct {
	Staging   *StagingService
	Learning  learningLicenseStore
	Driving   drivingLicenseStore
	Payments  paymentStore
	IDs       idAllocator
	Audit     auditWriter
	Events    licenseEventPublisher
	Metrics   *MetricsService
	Validator *validator.Validate
	Logger    *zap.Logger
	Now       Clock
}

// PaymentService simulates fee payment and fulfils the staged workflow step.
type PaymentService struct {
	staging   *StagingService
	learning  learningLicenseStore
	driving   drivingLicenseStore
	payments  paymentStore
	ids       idAllocator
	audit     auditWriter
	events    licenseEventPublisher
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       Clock
}

// NewPaymentService constructs the service.
func NewPaymentService(deps PaymentDeps) *PaymentService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = systemClock
	}
	if deps.Validator == nil {
		deps.Validator = validation.New(deps.Now)
	}
	return &PaymentService{
		staging:   deps.Staging,
		learning:  deps.Learning,
		driving:   deps.Driving,
		payments:  deps.Payments,
		ids:       deps.IDs,
		audit:     deps.Audit,
		events:    deps.Events,
		metrics:   deps.Metrics,
		validator: deps.Validator,
		logger:    deps.Logger,
		now:       deps.Now,
	}
}

// Quote returns the fee for licenseType and whether a staged step is waiting for it.
func (s *PaymentService) Quote(ctx context.Context, actor models.Actor, licenseType string) (*models.PaymentQuote, error) {
	workflow, ok := models.ParseWorkflow(licenseType)
	if !ok {
		return nil, appErrors.ErrUnknownLicenseType
	}
	quote := &models.PaymentQuote{LicenseType: workflow, Amount: workflow.Fee()}
	pending, err := s.staging.Peek(ctx, workflow, actor.UserID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		expires := pending.ExpiresAt
		quote.Staged = true
		quote.ExpiresAt = &expires
	}
	return quote, nil
}

// Process charges the card and turns the staged step into permanent records.
func (s *PaymentService) Process(ctx context.Context, actor models.Actor, licenseType string, req dto.PaymentRequest) (*models.PaymentResult, error) {
	workflow, ok := models.ParseWorkflow(licenseType)
	if !ok {
		return nil, appErrors.ErrUnknownLicenseType
	}
	req.CardNumber = strings.ReplaceAll(strings.TrimSpace(req.CardNumber), " ", "")
	req.CardHolder = strings.TrimSpace(req.CardHolder)
	if err := s.validator.Struct(req); err != nil {
		return nil, validation.Translate(err)
	}

	result := &models.PaymentResult{
		LicenseType: workflow,
		Amount:      workflow.Fee(),
		Status:      models.PaymentStatusSucceeded,
	}

	var (
		reference string
		err       error
	)
	switch workflow {
	case models.WorkflowLearning:
		reference, err = s.fulfilLearning(ctx, actor, result)
	case models.WorkflowDriving:
		reference, err = s.fulfilDriving(ctx, actor, result)
	case models.WorkflowRenewal:
		reference, err = s.fulfilRenewal(ctx, actor, result)
	}
	if err != nil {
		return nil, err
	}
	s.staging.Clear(ctx, workflow, actor.UserID)

	payment := &models.Payment{
		UserID:      actor.UserID,
		LicenseType: workflow,
		Amount:      result.Amount,
		CardLast4:   req.CardNumber[len(req.CardNumber)-4:],
		CardHolder:  req.CardHolder,
		Reference:   reference,
		Status:      models.PaymentStatusSucceeded,
		PaidAt:      s.now(),
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		// The license is already written, so the charge still counts as fulfilled.
		s.logger.Error("failed to record payment", zap.String("user_id", actor.UserID), zap.String("reference", reference), zap.Error(err))
	} else {
		result.PaymentID = payment.ID
	}
	s.metrics.RecordPayment(workflow)
	recordAudit(ctx, s.audit, s.logger, actor, models.AuditActionPaymentCapture, models.AuditResourcePayment, result.PaymentID, nil, map[string]interface{}{
		"license_type": workflow,
		"amount":       result.Amount,
		"reference":    reference,
	})
	return result, nil
}

// Receipt renders the PDF receipt of an owned payment.
func (s *PaymentService) Receipt(ctx context.Context, actor models.Actor, paymentID string) ([]byte, string, error) {
	payment, err := s.payments.FindByIDForUser(ctx, strings.TrimSpace(paymentID), actor.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", appErrors.Clone(appErrors.ErrNotFound, "payment not found")
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment")
	}
	payload, err := export.RenderReceipt(export.Receipt{
		PaymentID:   payment.ID,
		Reference:   payment.Reference,
		LicenseType: workflowLabel(payment.LicenseType),
		Amount:      payment.Amount,
		CardHolder:  payment.CardHolder,
		CardLast4:   payment.CardLast4,
		PaidAt:      payment.PaidAt,
	})
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render receipt")
	}
	return payload, fmt.Sprintf("receipt-%s.pdf", payment.ID), nil
}

func (s *PaymentService) fulfilLearning(ctx context.Context, actor models.Actor, result *models.PaymentResult) (string, error) {
	var stage models.LearningStage
	if err := s.staging.Load(ctx, models.WorkflowLearning, actor.UserID, &stage); err != nil {
		return "", err
	}
	applicationID, err := s.ids.ApplicationID(ctx)
	if err != nil {
		return "", err
	}
	ll := &models.LearningLicense{
		ApplicationID:    applicationID,
		UserID:           actor.UserID,
		ApplicantDetails: stage.Applicant,
		LicenseType:      models.LicenseTypeLearning,
		DocumentType:     stage.DocumentType,
		DocumentPath:     stage.DocumentPath,
		Status:           models.LearningStatusProcessing,
		ApplyDate:        s.now(),
	}
	if err := s.learning.Create(ctx, ll); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create learning license")
	}

	result.ApplicationID = ll.ApplicationID
	recordAudit(ctx, s.audit, s.logger, actor, models.AuditActionLearningIssue, models.AuditResourceLearningLicense, ll.ApplicationID, nil, map[string]interface{}{
		"status":        ll.Status,
		"document_type": ll.DocumentType,
	})
	s.publish(ctx, models.EventLearningApplied, actor, ll.ApplicationID, map[string]interface{}{"status": ll.Status})
	return ll.ApplicationID, nil
}

func (s *PaymentService) fulfilDriving(ctx context.Context, actor models.Actor, result *models.PaymentResult) (string, error) {
	var stage models.DrivingStage
	if err := s.staging.Load(ctx, models.WorkflowDriving, actor.UserID, &stage); err != nil {
		return "", err
	}
	ll, err := s.learning.FindByApplicationIDForUser(ctx, stage.LearningLicenseID, actor.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.ErrUnknownLearningLicense
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load learning license")
	}
	applicationID, err := s.ids.ApplicationID(ctx)
	if err != nil {
		return "", err
	}
	licenseNumber, err := s.ids.LicenseNumber(ctx)
	if err != nil {
		return "", err
	}

	dl := models.SnapshotFromLearning(ll, applicationID, licenseNumber, stage.TestDate, stage.TestTime, s.now())
	if err := s.driving.Create(ctx, dl); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create driving license")
	}

	expiry := dl.ExpiryDate
	result.ApplicationID = dl.ApplicationID
	result.LicenseNumber = dl.LicenseNumber
	result.ExpiryDate = &expiry
	recordAudit(ctx, s.audit, s.logger, actor, models.AuditActionDrivingIssue, models.AuditResourceDrivingLicense, dl.LicenseNumber, nil, map[string]interface{}{
		"application_id":      dl.ApplicationID,
		"learning_license_id": dl.LearningLicenseID,
		"test_date":           validation.DateOnly(dl.TestDate).Format("2006-01-02"),
		"test_time":           dl.TestTime,
	})
	s.publish(ctx, models.EventDrivingScheduled, actor, dl.LicenseNumber, map[string]interface{}{
		"application_id": dl.ApplicationID,
		"expiry_date":    dl.ExpiryDate,
	})
	return dl.ApplicationID, nil
}

func (s *PaymentService) fulfilRenewal(ctx context.Context, actor models.Actor, result *models.PaymentResult) (string, error) {
	var stage models.RenewalStage
	if err := s.staging.Load(ctx, models.WorkflowRenewal, actor.UserID, &stage); err != nil {
		return "", err
	}
	dl, err := s.driving.FindByLicenseNumberForUser(ctx, stage.LicenseNumber, actor.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.ErrUnknownLicense
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load driving license")
	}

	oldExpiry := dl.ExpiryDate
	previousStatus := dl.Status
	dl.ExpiryDate = oldExpiry.AddDate(models.LicenseValidityYears, 0, 0)
	dl.Status = models.DrivingStatusRenewed
	renewal := &models.LicenseRenewal{
		UserID:        actor.UserID,
		LicenseNumber: dl.LicenseNumber,
		RenewalDate:   s.now(),
		RenewalReason: stage.Reason,
		OldExpiryDate: oldExpiry,
		NewExpiryDate: dl.ExpiryDate,
	}
	if err := s.driving.Renew(ctx, dl, renewal); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to renew driving license")
	}

	expiry := dl.ExpiryDate
	result.LicenseNumber = dl.LicenseNumber
	result.ExpiryDate = &expiry
	recordAudit(ctx, s.audit, s.logger, actor, models.AuditActionLicenseRenew, models.AuditResourceDrivingLicense, dl.LicenseNumber,
		map[string]interface{}{"expiry_date": oldExpiry, "status": previousStatus},
		map[string]interface{}{"expiry_date": dl.ExpiryDate, "status": dl.Status, "reason": stage.Reason},
	)
	s.publish(ctx, models.EventLicenseRenewed, actor, dl.LicenseNumber, map[string]interface{}{
		"renewal_id":  renewal.ID,
		"expiry_date": dl.ExpiryDate,
	})
	return dl.LicenseNumber, nil
}

func (s *PaymentService) publish(ctx context.Context, eventType string, actor models.Actor, reference string, data map[string]interface{}) {
	if s.events == nil {
		return
	}
	s.events.Publish(ctx, models.LicenseEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		UserID:     actor.UserID,
		Reference:  reference,
		OccurredAt: s.now(),
		Data:       data,
	})
}

func workflowLabel(w models.Workflow) string {
	switch w {
	case models.WorkflowLearning:
		return "Learning License Fee"
	case models.WorkflowDriving:
		return "Driving License Fee"
	case models.WorkflowRenewal:
		return "License Renewal Fee"
	default:
		return string(w)
	}
}
