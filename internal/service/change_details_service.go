package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/dlservice-api/internal/dto"
	"github.com/noah-isme/dlservice-api/internal/models"
	"github.com/noah-isme/dlservice-api/internal/validation"
	appErrors "github.com/noah-isme/dlservice-api/pkg/errors"
)

type changeHistoryStore interface {
	ListByLicense(ctx context.Context, userID, licenseNumber string) ([]models.LicenseChangeRequest, error)
}

// ChangeDetailsService updates contact details on an issued license and keeps the history.
type ChangeDetailsService struct {
	licenses  drivingLicenseStore
	history   changeHistoryStore
	audit     auditWriter
	events    licenseEventPublisher
	validator *validator.Validate
	logger    *zap.Logger
	now       Clock
}

// NewChangeDetailsService constructs the service.
func NewChangeDetailsService(licenses drivingLicenseStore, history changeHistoryStore, audit auditWriter, events licenseEventPublisher, validate *validator.Validate, logger *zap.Logger, now Clock) *ChangeDetailsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = systemClock
	}
	if validate == nil {
		validate = validation.New(now)
	}
	return &ChangeDetailsService{licenses: licenses, history: history, audit: audit, events: events, validator: validate, logger: logger, now: now}
}

// Verify returns the current contact details of an owned license.
func (s *ChangeDetailsService) Verify(ctx context.Context, actor models.Actor, req dto.VerifyLicenseRequest) (*models.ContactDetails, error) {
	req.LicenseNumber = strings.TrimSpace(req.LicenseNumber)
	if err := s.validator.Struct(req); err != nil {
		return nil, validation.Translate(err)
	}
	dl, err := s.owned(ctx, actor, req.LicenseNumber)
	if err != nil {
		return nil, err
	}
	current := dl.ContactDetails
	return &current, nil
}

// Apply records a change request and rewrites the license contact fields in one transaction.
func (s *ChangeDetailsService) Apply(ctx context.Context, actor models.Actor, req dto.ChangeDetailsRequest) (*models.LicenseChangeRequest, error) {
	req.LicenseNumber = strings.TrimSpace(req.LicenseNumber)
	if err := s.validator.Struct(req); err != nil {
		return nil, validation.Translate(err)
	}
	dl, err := s.owned(ctx, actor, req.LicenseNumber)
	if err != nil {
		return nil, err
	}

	updated := models.ContactDetails{
		Phone:   strings.TrimSpace(req.Phone),
		Address: strings.TrimSpace(req.Address),
		City:    strings.TrimSpace(req.City),
		State:   strings.TrimSpace(req.State),
		ZipCode: strings.TrimSpace(req.ZipCode),
	}
	change := models.NewChangeRequest(actor.UserID, dl.LicenseNumber, dl.ContactDetails, updated, s.now())
	if err := s.licenses.ApplyContactChange(ctx, dl.ID, change); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update license details")
	}

	recordAudit(ctx, s.audit, s.logger, actor, models.AuditActionDetailsChange, models.AuditResourceDrivingLicense, dl.LicenseNumber, dl.ContactDetails, updated)
	if s.events != nil {
		s.events.Publish(ctx, models.LicenseEvent{
			ID:         uuid.NewString(),
			Type:       models.EventDetailsChanged,
			UserID:     actor.UserID,
			Reference:  dl.LicenseNumber,
			OccurredAt: change.RequestDate,
			Data:       map[string]interface{}{"change_request_id": change.ID},
		})
	}
	return change, nil
}

// History lists the change requests of an owned license, newest first.
func (s *ChangeDetailsService) History(ctx context.Context, actor models.Actor, licenseNumber string) ([]models.LicenseChangeRequest, error) {
	licenseNumber = strings.TrimSpace(licenseNumber)
	if licenseNumber == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "license_number is required")
	}
	if _, err := s.owned(ctx, actor, licenseNumber); err != nil {
		return nil, err
	}
	items, err := s.history.ListByLicense(ctx, actor.UserID, licenseNumber)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load change history")
	}
	if items == nil {
		items = []models.LicenseChangeRequest{}
	}
	return items, nil
}

func (s *ChangeDetailsService) owned(ctx context.Context, actor models.Actor, licenseNumber string) (*models.DrivingLicense, error) {
	dl, err := s.licenses.FindByLicenseNumberForUser(ctx, licenseNumber, actor.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrUnknownLicense
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load driving license")
	}
	return dl, nil
}
