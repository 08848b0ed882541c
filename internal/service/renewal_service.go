package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/dlservice-api/internal/dto"
	"github.com/noah-isme/dlservice-api/internal/models"
	"github.com/noah-isme/dlservice-api/internal/validation"
	appErrors "github.com/noah-isme/dlservice-api/pkg/errors"
)

// RenewalService stages renewals of owned driving licenses.
type RenewalService struct {
	licenses  drivingLicenseStore
	staging   *StagingService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRenewalService constructs the service.
func NewRenewalService(licenses drivingLicenseStore, staging *StagingService, validate *validator.Validate, logger *zap.Logger) *RenewalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New(nil)
	}
	return &RenewalService{licenses: licenses, staging: staging, validator: validate, logger: logger}
}

// Form lists the accepted renewal reasons.
func (s *RenewalService) Form() dto.RenewalForm {
	return dto.RenewalForm{
		Reasons: []dto.Choice{
			{Value: models.RenewalReasonExpiring, Label: "License expiring soon"},
			{Value: models.RenewalReasonExpired, Label: "License expired"},
			{Value: models.RenewalReasonDamaged, Label: "License damaged"},
		},
		Fee: models.WorkflowRenewal.Fee(),
	}
}

// Submit checks ownership of the license and stages the renewal until payment.
func (s *RenewalService) Submit(ctx context.Context, actor models.Actor, req dto.RenewalRequest) (*models.PendingTransaction, error) {
	req.LicenseNumber = strings.TrimSpace(req.LicenseNumber)
	if err := s.validator.Struct(req); err != nil {
		return nil, validation.Translate(err)
	}
	if _, err := s.licenses.FindByLicenseNumberForUser(ctx, req.LicenseNumber, actor.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrUnknownLicense
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load driving license")
	}
	return s.staging.Stage(ctx, models.WorkflowRenewal, actor.UserID, models.RenewalStage{
		LicenseNumber: req.LicenseNumber,
		Reason:        req.RenewalReason,
	})
}
