package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/dlservice-api/internal/dto"
	"github.com/noah-isme/dlservice-api/internal/models"
	"github.com/noah-isme/dlservice-api/internal/validation"
	appErrors "github.com/noah-isme/dlservice-api/pkg/errors"
)

// DrivingService books driving tests against an owned learning license.
type DrivingService struct {
	learning  learningLicenseStore
	staging   *StagingService
	validator *validator.Validate
	logger    *zap.Logger
	now       Clock
}

// NewDrivingService constructs the service. validate must share now for the test window rule.
func NewDrivingService(learning learningLicenseStore, staging *StagingService, validate *validator.Validate, logger *zap.Logger, now Clock) *DrivingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = systemClock
	}
	if validate == nil {
		validate = validation.New(now)
	}
	return &DrivingService{learning: learning, staging: staging, validator: validate, logger: logger, now: now}
}

// Form describes the bookable window and time slots as of today.
func (s *DrivingService) Form() dto.DrivingLicenseForm {
	earliest, latest := validation.TestWindow(s.now())
	return dto.DrivingLicenseForm{
		EarliestTestDate: earliest,
		LatestTestDate:   latest,
		TimeSlots:        timeSlotChoices(),
		Fee:              models.WorkflowDriving.Fee(),
	}
}

// Submit validates the booking and stages it until the driving fee is paid.
func (s *DrivingService) Submit(ctx context.Context, actor models.Actor, req dto.DrivingLicenseRequest) (*models.PendingTransaction, error) {
	req.LearningLicenseID = strings.TrimSpace(req.LearningLicenseID)
	if err := s.validator.Struct(req); err != nil {
		return nil, validation.Translate(err)
	}
	testDate, err := validation.ParseDate(req.TestDate)
	if err != nil {
		return nil, validation.Translate(err)
	}

	if _, err := s.learning.FindByApplicationIDForUser(ctx, req.LearningLicenseID, actor.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrUnknownLearningLicense
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load learning license")
	}

	return s.staging.Stage(ctx, models.WorkflowDriving, actor.UserID, models.DrivingStage{
		LearningLicenseID: req.LearningLicenseID,
		TestDate:          testDate,
		TestTime:          req.TestTime,
	})
}

func timeSlotChoices() []dto.Choice {
	out := make([]dto.Choice, 0, len(validation.TimeSlots))
	for _, slot := range validation.TimeSlots {
		label := slot
		if t, err := time.Parse("15:04", slot); err == nil {
			label = t.Format("03:04 PM")
		}
		out = append(out, dto.Choice{Value: slot, Label: label})
	}
	return out
}
