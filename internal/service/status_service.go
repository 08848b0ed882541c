package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/dlservice-api/internal/models"
	appErrors "github.com/noah-isme/dlservice-api/pkg/errors"
)

const (
	learningProcessingTime = "7-10 business days"
	drivingProcessingTime  = "14-21 business days"
)

// StatusService answers application status checks scoped to the caller.
type StatusService struct {
	learning learningLicenseStore
	driving  drivingLicenseStore
	logger   *zap.Logger
}

// NewStatusService constructs the service.
func NewStatusService(learning learningLicenseStore, driving drivingLicenseStore, logger *zap.Logger) *StatusService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatusService{learning: learning, driving: driving, logger: logger}
}

// Check looks the application ID up among learning applications first, then driving.
func (s *StatusService) Check(ctx context.Context, actor models.Actor, applicationID string) (*models.ApplicationStatus, error) {
	applicationID = strings.TrimSpace(applicationID)
	if applicationID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "application_id is required")
	}

	ll, err := s.learning.FindByApplicationIDForUser(ctx, applicationID, actor.UserID)
	switch {
	case err == nil:
		return &models.ApplicationStatus{
			Type:                    models.LicenseTypeLearning,
			ID:                      ll.ApplicationID,
			Status:                  string(ll.Status),
			ApplyDate:               ll.ApplyDate,
			EstimatedProcessingTime: learningProcessingTime,
		}, nil
	case !errors.Is(err, sql.ErrNoRows):
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application")
	}

	dl, err := s.driving.FindByApplicationIDForUser(ctx, applicationID, actor.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrApplicationNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application")
	}
	return &models.ApplicationStatus{
		Type:                    models.LicenseTypeDriving,
		ID:                      dl.ApplicationID,
		Status:                  string(dl.Status),
		ApplyDate:               dl.ApplyDate,
		EstimatedProcessingTime: drivingProcessingTime,
		LicenseNumber:           dl.LicenseNumber,
	}, nil
}
