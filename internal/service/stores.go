package service

import (
	"context"

	"github.com/noah-isme/dlservice-api/internal/models"
)

type learningLicenseStore interface {
	Create(ctx context.Context, ll *models.LearningLicense) error
	FindByApplicationIDForUser(ctx context.Context, applicationID, userID string) (*models.LearningLicense, error)
	ListByUser(ctx context.Context, userID string) ([]models.LearningLicense, error)
}

type drivingLicenseStore interface {
	Create(ctx context.Context, dl *models.DrivingLicense) error
	FindByLicenseNumberForUser(ctx context.Context, licenseNumber, userID string) (*models.DrivingLicense, error)
	FindByApplicationIDForUser(ctx context.Context, applicationID, userID string) (*models.DrivingLicense, error)
	ListByUser(ctx context.Context, userID string) ([]models.DrivingLicense, error)
	Renew(ctx context.Context, dl *models.DrivingLicense, renewal *models.LicenseRenewal) error
	ApplyContactChange(ctx context.Context, licenseID string, change *models.LicenseChangeRequest) error
}

type licenseEventPublisher interface {
	Publish(ctx context.Context, event models.LicenseEvent)
}
