package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/dlservice-api/internal/models"
	appErrors "github.com/noah-isme/dlservice-api/pkg/errors"
	"github.com/noah-isme/dlservice-api/pkg/export"
)

type userLookup interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type renewalStore interface {
	ListByUser(ctx context.Context, userID string) ([]models.LicenseRenewal, error)
}

var historyHeaders = []string{"Type", "Application ID", "License Number", "Status", "Apply Date", "Expiry Date"}

// HomeService builds the dashboard and the downloadable application history.
type HomeService struct {
	users     userLookup
	learning  learningLicenseStore
	driving   drivingLicenseStore
	renewals  renewalStore
	exporters map[string]export.Exporter
	logger    *zap.Logger
	now       Clock
}

// NewHomeService constructs the service with csv and pdf exporters.
func NewHomeService(users userLookup, learning learningLicenseStore, driving drivingLicenseStore, renewals renewalStore, logger *zap.Logger, now Clock) *HomeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = systemClock
	}
	return &HomeService{
		users:    users,
		learning: learning,
		driving:  driving,
		renewals: renewals,
		exporters: map[string]export.Exporter{
			"csv": export.NewCSVExporter(),
			"pdf": export.NewPDFExporter(),
		},
		logger: logger,
		now:    now,
	}
}

// Dashboard returns the caller's licenses and renewals with their counts.
func (s *HomeService) Dashboard(ctx context.Context, actor models.Actor) (*models.Dashboard, error) {
	user, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrUnauthorized
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	learning, driving, err := s.licenses(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	renewals, err := s.renewals.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load renewals")
	}
	if renewals == nil {
		renewals = []models.LicenseRenewal{}
	}

	return &models.Dashboard{
		User:             user.Info(),
		LearningLicenses: learning,
		DrivingLicenses:  driving,
		Renewals:         renewals,
		Counts: models.DashboardCounts{
			Learning: len(learning),
			Driving:  len(driving),
			Renewals: len(renewals),
		},
	}, nil
}

// Export renders the caller's application history as csv (default) or pdf.
func (s *HomeService) Export(ctx context.Context, actor models.Actor, format string) ([]byte, string, string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "csv"
	}
	exporter, ok := s.exporters[format]
	if !ok {
		return nil, "", "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	learning, driving, err := s.licenses(ctx, actor.UserID)
	if err != nil {
		return nil, "", "", err
	}
	rows := make([]map[string]string, 0, len(learning)+len(driving))
	for _, ll := range learning {
		rows = append(rows, map[string]string{
			"Type":           models.LicenseTypeLearning,
			"Application ID": ll.ApplicationID,
			"Status":         string(ll.Status),
			"Apply Date":     ll.ApplyDate.Format("2006-01-02"),
		})
	}
	for _, dl := range driving {
		rows = append(rows, map[string]string{
			"Type":           models.LicenseTypeDriving,
			"Application ID": dl.ApplicationID,
			"License Number": dl.LicenseNumber,
			"Status":         string(dl.Status),
			"Apply Date":     dl.ApplyDate.Format("2006-01-02"),
			"Expiry Date":    dl.ExpiryDate.Format("2006-01-02"),
		})
	}

	payload, err := exporter.Render(export.Dataset{
		Title:   "Application History",
		Headers: historyHeaders,
		Rows:    rows,
	})
	if err != nil {
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render history")
	}
	filename := fmt.Sprintf("application-history-%s.%s", s.now().Format("20060102"), exporter.Extension())
	s.logger.Info("history exported", zap.String("user_id", actor.UserID), zap.String("format", format), zap.Int("rows", len(rows)))
	return payload, filename, exporter.ContentType(), nil
}

func (s *HomeService) licenses(ctx context.Context, userID string) ([]models.LearningLicense, []models.DrivingLicense, error) {
	learning, err := s.learning.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load learning licenses")
	}
	driving, err := s.driving.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load driving licenses")
	}
	if learning == nil {
		learning = []models.LearningLicense{}
	}
	if driving == nil {
		driving = []models.DrivingLicense{}
	}
	return learning, driving, nil
}
