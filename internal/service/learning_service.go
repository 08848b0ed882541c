package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/dlservice-api/internal/dto"
	"github.com/noah-isme/dlservice-api/internal/models"
	"github.com/noah-isme/dlservice-api/internal/validation"
)

type documentSaver interface {
	Save(ctx context.Context, userID string, upload DocumentUpload) (string, error)
	Discard(name string)
}

// LearningService accepts learning license applications and stages them for payment.
type LearningService struct {
	staging   *StagingService
	documents documentSaver
	validator *validator.Validate
	logger    *zap.Logger
	maxUpload int64
}

// NewLearningService constructs the service.
func NewLearningService(staging *StagingService, documents documentSaver, validate *validator.Validate, logger *zap.Logger, maxUpload int64) *LearningService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New(nil)
	}
	return &LearningService{staging: staging, documents: documents, validator: validate, logger: logger, maxUpload: maxUpload}
}

// Form describes the choices of the application form.
func (s *LearningService) Form() dto.LearningLicenseForm {
	return dto.LearningLicenseForm{
		Genders:       []dto.Choice{{Value: "male", Label: "Male"}, {Value: "female", Label: "Female"}, {Value: "other", Label: "Other"}},
		BloodGroups:   choicesOf("A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"),
		RhFactors:     []dto.Choice{{Value: "positive", Label: "Positive"}, {Value: "negative", Label: "Negative"}},
		DocumentTypes: []dto.Choice{{Value: "aadhar", Label: "Aadhar Card"}, {Value: "passport", Label: "Passport"}, {Value: "voter_id", Label: "Voter ID"}, {Value: "pan_card", Label: "PAN Card"}},
		MaxUploadSize: s.maxUpload,
		Fee:           models.WorkflowLearning.Fee(),
	}
}

// Submit validates the application, stores the optional document and stages the
// application until the learning fee is paid.
func (s *LearningService) Submit(ctx context.Context, actor models.Actor, req dto.LearningLicenseRequest, upload *DocumentUpload) (*models.PendingTransaction, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validation.Translate(err)
	}
	dob, err := validation.ParseDate(req.DOB)
	if err != nil {
		return nil, validation.Translate(err)
	}

	stage := models.LearningStage{
		Applicant: models.ApplicantDetails{
			Name:         strings.TrimSpace(req.Name),
			DOB:          dob,
			Gender:       req.Gender,
			PlaceOfBirth: strings.TrimSpace(req.PlaceOfBirth),
			Email:        strings.TrimSpace(req.Email),
			ContactDetails: models.ContactDetails{
				Phone:   strings.TrimSpace(req.Phone),
				Address: strings.TrimSpace(req.Address),
				City:    strings.TrimSpace(req.City),
				State:   strings.TrimSpace(req.State),
				ZipCode: strings.TrimSpace(req.ZipCode),
			},
			BloodGroup:  req.BloodGroup,
			RhFactor:    req.RhFactor,
			Citizenship: strings.TrimSpace(req.Citizenship),
		},
		DocumentType: req.DocumentType,
	}

	if upload != nil && s.documents != nil {
		path, err := s.documents.Save(ctx, actor.UserID, *upload)
		if err != nil {
			return nil, err
		}
		stage.DocumentPath = path
	}

	tx, err := s.staging.Stage(ctx, models.WorkflowLearning, actor.UserID, stage)
	if err != nil {
		if stage.DocumentPath != "" {
			s.documents.Discard(stage.DocumentPath)
		}
		return nil, err
	}
	s.logger.Info("learning application staged", zap.String("user_id", actor.UserID), zap.Bool("document", stage.DocumentPath != ""))
	return tx, nil
}

func choicesOf(values ...string) []dto.Choice {
	out := make([]dto.Choice, len(values))
	for i, v := range values {
		out[i] = dto.Choice{Value: v, Label: v}
	}
	return out
}
