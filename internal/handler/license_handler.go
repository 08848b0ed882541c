package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/dlservice-api/internal/dto"
	"github.com/noah-isme/dlservice-api/internal/models"
	"github.com/noah-isme/dlservice-api/internal/service"
	appErrors "github.com/noah-isme/dlservice-api/pkg/errors"
	"github.com/noah-isme/dlservice-api/pkg/response"
)

type learningService interface {
	Form() dto.LearningLicenseForm
	Submit(ctx context.Context, actor models.Actor, req dto.LearningLicenseRequest, upload *service.DocumentUpload) (*models.PendingTransaction, error)
}

type drivingService interface {
	Form() dto.DrivingLicenseForm
	Submit(ctx context.Context, actor models.Actor, req dto.DrivingLicenseRequest) (*models.PendingTransaction, error)
}

type renewalService interface {
	Form() dto.RenewalForm
	Submit(ctx context.Context, actor models.Actor, req dto.RenewalRequest) (*models.PendingTransaction, error)
}

// multipartOverhead leaves room for the text fields next to the document.
const multipartOverhead = 1 << 20

// LicenseHandler serves the learning, driving and renewal application forms.
type LicenseHandler struct {
	learning  learningService
	driving   drivingService
	renewal   renewalService
	maxUpload int64
}

// NewLicenseHandler constructs the handler.
func NewLicenseHandler(learning learningService, driving drivingService, renewal renewalService, maxUpload int64) *LicenseHandler {
	if maxUpload <= 0 {
		maxUpload = 16 << 20
	}
	return &LicenseHandler{learning: learning, driving: driving, renewal: renewal, maxUpload: maxUpload}
}

type stagedResponse struct {
	Workflow  models.Workflow `json:"workflow"`
	Amount    int             `json:"amount"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// LearningForm godoc
// @Summary Learning license form
// @Tags Licenses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /learning-license [get]
func (h *LicenseHandler) LearningForm(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.learning.Form(), nil)
}

// SubmitLearning godoc
// @Summary Apply for a learning license
// @Description Validate the application and stage it until the learning fee is paid
// @Tags Licenses
// @Accept multipart/form-data
// @Produce json
// @Param document formData file false "Identity document"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /learning-license [post]
func (h *LicenseHandler) SubmitLearning(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+multipartOverhead)

	var req dto.LearningLicenseRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid learning license payload"))
		return
	}

	var upload *service.DocumentUpload
	header, err := c.FormFile("document")
	switch {
	case err == nil:
		if header.Size > h.maxUpload {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "document: file too large"))
			return
		}
		file, err := header.Open()
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "document: unreadable upload"))
			return
		}
		defer file.Close() //nolint:errcheck
		upload = &service.DocumentUpload{Filename: header.Filename, Size: header.Size, Content: file}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid document upload"))
		return
	}

	staged, err := h.learning.Submit(c.Request.Context(), actor, req, upload)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondStaged(c, staged)
}

// DrivingForm godoc
// @Summary Driving license form
// @Description Bookable test window and time slots as of today
// @Tags Licenses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /driving-license [get]
func (h *LicenseHandler) DrivingForm(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.driving.Form(), nil)
}

// SubmitDriving godoc
// @Summary Book a driving test
// @Description Stage a driving test booking against an owned learning license
// @Tags Licenses
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param payload body dto.DrivingLicenseRequest true "Booking"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /driving-license [post]
func (h *LicenseHandler) SubmitDriving(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.DrivingLicenseRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid driving license payload"))
		return
	}
	staged, err := h.driving.Submit(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondStaged(c, staged)
}

// RenewalForm godoc
// @Summary Renewal form
// @Tags Licenses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /renew-license [get]
func (h *LicenseHandler) RenewalForm(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.renewal.Form(), nil)
}

// SubmitRenewal godoc
// @Summary Renew a driving license
// @Description Stage the renewal of an owned driving license
// @Tags Licenses
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param payload body dto.RenewalRequest true "Renewal"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /renew-license [post]
func (h *LicenseHandler) SubmitRenewal(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.RenewalRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid renewal payload"))
		return
	}
	staged, err := h.renewal.Submit(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondStaged(c, staged)
}

func respondStaged(c *gin.Context, staged *models.PendingTransaction) {
	response.Created(c, stagedResponse{
		Workflow:  staged.Workflow,
		Amount:    staged.Workflow.Fee(),
		ExpiresAt: staged.ExpiresAt,
	}, "/payment/"+string(staged.Workflow))
}
