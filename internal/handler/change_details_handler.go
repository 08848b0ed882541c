package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/dlservice-api/internal/dto"
	"github.com/noah-isme/dlservice-api/internal/models"
	appErrors "github.com/noah-isme/dlservice-api/pkg/errors"
	"github.com/noah-isme/dlservice-api/pkg/response"
)

type changeDetailsService interface {
	Verify(ctx context.Context, actor models.Actor, req dto.VerifyLicenseRequest) (*models.ContactDetails, error)
	Apply(ctx context.Context, actor models.Actor, req dto.ChangeDetailsRequest) (*models.LicenseChangeRequest, error)
	History(ctx context.Context, actor models.Actor, licenseNumber string) ([]models.LicenseChangeRequest, error)
}

// ChangeDetailsHandler serves the two-step contact change flow.
type ChangeDetailsHandler struct {
	service changeDetailsService
}

// NewChangeDetailsHandler constructs the handler.
func NewChangeDetailsHandler(svc changeDetailsService) *ChangeDetailsHandler {
	return &ChangeDetailsHandler{service: svc}
}

// Form godoc
// @Summary Change details form
// @Tags Change Details
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /change-details [get]
func (h *ChangeDetailsHandler) Form(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{
		"steps":  []string{"verify", "apply"},
		"fields": []string{"license_number", "address", "city", "state", "zip_code", "phone"},
	}, map[string]interface{}{"verify": "/change-details/verify"})
}

// Verify godoc
// @Summary Verify license ownership
// @Description Return the current contact details of an owned license
// @Tags Change Details
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param payload body dto.VerifyLicenseRequest true "License"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /change-details/verify [post]
func (h *ChangeDetailsHandler) Verify(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.VerifyLicenseRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid verify payload"))
		return
	}
	h.verify(c, actor, req.LicenseNumber)
}

// Apply godoc
// @Summary Change license contact details
// @Description Record a change request and update the license. A payload with only license_number verifies instead.
// @Tags Change Details
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param payload body dto.ChangeDetailsRequest true "New details"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /change-details [post]
func (h *ChangeDetailsHandler) Apply(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.ChangeDetailsRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid change details payload"))
		return
	}
	if onlyLicenseNumber(req) {
		h.verify(c, actor, req.LicenseNumber)
		return
	}

	change, err := h.service.Apply(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, change, map[string]interface{}{"next": "/home"})
}

// History godoc
// @Summary Change history
// @Description List change requests of an owned license, newest first
// @Tags Change Details
// @Produce json
// @Param licenseNumber path string true "License number"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /change-details/{licenseNumber}/history [get]
func (h *ChangeDetailsHandler) History(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	items, err := h.service.History(c.Request.Context(), actor, c.Param("licenseNumber"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, map[string]interface{}{"count": len(items)})
}

func (h *ChangeDetailsHandler) verify(c *gin.Context, actor models.Actor, licenseNumber string) {
	current, err := h.service.Verify(c.Request.Context(), actor, dto.VerifyLicenseRequest{LicenseNumber: licenseNumber})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"license_number": strings.TrimSpace(licenseNumber),
		"current":        current,
	}, map[string]interface{}{"next": "/change-details"})
}

func onlyLicenseNumber(req dto.ChangeDetailsRequest) bool {
	for _, v := range []string{req.Address, req.City, req.State, req.ZipCode, req.Phone} {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
