package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/dlservice-api/internal/dto"
	"github.com/noah-isme/dlservice-api/internal/models"
	appErrors "github.com/noah-isme/dlservice-api/pkg/errors"
	"github.com/noah-isme/dlservice-api/pkg/response"
)

type statusService interface {
	Check(ctx context.Context, actor models.Actor, applicationID string) (*models.ApplicationStatus, error)
}

// StatusHandler answers application status checks.
type StatusHandler struct {
	service statusService
}

// NewStatusHandler constructs the handler.
func NewStatusHandler(svc statusService) *StatusHandler {
	return &StatusHandler{service: svc}
}

// Check godoc
// @Summary Application status
// @Description Look an application up by ID among the caller's learning and driving applications
// @Tags Status
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param application_id query string false "Application ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /application-status [get]
// @Router /application-status [post]
func (h *StatusHandler) Check(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.StatusRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}
	if req.ApplicationID == "" && c.Request.Method == http.MethodGet {
		response.JSON(c, http.StatusOK, gin.H{"fields": []string{"application_id"}}, nil)
		return
	}

	status, err := h.service.Check(c.Request.Context(), actor, req.ApplicationID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// CheckRC godoc
// @Summary Registration certificate lookup
// @Description Placeholder, RC lookup is not offered yet
// @Tags Status
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /check-rc [get]
func (h *StatusHandler) CheckRC(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{
		"available": false,
		"message":   "Registration certificate lookup is not available yet.",
	}, nil)
}
