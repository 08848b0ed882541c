package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/dlservice-api/internal/models"
	appErrors "github.com/noah-isme/dlservice-api/pkg/errors"
	"github.com/noah-isme/dlservice-api/pkg/response"
)

type homeService interface {
	Dashboard(ctx context.Context, actor models.Actor) (*models.Dashboard, error)
	Export(ctx context.Context, actor models.Actor, format string) ([]byte, string, string, error)
}

// HomeHandler serves the dashboard and history export.
type HomeHandler struct {
	service homeService
}

// NewHomeHandler constructs the handler.
func NewHomeHandler(svc homeService) *HomeHandler {
	return &HomeHandler{service: svc}
}

// Home godoc
// @Summary Dashboard
// @Description The caller's learning licenses, driving licenses and renewals
// @Tags Home
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /home [get]
func (h *HomeHandler) Home(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	dashboard, err := h.service.Dashboard(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dashboard, nil)
}

// ExportHistory godoc
// @Summary Export application history
// @Tags Home
// @Produce text/csv,application/pdf
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /history/export [get]
func (h *HomeHandler) ExportHistory(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	payload, filename, contentType, err := h.service.Export(c.Request.Context(), actor, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, filename, contentType, payload)
}
