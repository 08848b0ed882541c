package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/dlservice-api/internal/models"
	"github.com/noah-isme/dlservice-api/internal/service"
	appErrors "github.com/noah-isme/dlservice-api/pkg/errors"
	"github.com/noah-isme/dlservice-api/pkg/response"
)

type documentService interface {
	Link(ctx context.Context, actor models.Actor, applicationID string) (*models.DocumentLink, error)
	Open(ctx context.Context, actor models.Actor, token string) (*service.DocumentDownload, error)
}

// DocumentHandler hands out and serves signed document links.
type DocumentHandler struct {
	service documentService
}

// NewDocumentHandler constructs the handler.
func NewDocumentHandler(svc documentService) *DocumentHandler {
	return &DocumentHandler{service: svc}
}

// Link godoc
// @Summary Document link
// @Description Signed, expiring URL for the document of an owned learning application
// @Tags Documents
// @Produce json
// @Param applicationId path string true "Learning application ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /documents/{applicationId}/link [get]
func (h *DocumentHandler) Link(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	link, err := h.service.Link(c.Request.Context(), actor, c.Param("applicationId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, link, nil)
}

// Download godoc
// @Summary Download document
// @Tags Documents
// @Produce octet-stream
// @Param token query string true "Signed token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Router /documents/download [get]
func (h *DocumentHandler) Download(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	doc, err := h.service.Open(c.Request.Context(), actor, token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer doc.File.Close() //nolint:errcheck

	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, doc.Size, doc.MimeType, doc.File, map[string]string{
		"Content-Disposition": "attachment; filename=\"" + doc.Filename + "\"",
	})
}
