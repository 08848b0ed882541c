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

type paymentService interface {
	Quote(ctx context.Context, actor models.Actor, licenseType string) (*models.PaymentQuote, error)
	Process(ctx context.Context, actor models.Actor, licenseType string, req dto.PaymentRequest) (*models.PaymentResult, error)
	Receipt(ctx context.Context, actor models.Actor, paymentID string) ([]byte, string, error)
}

// PaymentHandler serves the simulated payment step.
type PaymentHandler struct {
	service paymentService
}

// NewPaymentHandler constructs the handler.
func NewPaymentHandler(svc paymentService) *PaymentHandler {
	return &PaymentHandler{service: svc}
}

// Quote godoc
// @Summary Payment quote
// @Description Fee for the license type and whether an application is waiting for payment
// @Tags Payments
// @Produce json
// @Param licenseType path string true "learning, driving or renewal"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /payment/{licenseType} [get]
func (h *PaymentHandler) Quote(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	quote, err := h.service.Quote(c.Request.Context(), actor, c.Param("licenseType"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, quote, nil)
}

// Process godoc
// @Summary Pay the fee
// @Description Simulate a card charge and fulfil the staged application
// @Tags Payments
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param licenseType path string true "learning, driving or renewal"
// @Param payload body dto.PaymentRequest true "Card details"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /payment/{licenseType} [post]
func (h *PaymentHandler) Process(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.PaymentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payment payload"))
		return
	}
	result, err := h.service.Process(c.Request.Context(), actor, c.Param("licenseType"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	meta := map[string]interface{}{"next": "/home"}
	if result.PaymentID != "" {
		meta["receipt"] = "/payment/receipts/" + result.PaymentID
	}
	response.JSON(c, http.StatusOK, result, meta)
}

// Receipt godoc
// @Summary Payment receipt
// @Description PDF receipt for an owned payment
// @Tags Payments
// @Produce application/pdf
// @Param id path string true "Payment ID"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /payment/receipts/{id} [get]
func (h *PaymentHandler) Receipt(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	payload, filename, err := h.service.Receipt(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, filename, "application/pdf", payload)
}
