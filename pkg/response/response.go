package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/dlservice-api/pkg/errors"
)

// Envelope represents the common response contract.
type Envelope struct {
	Data  interface{}            `json:"data,omitempty"`
	Error *appErrors.Error       `json:"error,omitempty"`
	Meta  map[string]interface{} `json:"meta,omitempty"`
}

// JSON sends a success response with optional metadata.
func JSON(c *gin.Context, status int, data interface{}, meta map[string]interface{}) {
	noStore(c)
	c.JSON(status, Envelope{Data: data, Meta: meta})
}

// Created responds with HTTP 201 Created and an optional next step for the client.
func Created(c *gin.Context, data interface{}, next string) {
	var meta map[string]interface{}
	if next != "" {
		meta = map[string]interface{}{"next": next}
	}
	JSON(c, http.StatusCreated, data, meta)
}

// Error sends an error response converting the error to the common structure.
// Errors carrying a follow-up location expose it as meta.redirect.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	_ = c.Error(err)
	noStore(c)
	envelope := Envelope{Error: appErr}
	if redirect := redirectFor(appErr); redirect != "" {
		envelope.Meta = map[string]interface{}{"redirect": redirect}
	}
	c.JSON(appErr.Status, envelope)
}

// SeeOther redirects browsers to another page with 303.
func SeeOther(c *gin.Context, location string) {
	noStore(c)
	c.Redirect(http.StatusSeeOther, location)
}

// Attachment streams a generated file to the client.
func Attachment(c *gin.Context, filename, contentType string, payload []byte) {
	noStore(c)
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Data(http.StatusOK, contentType, payload)
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func redirectFor(err *appErrors.Error) string {
	if err.Code == appErrors.ErrMissingStagedData.Code {
		return "/home"
	}
	return ""
}

func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}
