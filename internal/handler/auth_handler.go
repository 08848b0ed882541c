package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/dlservice-api/internal/middleware"
	"github.com/noah-isme/dlservice-api/internal/models"
	appErrors "github.com/noah-isme/dlservice-api/pkg/errors"
	"github.com/noah-isme/dlservice-api/pkg/response"
)

type authService interface {
	Register(ctx context.Context, req models.SignupRequest) (*models.UserInfo, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Logout(ctx context.Context, actor models.Actor)
	SessionTTL() time.Duration
}

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service authService
	cookie  CookieConfig
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService, cookie CookieConfig) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = "dl_session"
	}
	return &AuthHandler{service: svc, cookie: cookie}
}

// LoginForm godoc
// @Summary Login form
// @Description Describe the login form fields
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /login [get]
func (h *AuthHandler) LoginForm(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{"fields": []string{"username", "password"}}, map[string]interface{}{"signup": "/signup"})
}

// Login godoc
// @Summary Authenticate user
// @Description Authenticate by username and password and start a session
// @Tags Authentication
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setSessionCookie(c, res.Token, int(h.service.SessionTTL().Seconds()))
	response.JSON(c, http.StatusOK, res, map[string]interface{}{"next": "/home"})
}

// SignupForm godoc
// @Summary Signup form
// @Description Describe the signup form fields
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /signup [get]
func (h *AuthHandler) SignupForm(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{"fields": []string{"username", "email", "password", "confirm_password"}}, map[string]interface{}{"login": "/login"})
}

// Signup godoc
// @Summary Register account
// @Description Create an account with a unique username and email
// @Tags Authentication
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param payload body models.SignupRequest true "Signup payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid signup payload"))
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, user, middleware.LoginPath)
}

// Logout godoc
// @Summary Logout current session
// @Description Clear the session cookie and return to the login page
// @Tags Authentication
// @Success 303
// @Router /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if actor, ok := actorFromContext(c); ok {
		h.service.Logout(c.Request.Context(), actor)
	}
	h.setSessionCookie(c, "", -1)
	response.SeeOther(c, middleware.LoginPath)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}
