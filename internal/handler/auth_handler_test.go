package handler

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dlservice-api/internal/models"
	appErrors "github.com/noah-isme/dlservice-api/pkg/errors"
)

type fakeAuthService struct {
	registered []models.SignupRequest
	loginErr   error
	logouts    []models.Actor
}

func (f *fakeAuthService) Register(_ context.Context, req models.SignupRequest) (*models.UserInfo, error) {
	if req.Username == "taken" {
		return nil, appErrors.ErrDuplicateUsername
	}
	f.registered = append(f.registered, req)
	return &models.UserInfo{ID: "u-1", Username: req.Username, Email: req.Email}, nil
}

func (f *fakeAuthService) Login(_ context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &models.LoginResponse{Token: "signed-token", ExpiresIn: 3600, User: models.UserInfo{ID: "u-1", Username: req.Username}}, nil
}

func (f *fakeAuthService) Logout(_ context.Context, actor models.Actor) {
	f.logouts = append(f.logouts, actor)
}

func (f *fakeAuthService) SessionTTL() time.Duration { return time.Hour }

func TestAuthHandlerLoginSetsCookie(t *testing.T) {
	svc := &fakeAuthService{}
	h := NewAuthHandler(svc, CookieConfig{Name: "dl_session"})

	form := url.Values{"username": {"u1"}, "password": {"pw12345678"}}
	c, rec := newTestContext(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	h.Login(c)

	require.Equal(t, http.StatusOK, rec.Code)
	cookie := rec.Header().Get("Set-Cookie")
	assert.Contains(t, cookie, "dl_session=signed-token")
	assert.Contains(t, cookie, "HttpOnly")
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "signed-token", env.Data["token"])
	assert.Equal(t, "/home", env.Meta["next"])
}

func TestAuthHandlerLoginInvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&fakeAuthService{loginErr: appErrors.ErrInvalidCredentials}, CookieConfig{})

	c, rec := newTestContext(http.MethodPost, "/login", strings.NewReader(`{"username":"u1","password":"nope"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Header().Get("Set-Cookie"))
	assert.Equal(t, "INVALID_CREDENTIALS", decodeEnvelope(t, rec).Error["code"])
}

func TestAuthHandlerSignup(t *testing.T) {
	svc := &fakeAuthService{}
	h := NewAuthHandler(svc, CookieConfig{})

	c, rec := newTestContext(http.MethodPost, "/signup", strings.NewReader(`{"username":"u1","email":"e1@x.com","password":"pw12345678","confirm_password":"pw12345678"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.RemoteAddr = "10.1.2.3:5555"
	h.Signup(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, svc.registered, 1)
	assert.Equal(t, "10.1.2.3", svc.registered[0].IP)
	assert.Equal(t, "/login", decodeEnvelope(t, rec).Meta["next"])

	c, rec = newTestContext(http.MethodPost, "/signup", strings.NewReader(`{"username":"taken","email":"e2@x.com","password":"pw12345678","confirm_password":"pw12345678"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Signup(c)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAuthHandlerLogoutClearsCookie(t *testing.T) {
	svc := &fakeAuthService{}
	h := NewAuthHandler(svc, CookieConfig{Name: "dl_session"})

	c, rec := newTestContext(http.MethodPost, "/logout", nil)
	signIn(c, "u-1")
	h.Logout(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "Max-Age=0")
	require.Len(t, svc.logouts, 1)
	assert.Equal(t, "u-1", svc.logouts[0].UserID)
}
