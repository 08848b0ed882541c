package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SignupRequest holds the registration form.
type SignupRequest struct {
	Username        string `form:"username" json:"username" validate:"required,min=2,max=64"`
	Email           string `form:"email" json:"email" validate:"required,email"`
	Password        string `form:"password" json:"password" validate:"required,min=8"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password" validate:"required,eqfield=Password"`
	IP              string `form:"-" json:"-"`
	UserAgent       string `form:"-" json:"-"`
}

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Username  string `form:"username" json:"username" validate:"required"`
	Password  string `form:"password" json:"password" validate:"required"`
	IP        string `form:"-" json:"-"`
	UserAgent string `form:"-" json:"-"`
}

// LoginResponse returns the issued session token and user info.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresIn int64     `json:"expires_in"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserInfo  `json:"user"`
}

// SessionClaims is the payload of a signed session token.
type SessionClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Actor identifies the signed-in user performing a request.
type Actor struct {
	UserID    string
	Username  string
	IP        string
	UserAgent string
}
