package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/akajrolkar2644/Assessment/pkg/errors"
)

// RoleAdmin is the role carried by admin tokens.
const RoleAdmin = "admin"

// AdminSubject is the token subject of the single admin account.
const AdminSubject = "admin"

// Token is an issued admin access token.
type Token struct {
	AccessToken string    `json:"token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// AdminAuthenticator exchanges the admin password for an access token.
type AdminAuthenticator struct {
	passwordHash []byte
	jwt          *JWTManager
	logger       *slog.Logger
}

// HashPassword hashes a plain-text password with bcrypt.
func HashPassword(password string, cost int) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

// NewAdminAuthenticator creates an authenticator for the bcrypt passwordHash.
func NewAdminAuthenticator(passwordHash []byte, jwt *JWTManager, logger *slog.Logger) *AdminAuthenticator {
	return &AdminAuthenticator{
		passwordHash: passwordHash,
		jwt:          jwt,
		logger:       logger,
	}
}

// Login checks password and issues an admin token.
func (a *AdminAuthenticator) Login(ctx context.Context, password string) (*Token, error) {
	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)); err != nil {
		a.logger.WarnContext(ctx, "admin login rejected")
		return nil, apperrors.Unauthorized("invalid password")
	}

	token, expiresAt, err := a.jwt.GenerateToken(AdminSubject, RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("generate admin token: %w", err)
	}

	a.logger.InfoContext(ctx, "admin logged in")
	return &Token{AccessToken: token, ExpiresAt: expiresAt}, nil
}
