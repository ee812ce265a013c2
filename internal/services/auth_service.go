package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	iauth "github.com/argussec/argus/internal/auth"
	"github.com/argussec/argus/internal/models"
	apperrors "github.com/argussec/argus/pkg/errors"
	"github.com/argussec/argus/pkg/metrics"
)

// LoginResult carries the issued token and the subject it identifies.
type LoginResult struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	TenantID string `json:"tenant_id,omitempty"`
}

// AuthService verifies credentials and issues access tokens. Platform
// operators and tenant users authenticate against separate account tables;
// tenant tokens carry the tenant claim.
type AuthService struct {
	db           *gorm.DB
	jwt          *iauth.JWTService
	auditService *AuditService
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(db *gorm.DB, jwt *iauth.JWTService, auditService *AuditService) (*AuthService, error) {
	if db == nil {
		return nil, errors.New("auth service: db is required")
	}
	if jwt == nil {
		return nil, errors.New("auth service: jwt service is required")
	}
	return &AuthService{
		db:           db,
		jwt:          jwt,
		auditService: auditService,
	}, nil
}

// Login authenticates a platform operator.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	ctx = ensureContext(ctx)

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	var user models.User
	err := s.db.WithContext(ctx).First(&user, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, s.failLogin(ctx, username, "unknown user")
	}
	if err != nil {
		return nil, fmt.Errorf("auth service: load user: %w", err)
	}

	if !user.IsActive {
		return nil, s.failLogin(ctx, username, "inactive account")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, s.failLogin(ctx, username, "bad password")
	}

	token, err := s.jwt.GenerateAccessToken(iauth.AccessTokenInput{UserID: user.ID})
	if err != nil {
		return nil, fmt.Errorf("auth service: issue token: %w", err)
	}

	s.touchLastLogin(ctx, &models.User{}, user.ID)
	metrics.AuthAttempts.WithLabelValues("success").Inc()
	recordAudit(s.auditService, ctx, AuditEntry{
		UserID:   &user.ID,
		Username: user.Username,
		Action:   "auth.login",
		Result:   "success",
	})

	return &LoginResult{
		Token:    token,
		UserID:   user.ID,
		Username: user.Username,
		Name:     user.Name,
	}, nil
}

// TenantLogin authenticates a tenant user and issues a tenant-scoped token.
func (s *AuthService) TenantLogin(ctx context.Context, username, password string) (*LoginResult, error) {
	ctx = ensureContext(ctx)

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	var user models.TenantUser
	err := s.db.WithContext(ctx).First(&user, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, s.failLogin(ctx, username, "unknown tenant user")
	}
	if err != nil {
		return nil, fmt.Errorf("auth service: load tenant user: %w", err)
	}

	if user.IsSuspended {
		return nil, s.failLogin(ctx, username, "suspended account")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, s.failLogin(ctx, username, "bad password")
	}

	token, err := s.jwt.GenerateAccessToken(iauth.AccessTokenInput{
		UserID:   user.ID,
		TenantID: user.TenantID,
	})
	if err != nil {
		return nil, fmt.Errorf("auth service: issue token: %w", err)
	}

	s.touchLastLogin(ctx, &models.TenantUser{}, user.ID)
	metrics.AuthAttempts.WithLabelValues("success").Inc()
	recordAudit(s.auditService, ctx, AuditEntry{
		UserID:   &user.ID,
		Username: user.Username,
		Action:   "auth.tenant_login",
		Result:   "success",
		Metadata: map[string]any{"tenant_id": user.TenantID},
	})

	return &LoginResult{
		Token:    token,
		UserID:   user.ID,
		Username: user.Username,
		Name:     user.Name,
		TenantID: user.TenantID,
	}, nil
}

// HashPassword derives the stored form of a password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("auth service: hash password: %w", err)
	}
	return string(hashed), nil
}

// failLogin records a failed attempt and returns the uniform credential error.
func (s *AuthService) failLogin(ctx context.Context, username, reason string) error {
	metrics.AuthAttempts.WithLabelValues("failure").Inc()
	recordAudit(s.auditService, ctx, AuditEntry{
		Username: username,
		Action:   "auth.login",
		Result:   "failure",
		Metadata: map[string]any{"reason": reason},
	})
	return apperrors.ErrInvalidCredentials
}

func (s *AuthService) touchLastLogin(ctx context.Context, model any, id string) {
	now := time.Now()
	_ = s.db.WithContext(ctx).Model(model).Where("id = ?", id).Update("last_login_at", now).Error
}
