package services

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/url"
	"strings"

	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/mailer"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/security"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/tenant"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	msgInvalidVerifyToken = "invalid or expired token"
	msgVerifyFailure      = "failed to send verification email"
	verifySubject         = "Confirm your email address"
)

type EmailVerifyService struct {
	db       *gorm.DB
	users    *UserService
	tokens   *security.TokenService
	mail     mailer.Sender
	registry *tenant.Registry
	cfg      *config.Config
}

func NewEmailVerifyService(db *gorm.DB, users *UserService, tokens *security.TokenService, mail mailer.Sender, registry *tenant.Registry, cfg *config.Config) *EmailVerifyService {
	return &EmailVerifyService{
		db:       db,
		users:    users,
		tokens:   tokens,
		mail:     mail,
		registry: registry,
		cfg:      cfg,
	}
}

// verifyHTML escapes the user-supplied name; names are free text.
var verifyHTML = template.Must(template.New("verify").Parse(
	`<p>Hello {{.Name}},</p><p>Confirm your email address by opening the link below:</p><p><a href="{{.Link}}">Confirm email</a></p>`,
))

type verifyMailData struct {
	Name string
	Link string
}

// Send issues a verification token for email, stores it and mails the
// confirmation link.
func (s *EmailVerifyService) Send(ctx context.Context, tenantID, email string) error {
	err := s.send(ctx, tenantID, email)
	return boundary(ctx, "email_verify.send", err, msgVerifyFailure)
}

func (s *EmailVerifyService) send(ctx context.Context, tenantID, email string) error {
	user, err := s.users.FindByEmailAuth(ctx, tenantID, email)
	if err != nil {
		return err
	}
	if user == nil {
		return NewNotFoundError(msgUserNotFound)
	}

	token, err := s.tokens.Sign(&security.Claims{
		TenantID: tenantID,
		Purpose:  security.PurposeEmailVerify,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: user.ID.String(),
		},
	}, s.cfg.EmailVerifyExpiry)
	if err != nil {
		return err
	}

	record := models.EmailVerification{
		TenantID: tenantID,
		UserID:   user.ID,
		Token:    token,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return err
	}

	link := s.confirmLink(tenantID, token)
	var html strings.Builder
	if err := verifyHTML.Execute(&html, verifyMailData{Name: user.Name, Link: link}); err != nil {
		return err
	}
	err = s.mail.Send(ctx, mailer.Email{
		To:       []string{user.Email},
		Subject:  verifySubject,
		Body:     fmt.Sprintf("Hello %s,\n\nConfirm your email address by opening the link below:\n\n%s\n", user.Name, link),
		HTMLBody: html.String(),
	})
	if err != nil {
		return fmt.Errorf("failed to deliver verification email: %w", err)
	}
	return nil
}

// Confirm marks the token's user as verified and consumes the token. Every
// failure is reported as the same unauthorized error.
func (s *EmailVerifyService) Confirm(ctx context.Context, tenantID, token string) error {
	invalid := NewUnauthorizedError(msgInvalidVerifyToken)

	claims, err := s.tokens.Verify(token)
	if err != nil {
		slog.DebugContext(ctx, "verification token rejected", "tenant_id", tenantID, "error", err)
		return invalid
	}
	if claims.Purpose != security.PurposeEmailVerify || claims.TenantID != tenantID {
		return invalid
	}

	var record models.EmailVerification
	err = s.db.WithContext(ctx).
		Scopes(tenant.ForTenant(tenantID)).
		Preload("User").
		Where("token = ?", token).
		First(&record).Error
	if err != nil {
		return invalid
	}
	if record.User.ID == uuid.Nil || record.UserID.String() != claims.Subject {
		return invalid
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&record.User).Update("is_email_verified", true).Error; err != nil {
			return err
		}
		return tx.Delete(&record).Error
	})
	if err != nil {
		slog.ErrorContext(ctx, "email verification failed", "tenant_id", tenantID, "user_id", record.UserID.String(), "error", err)
		return invalid
	}
	return nil
}

func (s *EmailVerifyService) confirmLink(tenantID, token string) string {
	base := s.cfg.PublicURL
	if s.registry != nil {
		base = s.registry.PublicURL(tenantID, base)
	}
	q := url.Values{}
	q.Set("token", token)
	q.Set("tenant_id", tenantID)
	return strings.TrimRight(base, "/") + "/email_verify/confirm?" + q.Encode()
}
