package services

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/security"
	"github.com/golang-jwt/jwt/v5"
)

const (
	msgInvalidCredentials = "invalid credentials"
	msgAccountInactive    = "account is inactive"
	msgAccountBanned      = "account is banned"
	msgLoginFailure       = "failed to authenticate"
)

type AuthService struct {
	users  *UserService
	tokens *security.TokenService
	cfg    *config.Config
}

func NewAuthService(users *UserService, tokens *security.TokenService, cfg *config.Config) *AuthService {
	return &AuthService{users: users, tokens: tokens, cfg: cfg}
}

// Login checks credentials and account state, then issues an access token.
func (s *AuthService) Login(ctx context.Context, tenantID string, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	resp, err := s.login(ctx, tenantID, req)
	return resp, boundary(ctx, "auth.login", err, msgLoginFailure)
}

func (s *AuthService) login(ctx context.Context, tenantID string, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if !isValidEmail(req.Email) {
		return nil, NewValidationError(msgInvalidEmail)
	}

	user, err := s.users.FindByEmailAuth(ctx, tenantID, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NewNotFoundError(msgUserNotFound)
	}

	if !security.ComparePassword(req.Password, user.Password) {
		return nil, NewUnauthorizedError(msgInvalidCredentials)
	}
	if !user.IsActive {
		return nil, NewUnauthorizedError(msgAccountInactive)
	}
	if user.IsBanned {
		return nil, NewUnauthorizedError(msgAccountBanned)
	}

	token, err := s.tokens.Sign(&security.Claims{
		UserID:   user.ID.String(),
		Email:    user.Email,
		TenantID: tenantID,
		Role:     s.roleFor(user),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: user.ID.String(),
		},
	}, s.cfg.JWTExpiration)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token:     token,
		ExpiresIn: int64(s.cfg.JWTExpiration.Seconds()),
		User: dto.AuthUserSummary{
			ID:       user.ID,
			Email:    user.Email,
			Name:     user.Name,
			LastName: user.LastName,
		},
	}, nil
}

// roleFor grants ADMIN_EMAILS the admin role only once the address has been
// verified; registration is open, so an unverified account proves nothing.
func (s *AuthService) roleFor(user *models.User) string {
	if user.IsEmailVerified && s.cfg.IsAdminEmail(user.Email) {
		return models.RoleAdmin
	}
	return user.Role
}
