package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const PurposeEmailVerify = "email_verify"

var (
	ErrInvalidToken      = errors.New("invalid or expired token")
	ErrMissingBearer     = errors.New("missing or malformed bearer token")
	ErrEmptySigningKey   = errors.New("signing key must not be empty")
	ErrNonPositiveExpiry = errors.New("token ttl must be positive")
)

// Claims is the payload of every token this service issues. Login tokens carry
// id/sub/email/role; verification tokens carry sub and a purpose.
type Claims struct {
	UserID   string `json:"id,omitempty"`
	Email    string `json:"email,omitempty"`
	TenantID string `json:"tenant_id"`
	Role     string `json:"role,omitempty"`
	Purpose  string `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 tokens with a single shared secret.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

func NewTokenService(secret string) (*TokenService, error) {
	if secret == "" {
		return nil, ErrEmptySigningKey
	}
	return &TokenService{secret: []byte(secret), now: time.Now}, nil
}

// SigningKey returns the raw HMAC key, for middleware that verifies tokens
// on its own.
func (s *TokenService) SigningKey() []byte {
	return s.secret
}

// Sign stamps iat/exp on claims and returns the compact token.
func (s *TokenService) Sign(claims *Claims, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", ErrNonPositiveExpiry
	}
	now := s.now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry. Every failure is reported as
// ErrInvalidToken wrapping the parser error.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// BearerToken pulls the token out of an Authorization header value.
func BearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrMissingBearer
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingBearer
	}
	return token, nil
}
