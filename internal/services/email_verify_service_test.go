package services

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/security"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sentToken(t *testing.T, f *fixture) string {
	t.Helper()
	body := f.mail.last().Body
	start := strings.Index(body, "http")
	require.NotEqual(t, -1, start)
	link := strings.Fields(body[start:])[0]
	u, err := url.Parse(link)
	require.NoError(t, err)
	return u.Query().Get("token")
}

func TestSendVerification(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, testTenant, "ana@example.com")

	require.NoError(t, f.verify.Send(ctx, testTenant, "ana@example.com"))

	require.Len(t, f.mail.sent, 1)
	email := f.mail.last()
	assert.Equal(t, []string{"ana@example.com"}, email.To)
	assert.Equal(t, verifySubject, email.Subject)
	assert.Contains(t, email.Body, "https://a.example.com/email_verify/confirm?")
	assert.Contains(t, email.Body, "tenant_id="+testTenant)

	token := sentToken(t, f)
	claims, err := f.tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, security.PurposeEmailVerify, claims.Purpose)
	assert.Equal(t, testTenant, claims.TenantID)
	assert.Equal(t, userID(t, f, testTenant, "ana@example.com").String(), claims.Subject)
	assert.WithinDuration(t, time.Now().Add(20*time.Minute), claims.ExpiresAt.Time, 5*time.Second)

	var count int64
	require.NoError(t, f.db.Model(&models.EmailVerification{}).Where("token = ?", token).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSendVerificationEscapesName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, testTenant, "ana@example.com")
	require.NoError(t, f.db.Model(&models.User{}).Where("email = ?", "ana@example.com").Update("name", `<a href=//ev.io>Win</a>`).Error)

	require.NoError(t, f.verify.Send(ctx, testTenant, "ana@example.com"))

	html := f.mail.last().HTMLBody
	assert.NotContains(t, html, "<a href=//ev.io>")
	assert.Contains(t, html, "Hello &lt;a href=//ev.io&gt;Win&lt;/a&gt;,")
	assert.Contains(t, html, `<a href="https://a.example.com/email_verify/confirm?`)
}

func TestSendVerificationFallsBackToServerURL(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, otherTenant, "ana@example.com")

	require.NoError(t, f.verify.Send(context.Background(), otherTenant, "ana@example.com"))
	assert.Contains(t, f.mail.last().Body, "http://localhost:8080/email_verify/confirm?")
}

func TestSendVerificationErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	requireKind(t, f.verify.Send(ctx, testTenant, "missing@example.com"), KindNotFound)
	requireKind(t, f.verify.Send(ctx, testTenant, "bogus"), KindValidation)

	f.createUser(t, testTenant, "ana@example.com")
	f.mail.err = errors.New("smtp down")
	err := f.verify.Send(ctx, testTenant, "ana@example.com")
	requireKind(t, err, KindInternal)
	assert.Equal(t, msgVerifyFailure, err.(*Error).Message)
}

func TestConfirmVerificationIsSingleUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, testTenant, "ana@example.com")
	require.NoError(t, f.verify.Send(ctx, testTenant, "ana@example.com"))
	token := sentToken(t, f)

	require.NoError(t, f.verify.Confirm(ctx, testTenant, token))

	user, err := f.users.FindByEmailAuth(ctx, testTenant, "ana@example.com")
	require.NoError(t, err)
	assert.True(t, user.IsEmailVerified)

	var count int64
	require.NoError(t, f.db.Model(&models.EmailVerification{}).Count(&count).Error)
	assert.Zero(t, count)

	err = f.verify.Confirm(ctx, testTenant, token)
	requireKind(t, err, KindUnauthorized)
	assert.Equal(t, msgInvalidVerifyToken, err.(*Error).Message)
}

func TestConfirmVerificationRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, testTenant, "ana@example.com")
	require.NoError(t, f.verify.Send(ctx, testTenant, "ana@example.com"))
	token := sentToken(t, f)
	id := userID(t, f, testTenant, "ana@example.com")

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &security.Claims{
		TenantID: testTenant,
		Purpose:  security.PurposeEmailVerify,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	require.NoError(t, f.db.Create(&models.EmailVerification{TenantID: testTenant, UserID: id, Token: expired}).Error)

	login, err := f.tokens.Sign(&security.Claims{UserID: id.String(), TenantID: testTenant}, time.Hour)
	require.NoError(t, err)
	require.NoError(t, f.db.Create(&models.EmailVerification{TenantID: testTenant, UserID: id, Token: login}).Error)

	unknown, err := f.tokens.Sign(&security.Claims{
		TenantID:         testTenant,
		Purpose:          security.PurposeEmailVerify,
		RegisteredClaims: jwt.RegisteredClaims{Subject: id.String()},
	}, time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name     string
		tenantID string
		token    string
	}{
		{"garbage", testTenant, "not-a-token"},
		{"empty", testTenant, ""},
		{"expired", testTenant, expired},
		{"wrong purpose", testTenant, login},
		{"wrong tenant", otherTenant, token},
		{"no stored record", testTenant, unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.verify.Confirm(ctx, tt.tenantID, tt.token)
			requireKind(t, err, KindUnauthorized)
			assert.Equal(t, msgInvalidVerifyToken, err.(*Error).Message)
		})
	}

	user, err := f.users.FindByEmailAuth(ctx, testTenant, "ana@example.com")
	require.NoError(t, err)
	assert.False(t, user.IsEmailVerified)
}
