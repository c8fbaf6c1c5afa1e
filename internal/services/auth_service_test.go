package services

import (
	"context"
	"testing"

	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginAfterRegistration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, testTenant, "ana@example.com")

	resp, err := f.auth.Login(ctx, testTenant, &dto.LoginRequest{Email: "ana@example.com", Password: testPassword})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, "ana@example.com", resp.User.Email)
	assert.Equal(t, "Ana", resp.User.Name)
	assert.Equal(t, "Silveira", resp.User.LastName)

	claims, err := f.tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID.String(), claims.UserID)
	assert.Equal(t, resp.User.ID.String(), claims.Subject)
	assert.Equal(t, testTenant, claims.TenantID)
	assert.Equal(t, models.RoleUser, claims.Role)
	assert.Empty(t, claims.Purpose)
}

func TestLoginFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, testTenant, "ana@example.com")
	f.createUser(t, testTenant, "banned@example.com")
	require.NoError(t, f.db.Model(&models.User{}).Where("email = ?", "banned@example.com").Update("is_banned", true).Error)

	tests := []struct {
		name     string
		tenantID string
		email    string
		password string
		kind     Kind
		message  string
	}{
		{"malformed email", testTenant, "bogus", testPassword, KindValidation, msgInvalidEmail},
		{"unknown user", testTenant, "missing@example.com", testPassword, KindNotFound, msgUserNotFound},
		{"other tenant", otherTenant, "ana@example.com", testPassword, KindNotFound, msgUserNotFound},
		{"wrong password", testTenant, "ana@example.com", "Wr0ng!Pass", KindUnauthorized, msgInvalidCredentials},
		{"empty password", testTenant, "ana@example.com", "", KindUnauthorized, msgInvalidCredentials},
		{"banned", testTenant, "banned@example.com", testPassword, KindUnauthorized, msgAccountBanned},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := f.auth.Login(ctx, tt.tenantID, &dto.LoginRequest{Email: tt.email, Password: tt.password})
			assert.Nil(t, resp)
			requireKind(t, err, tt.kind)
			assert.Equal(t, tt.message, err.(*Error).Message)
		})
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, testTenant, "ana@example.com")
	_, err := f.users.UpdateStatus(ctx, testTenant, "ana@example.com", true, AuditMeta{})
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, testTenant, &dto.LoginRequest{Email: "ana@example.com", Password: testPassword})
	requireKind(t, err, KindUnauthorized)
	assert.Equal(t, msgAccountInactive, err.(*Error).Message)

	// a bad password is reported before the account state
	_, err = f.auth.Login(ctx, testTenant, &dto.LoginRequest{Email: "ana@example.com", Password: "Wr0ng!Pass"})
	requireKind(t, err, KindUnauthorized)
	assert.Equal(t, msgInvalidCredentials, err.(*Error).Message)
}

func TestLoginRoleClaim(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, testTenant, "root@example.com")
	f.createUser(t, testTenant, "staff@example.com")
	require.NoError(t, f.db.Model(&models.User{}).Where("email = ?", "staff@example.com").Update("role", models.RoleAdmin).Error)

	role := func(email string) string {
		t.Helper()
		resp, err := f.auth.Login(ctx, testTenant, &dto.LoginRequest{Email: email, Password: testPassword})
		require.NoError(t, err)
		claims, err := f.tokens.Verify(resp.Token)
		require.NoError(t, err)
		return claims.Role
	}

	assert.Equal(t, models.RoleAdmin, role("staff@example.com"))
	assert.Equal(t, models.RoleUser, role("root@example.com"), "admin email must be verified first")

	require.NoError(t, f.db.Model(&models.User{}).Where("email = ?", "root@example.com").Update("is_email_verified", true).Error)
	assert.Equal(t, models.RoleAdmin, role("root@example.com"))
}
