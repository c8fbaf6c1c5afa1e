package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/mailer"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/security"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/tenant"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testTenant   = "tenant-a"
	otherTenant  = "tenant-b"
	testPassword = "Str0ng!Pass"
	testSecret   = "test-secret"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []mailer.Email
	err  error
}

func (r *recordingSender) Send(_ context.Context, email mailer.Email) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, email)
	return nil
}

func (r *recordingSender) last() mailer.Email {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sent[len(r.sent)-1]
}

type fixture struct {
	db       *gorm.DB
	cfg      *config.Config
	tokens   *security.TokenService
	mail     *recordingSender
	audit    *AuditService
	users    *UserService
	auth     *AuthService
	address  *AddressService
	verify   *EmailVerifyService
	registry *tenant.Registry
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(database.MemoryDSN(uuid.NewString()), logger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	require.NoError(t, database.Migrate(db))
	return db
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)

	cfg := &config.Config{
		JWTSecret:         testSecret,
		JWTExpiration:     time.Hour,
		EmailVerifyExpiry: 20 * time.Minute,
		PublicURL:         "http://localhost:8080",
		AdminEmails:       []string{"root@example.com"},
	}
	tokens, err := security.NewTokenService(cfg.JWTSecret)
	require.NoError(t, err)

	registry := tenant.NewRegistry()
	registry.Register(&tenant.Config{TenantID: testTenant, Name: "Tenant A", PublicURL: "https://a.example.com"})
	registry.Register(&tenant.Config{TenantID: otherTenant, Name: "Tenant B"})

	f := &fixture{db: db, cfg: cfg, tokens: tokens, mail: &recordingSender{}, registry: registry}
	f.audit = NewAuditService(db)
	f.users = NewUserService(db, f.audit)
	f.auth = NewAuthService(f.users, tokens, cfg)
	f.address = NewAddressService(db, f.users)
	f.verify = NewEmailVerifyService(db, f.users, tokens, f.mail, registry, cfg)
	return f
}

func validUser(email string) *dto.CreateUserRequest {
	return &dto.CreateUserRequest{
		Name:     "Ana",
		LastName: "Silveira",
		Email:    email,
		Password: testPassword,
	}
}

func (f *fixture) createUser(t *testing.T, tenantID, email string) {
	t.Helper()
	require.NoError(t, f.users.Create(context.Background(), tenantID, validUser(email)))
}

func strPtr(s string) *string {
	return &s
}

func requireKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equalf(t, kind, KindOf(err), "unexpected error: %v", err)
}
