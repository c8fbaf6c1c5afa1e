package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(database.MemoryDSN(uuid.NewString()), logger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestContextHandlerAddsFields(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewContextHandler(stdoutHandler(&buf)))

	ctx := WithFields(context.Background(), Fields{RequestID: "req-1", TenantID: "tenant-a"})
	log.InfoContext(ctx, "hello", "tenant_id", "explicit")

	out := decode(t, &buf)
	assert.Equal(t, "req-1", out["request_id"])
	assert.Equal(t, "explicit", out["tenant_id"])
	assert.NotContains(t, out, "user_id")
}

func TestContextHandlerWithoutFields(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewContextHandler(stdoutHandler(&buf)))

	log.Info("plain")
	out := decode(t, &buf)
	assert.Equal(t, "plain", out["msg"])
	assert.NotContains(t, out, "request_id")
}

func TestMultiHandlerRespectsLevels(t *testing.T) {
	var info, debug bytes.Buffer
	h := NewMultiHandler(
		slog.NewJSONHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)
	log := slog.New(h).With("component", "test")

	log.Debug("only debug")
	assert.Zero(t, info.Len())
	assert.NotZero(t, debug.Len())

	debug.Reset()
	log.Info("both")
	assert.Equal(t, "test", decode(t, &info)["component"])
	assert.Equal(t, "test", decode(t, &debug)["component"])
}

func TestPGHandlerPersistsErrors(t *testing.T) {
	db := newTestDB(t)
	var fallback bytes.Buffer
	pg := NewPGHandler(db, slog.New(stdoutHandler(&fallback)))

	log := slog.New(NewContextHandler(pg)).With("component", "users")
	ctx := WithFields(context.Background(), Fields{RequestID: "req-9", TenantID: "tenant-a", UserID: "u-1"})

	log.WarnContext(ctx, "ignored")
	log.ErrorContext(ctx, "user.create failed", "action", "user.create", "error", errors.New("boom"))
	pg.Stop()

	var rows []models.SystemLog
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, "ERROR", row.Level)
	assert.Equal(t, "user.create failed", row.Message)
	assert.Equal(t, "tenant-a", row.TenantID)
	assert.Equal(t, "req-9", row.RequestID)
	require.NotNil(t, row.UserID)
	assert.Equal(t, "u-1", *row.UserID)
	assert.Equal(t, "user.create", row.Action)
	assert.Equal(t, "boom", row.Error)
	assert.JSONEq(t, `{"component":"users"}`, string(row.Extra))
	assert.Zero(t, fallback.Len())
}

func TestPGHandlerStopIsIdempotent(t *testing.T) {
	pg := NewPGHandler(newTestDB(t), slog.Default())
	pg.Stop()
	assert.NotPanics(t, pg.Stop)
}

func TestPGHandlerAfterStopUsesFallback(t *testing.T) {
	db := newTestDB(t)
	var fallback bytes.Buffer
	pg := NewPGHandler(db, slog.New(stdoutHandler(&fallback)))
	pg.Stop()

	slog.New(pg).Error("late failure", "action", "shutdown")

	var count int64
	require.NoError(t, db.Model(&models.SystemLog{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Empty(t, pg.buffer)

	out := decode(t, &fallback)
	assert.Equal(t, "system log dropped after shutdown", out["msg"])
	assert.Equal(t, "late failure", out["message"])
	assert.Equal(t, "shutdown", out["action"])
}

func TestPurgeSystemLogs(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()
	require.NoError(t, db.Create(&[]models.SystemLog{
		{ID: uuid.New(), Timestamp: now.Add(-40 * 24 * time.Hour), Level: "ERROR", Message: "old"},
		{ID: uuid.New(), Timestamp: now.Add(-time.Hour), Level: "ERROR", Message: "recent"},
	}).Error)

	deleted := purgeSystemLogs(db, now.Add(-30*24*time.Hour))
	assert.Equal(t, int64(1), deleted)

	var remaining []models.SystemLog
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "recent", remaining[0].Message)
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error {
	return errors.New("sink down")
}

func TestMultiHandlerContinuesAfterFailure(t *testing.T) {
	var buf bytes.Buffer
	failing := failingHandler{stdoutHandler(io.Discard)}
	h := NewMultiHandler(failing, stdoutHandler(&buf))

	err := h.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "still delivered", 0))
	assert.EqualError(t, err, "sink down")
	assert.Equal(t, "still delivered", decode(t, &buf)["msg"])
}
