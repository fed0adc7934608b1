package logging

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"crm-backend/internal/models"
)

func newLogDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.SystemLog{}))
	return db
}

func TestDBHandlerOnlyErrors(t *testing.T) {
	h := NewDBHandler(newLogDB(t))
	defer h.Stop()

	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, h.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}

func TestDBHandlerPersistsRecords(t *testing.T) {
	db := newLogDB(t)
	h := NewDBHandler(db)

	record := slog.NewRecord(time.Now(), slog.LevelError, "registration failed", 0)
	record.AddAttrs(
		slog.String("request_id", "req-123"),
		slog.String("user_id", "user-456"),
		slog.String("action", "register"),
		slog.String("error", "smtp timeout"),
		slog.Int("attempt", 3),
	)
	require.NoError(t, h.Handle(context.Background(), record))

	// Stop triggers a final flush from the background loop.
	h.Stop()
	time.Sleep(50 * time.Millisecond)

	var entries []models.SystemLog
	require.NoError(t, db.Find(&entries).Error)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "registration failed", entry.Message)
	assert.Equal(t, "req-123", entry.RequestID)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, "user-456", *entry.UserID)
	assert.Equal(t, "register", entry.Action)
	assert.Equal(t, "smtp timeout", entry.Error)
	assert.Contains(t, string(entry.Extra), "attempt")
}

func TestMultiHandlerFanout(t *testing.T) {
	db := newLogDB(t)
	dbHandler := NewDBHandler(db)

	var textBuf testWriter
	multi := NewMultiHandler(
		slog.NewTextHandler(&textBuf, &slog.HandlerOptions{Level: slog.LevelInfo}),
		dbHandler,
	)
	log := slog.New(multi)

	log.Info("just info")
	log.Error("boom", "error", "it broke")

	dbHandler.Stop()
	time.Sleep(50 * time.Millisecond)

	// INFO goes to the text sink only; ERROR reaches both.
	out := textBuf.String()
	assert.Contains(t, out, "just info")
	assert.Contains(t, out, "boom")

	var count int64
	require.NoError(t, db.Model(&models.SystemLog{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

type testWriter struct {
	data []byte
}

func (w *testWriter) Write(p []byte) (int, error) {
	w.data = append(w.data, p...)
	return len(p), nil
}

func (w *testWriter) String() string { return string(w.data) }
