package logging

import (
	"io"
	"log/slog"
	"os"

	"gorm.io/gorm"
)

// Setup installs a JSON logger on stdout as the slog default. Request fields
// stored with WithFields are added to every record.
func Setup() {
	slog.SetDefault(slog.New(NewContextHandler(stdoutHandler(os.Stdout))))
}

// SetupWithDB additionally persists ERROR+ records through a PGHandler. The
// returned handler must be stopped on shutdown so buffered rows are flushed.
func SetupWithDB(db *gorm.DB) *PGHandler {
	stdout := stdoutHandler(os.Stdout)
	pg := NewPGHandler(db, slog.New(stdout))
	slog.SetDefault(slog.New(NewContextHandler(NewMultiHandler(stdout, pg))))
	return pg
}

func stdoutHandler(w io.Writer) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
}
