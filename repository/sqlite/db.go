// Package sqlite stores the household in a single SQLite file through gorm.
// It suits one-host deployments that do not run Postgres.
package sqlite

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/homeharmony/backend/domain"
)

// Open opens (and migrates) the SQLite database at dsn.
func Open(dsn string, log *zap.Logger) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "data/homeharmony.db"
	}
	if log == nil {
		log = zap.NewNop()
	}
	if err := ensureDir(dsn); err != nil {
		return nil, err
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(
			zap.NewStdLog(log.Named("gorm")),
			gormlogger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.AutoMigrate(&memberModel{}, &taskModel{}, &itemModel{}); err != nil {
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}

	log.Info("sqlite store ready", zap.String("dsn", dsn))
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func ensureDir(dsn string) error {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	clean := strings.Split(strings.TrimPrefix(dsn, "file:"), "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}

func translate(err error, notFound *domain.Error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.WrapError(domain.ErrCodeConflict, "duplicate record", err)
	}
	return err
}
