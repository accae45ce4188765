// Package storage owns the SQLite handle used by the sqlite-backed
// session archive driver.
package storage

import (
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Divyendra-S/sasha/internal/platform/errors"
)

// Open initializes a SQLite database at the given DSN and migrates
// the archive tables. Parent directories are created for file DSNs.
func Open(dsn string) (*gorm.DB, error) {
	const op = "storage.Open"

	if dsn == "" {
		dsn = filepath.Join("data", "sasha.db")
	}
	if dir := filepath.Dir(dsn); dir != "." && dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrap(errors.KindStorage, op, "failed to create data directory", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(errors.KindStorage, op, "failed to open database", err)
	}

	if err := db.AutoMigrate(&SessionArchive{}); err != nil {
		return nil, errors.Wrap(errors.KindStorage, op, "failed to migrate database", err)
	}
	return db, nil
}
