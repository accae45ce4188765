package store

import (
	"gorm.io/gorm"

	"github.com/Divyendra-S/sasha/internal/platform/errors"
)

// Driver identifiers supported by the session archive.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Dependencies captures external handles required by certain drivers.
type Dependencies struct {
	SQLiteDB *gorm.DB
}

// New creates a session archive store based on the provided
// configuration.
func New(cfg Config, deps Dependencies) (Store, error) {
	const op = "store.New"

	driver := cfg.Driver
	if driver == "" {
		driver = DriverMemory
	}

	switch driver {
	case DriverMemory:
		return NewMemory(cfg), nil
	case DriverSQLite:
		if deps.SQLiteDB == nil {
			return nil, errors.New(errors.KindStorage, op, "sqlite driver requires database handle")
		}
		return NewSQLite(deps.SQLiteDB, cfg)
	case DriverRedis:
		return NewRedis(cfg)
	default:
		return nil, errors.New(errors.KindStorage, op, "unsupported session store driver: "+driver)
	}
}
