package storage

import (
	"io"
	"strings"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/raykavin/chartspec/pkg/core"
	"github.com/raykavin/chartspec/pkg/logger"
)

const sqlitePrefix = "sqlite:"

// Storage is an order storage owning a database handle
type Storage interface {
	core.OrderStorage
	io.Closer
}

var (
	_ Storage = (*BuntStorage)(nil)
	_ Storage = (*SQLStorage)(nil)
)

// Open opens the storage named by target: "sqlite:<file>" for a SQLite
// database, anything else is a BuntDB file. SQL errors reach the caller, the
// gorm query logger is silenced.
func Open(target string, log logger.Logger) (Storage, error) {
	if file, ok := strings.CutPrefix(target, sqlitePrefix); ok {
		storage, err := FromSQLite(file, &gorm.Config{Logger: gormlogger.Discard})
		if err != nil {
			return nil, err
		}
		return storage, nil
	}

	storage, err := FromFile(target, log)
	if err != nil {
		return nil, err
	}
	return storage, nil
}
