package factory

import (
	"fmt"

	"github.com/mikey/drug-checker/internal/adapters/storage"
	"github.com/mikey/drug-checker/internal/config"
	"github.com/mikey/drug-checker/internal/core"
	"go.uber.org/zap"
)

// StorageFactory creates stores based on configuration
type StorageFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStorageFactory creates a new storage factory
func NewStorageFactory(cfg *config.Config, logger *zap.Logger) *StorageFactory {
	return &StorageFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateStore creates the medication, history and cache store based on the
// configuration
func (f *StorageFactory) CreateStore() (core.Store, error) {
	storageCfg := f.cfg.GetStorage()
	f.logger.Debug("Opening store", zap.String("type", storageCfg.Type))

	switch storageCfg.Type {
	case "json":
		return storage.NewJSONStore(storageCfg.DataDir, f.logger)
	case "sqlite":
		return storage.NewSQLiteStore(storageCfg.SQLitePath, f.logger)
	case "mysql":
		return storage.NewMySQLStore(storageCfg.MySQLDSN, f.logger)
	case "memory":
		return storage.NewMemoryStore(f.logger), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageCfg.Type)
	}
}

// ExportDir returns the directory history exports are written to
func (f *StorageFactory) ExportDir() string {
	return f.cfg.GetStorage().DataDir
}
