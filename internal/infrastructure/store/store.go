package store

import (
	"fmt"

	"klinik-sentosa/config"
	"klinik-sentosa/internal/domain/repository"
	"klinik-sentosa/internal/infrastructure/database"

	"github.com/sirupsen/logrus"
)

const (
	DriverREST     = "rest"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// New opens the record store selected by cfg.Store.Driver
func New(cfg *config.Config, log *logrus.Logger) (repository.RecordStore, error) {
	switch cfg.Store.Driver {
	case DriverREST, "":
		log.Infof("Using REST data backend at %s", cfg.Store.BaseURL)
		return NewRESTStore(cfg.Store.BaseURL, cfg.Store.Timeout, log), nil
	case DriverPostgres:
		db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
		if err != nil {
			return nil, err
		}
		return NewGormStore(db), nil
	case DriverMemory:
		log.Warn("Using in-memory data backend, records are lost on exit")
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
