package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"klinik-sentosa/config"
	"klinik-sentosa/internal/delivery/dto"
	"klinik-sentosa/internal/domain/entity"
	domainRepo "klinik-sentosa/internal/domain/repository"
	"klinik-sentosa/internal/infrastructure/database"
	"klinik-sentosa/internal/infrastructure/store"
	"klinik-sentosa/internal/repository"
	"klinik-sentosa/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// =============================================================================
// Migrate
// =============================================================================

// Migrate creates the six clinic tables and the users table in PostgreSQL
func Migrate(ctx context.Context) error {
	cfg, log, err := Load()
	if err != nil {
		return err
	}

	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
	if err != nil {
		return err
	}
	gormStore := store.NewGormStore(db)
	defer gormStore.Close()

	if err := gormStore.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	log.Info("Migration complete")
	return nil
}

// =============================================================================
// Seed
// =============================================================================

type seedUser struct {
	username string
	name     string
	role     string
}

var seedUsers = []seedUser{
	{username: "admin", name: "Admin Pendaftaran", role: entity.RoleAdmin},
	{username: "doctor", name: "dr. Budi Santoso", role: entity.RoleDoctor},
	{username: "pharmacy", name: "Apoteker Sinta", role: entity.RolePharmacy},
}

const seedPassword = "123"

var seedMedicines = []dto.CreateMedicineRequest{
	{Name: "Paracetamol 500mg", Unit: "tablet", Price: decimal.NewFromInt(2000), Stock: 200},
	{Name: "Amoxicillin 500mg", Unit: "kapsul", Price: decimal.NewFromInt(3500), Stock: 120},
	{Name: "Antasida Doen", Unit: "tablet", Price: decimal.NewFromInt(1000), Stock: 80},
	{Name: "Vitamin C 500mg", Unit: "tablet", Price: decimal.NewFromInt(1500), Stock: 150},
	{Name: "OBH Sirup", Unit: "botol", Price: decimal.NewFromInt(15000), Stock: 6},
}

// Seed writes the staff accounts and a starter medicine list. Records that
// already exist are left alone, so running it twice is harmless.
func Seed(ctx context.Context) error {
	cfg, log, err := Load()
	if err != nil {
		return err
	}

	recordStore, err := store.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open record store: %w", err)
	}
	defer closeStore(recordStore)

	if err := seedStaff(ctx, log, recordStore); err != nil {
		return err
	}
	return seedInventory(ctx, cfg, log, recordStore)
}

func seedStaff(ctx context.Context, log *logrus.Logger, recordStore domainRepo.RecordStore) error {
	// CreateUser needs neither sessions nor tokens
	auth := usecase.NewAuthUsecase(log, repository.NewUserRepository(recordStore), nil, nil)

	for _, u := range seedUsers {
		_, err := auth.CreateUser(ctx, u.username, seedPassword, u.name, u.role)
		switch {
		case errors.Is(err, usecase.ErrUsernameExists):
			log.Infof("User %s already exists, skipping", u.username)
		case err != nil:
			return fmt.Errorf("failed to seed user %s: %w", u.username, err)
		default:
			log.Infof("Seeded user %s (%s)", u.username, u.role)
		}
	}
	return nil
}

func seedInventory(ctx context.Context, cfg *config.Config, log *logrus.Logger, recordStore domainRepo.RecordStore) error {
	mirror := newMirror(cfg, log, recordStore)
	if err := mirror.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to read current data: %w", err)
	}

	medicines := usecase.NewMedicineUsecase(log, repository.NewMedicineRepository(recordStore), mirror, nil, nil, cfg.Inventory.LowStockThreshold)
	existing, err := medicines.GetAll(ctx, "")
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(existing.Medicines))
	for _, m := range existing.Medicines {
		known[strings.ToLower(m.Name)] = true
	}

	for i := range seedMedicines {
		req := seedMedicines[i]
		if known[strings.ToLower(req.Name)] {
			log.Infof("Medicine %s already exists, skipping", req.Name)
			continue
		}
		if _, err := medicines.Create(ctx, &req); err != nil {
			return fmt.Errorf("failed to seed medicine %s: %w", req.Name, err)
		}
		log.Infof("Seeded medicine %s", req.Name)
	}
	return nil
}

// =============================================================================
// Datastore
// =============================================================================

// ServeDatastore runs the REST data backend the rest driver talks to. Records
// live in PostgreSQL when STORE_DRIVER=postgres and in memory otherwise.
func ServeDatastore() error {
	cfg, log, err := Load()
	if err != nil {
		return err
	}

	var backend domainRepo.RecordStore
	if cfg.Store.Driver == store.DriverPostgres {
		db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
		if err != nil {
			return err
		}
		backend = store.NewGormStore(db)
	} else {
		log.Warn("Datastore keeps records in memory, they are lost on exit")
		backend = store.NewMemoryStore()
	}
	defer closeStore(backend)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Store.DatastorePort),
		Handler:           store.NewRESTHandler(backend, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Datastore listening on port %s", cfg.Store.DatastorePort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start datastore: %v", err)
		}
	}()

	waitForShutdown(srv)
	log.Info("Datastore shutdown complete")
	return nil
}
