package db

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

type RegistryDBService struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewRegistryDBService opens the relational store backing the tracked-film
// registry. Postgres is used when POSTGRES_HOST is set; otherwise a local
// sqlite file keeps single-node deployments durable without extra infra.
func NewRegistryDBService(log *logger.Logger) (*RegistryDBService, error) {
	serviceLog := log.With("service", "RegistryDBService")

	var (
		dialector gorm.Dialector
		backend   string
	)
	if host := os.Getenv("POSTGRES_HOST"); host != "" {
		port := getenv("POSTGRES_PORT", "5432")
		user := getenv("POSTGRES_USER", "postgres")
		password := os.Getenv("POSTGRES_PASSWORD")
		name := getenv("POSTGRES_NAME", "filmpulse")
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)
		dialector = postgres.Open(dsn)
		backend = "postgres"
	} else {
		path := getenv("REGISTRY_DB_PATH", "filmpulse.db")
		dialector = sqlite.Open(path)
		backend = "sqlite"
	}

	serviceLog.Info("Connecting to registry database", "backend", backend)
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("registry db connect (%s): %w", backend, err)
	}
	return &RegistryDBService{db: db, log: serviceLog}, nil
}

func (s *RegistryDBService) AutoMigrateAll() error {
	if s == nil {
		return nil
	}
	s.log.Info("Auto migrating registry tables...")
	if err := s.db.AutoMigrate(&types.TrackedFilm{}); err != nil {
		return fmt.Errorf("auto migrate tracked_film: %w", err)
	}
	return nil
}

func (s *RegistryDBService) DB() *gorm.DB {
	if s == nil {
		return nil
	}
	return s.db
}

func getenv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
