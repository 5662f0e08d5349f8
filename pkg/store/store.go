// Package store persists the three memory kinds. The relational backends go
// through gorm (postgres in production, sqlite locally); DB_DRIVER=bolt keeps
// everything in a single bbolt file.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.etcd.io/bbolt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"memories/models"
	"memories/pkg/config"
)

// ErrNotFound is returned by Get and Update for an unknown id.
var ErrNotFound = errors.New("record not found")

// Repository is the storage contract of one kind. T is the record, P its patch document.
type Repository[T any, P models.Patch[T]] interface {
	// List returns every record, newest first. Never nil.
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id uint) (T, error)
	// Create validates p, applies it onto a zero record and assigns id and timestamps.
	Create(ctx context.Context, p P) (T, error)
	// Update merges the supplied fields of p into record id and returns the stored result.
	Update(ctx context.Context, id uint, p P) (T, error)
	// Delete removes id. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id uint) error
	// DeleteAll empties the kind and reports how many records went away.
	DeleteAll(ctx context.Context) (int64, error)
}

type (
	PlaceRepository         = Repository[models.Place, models.PlacePatch]
	TravelIdeaRepository    = Repository[models.TravelIdea, models.TravelIdeaPatch]
	FinancialGoalRepository = Repository[models.FinancialGoal, models.FinancialGoalPatch]
)

// Store bundles the repositories of one backend.
type Store struct {
	Places         PlaceRepository
	TravelIdeas    TravelIdeaRepository
	FinancialGoals FinancialGoalRepository

	driver  string
	migrate func() error
	close   func() error
}

// Driver reports the backend in use.
func (s *Store) Driver() string { return s.driver }

// Migrate creates missing tables (or buckets).
func (s *Store) Migrate() error { return s.migrate() }

func (s *Store) Close() error { return s.close() }

// Open connects to the backend selected by cfg. With AutoMigrate set the schema is
// created before returning.
func Open(cfg config.Database, log zerolog.Logger) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var s *Store
	switch cfg.Driver {
	case config.DriverBolt:
		db, err := bbolt.Open(cfg.Path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
		if err != nil {
			return nil, fmt.Errorf("open bolt %s: %w", cfg.Path, err)
		}
		s = NewBolt(db)
	default:
		var dialector gorm.Dialector
		if cfg.Driver == config.DriverSQLite {
			dialector = sqlite.Open(cfg.Path)
		} else {
			dialector = postgres.Open(cfg.PostgresDSN())
		}
		db, err := gorm.Open(dialector, &gorm.Config{Logger: newGormLogger(log)})
		if err != nil {
			return nil, fmt.Errorf("connect %s database: %w", cfg.Driver, err)
		}
		s = NewGorm(db, log)
	}
	if cfg.AutoMigrate {
		if err := s.Migrate(); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

func newGormLogger(log zerolog.Logger) gormlogger.Interface {
	l := log.With().Str("component", "gorm").Logger()
	return gormlogger.New(&l, gormlogger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}
