package store

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"memories/models"
)

// NewGorm wraps an open gorm connection.
func NewGorm(db *gorm.DB, log zerolog.Logger) *Store {
	return &Store{
		Places:         &gormRepo[models.Place, models.PlacePatch]{db: db},
		TravelIdeas:    &gormRepo[models.TravelIdea, models.TravelIdeaPatch]{db: db},
		FinancialGoals: &gormRepo[models.FinancialGoal, models.FinancialGoalPatch]{db: db},
		driver:         db.Dialector.Name(),
		migrate: func() error {
			// one table at a time so a failure on one doesn't block the others
			var failed error
			for _, m := range []any{&models.Place{}, &models.TravelIdea{}, &models.FinancialGoal{}} {
				if err := db.AutoMigrate(m); err != nil {
					log.Warn().Err(err).Type("model", m).Msg("migration warning")
					failed = errors.Join(failed, err)
				}
			}
			return failed
		},
		close: func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

type gormRepo[T any, P models.Patch[T]] struct {
	db *gorm.DB
}

func (r *gormRepo[T, P]) List(ctx context.Context) ([]T, error) {
	items := []T{}
	if err := r.db.WithContext(ctx).Order("created_at desc").Order("id desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *gormRepo[T, P]) Get(ctx context.Context, id uint) (T, error) {
	return first[T](r.db.WithContext(ctx), id)
}

func (r *gormRepo[T, P]) Create(ctx context.Context, p P) (T, error) {
	var rec T
	if err := p.Validate(true); err != nil {
		return rec, err
	}
	p.Apply(&rec)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return rec, err
	}
	return rec, nil
}

func (r *gormRepo[T, P]) Update(ctx context.Context, id uint, p P) (T, error) {
	var rec T
	if err := p.Validate(false); err != nil {
		return rec, err
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cur, err := first[T](tx, id)
		if err != nil {
			return err
		}
		if cols := p.Columns(); len(cols) > 0 {
			if err := tx.Model(&cur).Updates(cols).Error; err != nil {
				return err
			}
		}
		rec, err = first[T](tx, id)
		return err
	})
	return rec, err
}

func (r *gormRepo[T, P]) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(new(T), id).Error
}

func (r *gormRepo[T, P]) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Where("1 = 1").Delete(new(T))
	return res.RowsAffected, res.Error
}

func first[T any](db *gorm.DB, id uint) (T, error) {
	var rec T
	if err := db.First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rec, ErrNotFound
		}
		return rec, err
	}
	return rec, nil
}
