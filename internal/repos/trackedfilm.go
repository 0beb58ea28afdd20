package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

// TrackedFilmRepo persists the registry rows. Insert is idempotent by
// film_id: an existing row is left untouched and reported as not created.
type TrackedFilmRepo interface {
	Insert(ctx context.Context, film *types.TrackedFilm) (bool, error)
	ListAll(ctx context.Context) ([]*types.TrackedFilm, error)
}

type trackedFilmRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTrackedFilmRepo(db *gorm.DB, baseLog *logger.Logger) TrackedFilmRepo {
	return &trackedFilmRepo{db: db, log: baseLog.With("repo", "TrackedFilmRepo")}
}

func (r *trackedFilmRepo) Insert(ctx context.Context, film *types.TrackedFilm) (bool, error) {
	if r.db == nil {
		return false, nil
	}
	var existing types.TrackedFilm
	res := r.db.WithContext(ctx).
		Where(&types.TrackedFilm{FilmID: film.FilmID}).
		Attrs(&types.TrackedFilm{Title: film.Title, TrailerURL: film.TrailerURL}).
		FirstOrCreate(&existing)
	if res.Error != nil {
		return false, res.Error
	}
	*film = existing
	return res.RowsAffected > 0, nil
}

func (r *trackedFilmRepo) ListAll(ctx context.Context) ([]*types.TrackedFilm, error) {
	results := []*types.TrackedFilm{}
	if r.db == nil {
		return results, nil
	}
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
