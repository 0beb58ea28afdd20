package types

import (
	"time"
)

// TrackedFilm is one row in the relational registry of films under active
// tracking. Registration is idempotent by FilmID: a later registration with a
// different title or trailer URL does not update the stored row.
type TrackedFilm struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	FilmID     string    `gorm:"column:film_id;uniqueIndex;not null" json:"film_id"`
	Title      string    `gorm:"column:title;not null" json:"title"`
	TrailerURL string    `gorm:"column:trailer_url" json:"trailer_url"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

func (TrackedFilm) TableName() string {
	return "tracked_film"
}
