package repositories

import (
	"errors"
	"time"

	"folio-cms/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MarkerRepository interface {
	Bump(scope models.MarkerScope) (*models.ContentMarker, error)
	Latest() (*models.ContentMarker, error)
	WithTx(tx *gorm.DB) MarkerRepository
}

type markerRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewMarkerRepository(db *gorm.DB) MarkerRepository {
	return &markerRepository{db: db, now: time.Now}
}

func (r *markerRepository) WithTx(tx *gorm.DB) MarkerRepository {
	return &markerRepository{db: tx, now: r.now}
}

// Bump advances the marker of one scope. It must run inside the transaction
// of the mutation it records.
func (r *markerRepository) Bump(scope models.MarkerScope) (*models.ContentMarker, error) {
	var marker models.ContentMarker
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("scope = ?", scope).
		First(&marker).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewStorage("read content marker", err)
	}
	marker.Scope = scope

	next := r.now().UTC().Truncate(time.Microsecond)
	if !next.After(marker.UpdatedAt) {
		next = marker.UpdatedAt.Add(time.Microsecond)
	}
	marker.UpdatedAt = next
	marker.Version++

	if err := r.db.Save(&marker).Error; err != nil {
		return nil, models.NewStorage("bump content marker", err)
	}
	return &marker, nil
}

// Latest folds every scope into one marker: the newest timestamp and the sum
// of versions.
func (r *markerRepository) Latest() (*models.ContentMarker, error) {
	var markers []models.ContentMarker
	if err := r.db.Find(&markers).Error; err != nil {
		return nil, models.NewStorage("read content markers", err)
	}

	latest := &models.ContentMarker{}
	for _, m := range markers {
		latest.Version += m.Version
		if m.UpdatedAt.After(latest.UpdatedAt) {
			latest.UpdatedAt = m.UpdatedAt.UTC()
		}
	}
	return latest, nil
}
