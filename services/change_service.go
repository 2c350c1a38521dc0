package services

import (
	"strings"
	"time"

	"folio-cms/models"
	"folio-cms/repositories"
)

// ChangeService answers "has anything changed since I last looked" for
// clients that poll instead of reloading.
type ChangeService interface {
	Check(since time.Time) (*models.ChangeStatus, error)
	Latest() (*models.ContentMarker, error)
}

type changeService struct {
	markerRepo repositories.MarkerRepository
}

func NewChangeService(markerRepo repositories.MarkerRepository) ChangeService {
	return &changeService{markerRepo: markerRepo}
}

// Check reports updates when the stored marker is strictly newer than since.
// A zero since always reports updates.
func (s *changeService) Check(since time.Time) (*models.ChangeStatus, error) {
	latest, err := s.markerRepo.Latest()
	if err != nil {
		return nil, err
	}
	return &models.ChangeStatus{
		HasUpdates: latest.UpdatedAt.After(since),
		LastUpdate: latest.UpdatedAt,
		Version:    latest.Version,
	}, nil
}

func (s *changeService) Latest() (*models.ContentMarker, error) {
	return s.markerRepo.Latest()
}

// ParseSince accepts RFC 3339 (with or without fractional seconds) or an HTTP
// date. Blank input is the zero time.
func ParseSince(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC1123, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, models.NewValidation("since %q is not a valid timestamp", raw)
}
