package repositories

import (
	"errors"

	"folio-cms/models"

	"gorm.io/gorm"
)

// translate maps gorm errors onto the domain error types so nothing raw
// crosses the repository boundary. Unique index violations surface as
// validation errors; they only happen when a concurrent write slips past the
// service's own uniqueness check.
func translate(op, resource string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFound(resource)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.ErrorValidation{Message: resource + " conflicts with an existing one", Err: err}
	}
	return models.NewStorage(op, err)
}

func deleted(op, resource string, result *gorm.DB) error {
	if result.Error != nil {
		return models.NewStorage(op, result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFound(resource)
	}
	return nil
}

func exists(query *gorm.DB, op string) (bool, error) {
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, models.NewStorage(op, err)
	}
	return count > 0, nil
}
