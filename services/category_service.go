package services

import (
	"strings"

	"folio-cms/auth"
	"folio-cms/models"
	"folio-cms/repositories"

	"gopkg.in/go-playground/validator.v9"
	"gorm.io/gorm"
)

type CategoryService interface {
	List() ([]models.Category, error)
	GetBySlug(slug string) (*models.Category, error)
	GetByID(id uint) (*models.Category, error)
	Create(actor auth.Identity, req models.CategoryRequest) (*models.Category, error)
	Update(actor auth.Identity, id uint, req models.CategoryRequest) (*models.Category, error)
	Delete(actor auth.Identity, id uint) error
}

type categoryService struct {
	db           *gorm.DB
	categoryRepo repositories.CategoryRepository
	markerRepo   repositories.MarkerRepository
	gate         *auth.Gate
	validate     *validator.Validate
}

func NewCategoryService(
	db *gorm.DB,
	categoryRepo repositories.CategoryRepository,
	markerRepo repositories.MarkerRepository,
	gate *auth.Gate,
	validate *validator.Validate,
) CategoryService {
	return &categoryService{
		db:           db,
		categoryRepo: categoryRepo,
		markerRepo:   markerRepo,
		gate:         gate,
		validate:     validate,
	}
}

func (s *categoryService) List() ([]models.Category, error) {
	return s.categoryRepo.GetAll()
}

func (s *categoryService) GetBySlug(slug string) (*models.Category, error) {
	return s.categoryRepo.GetBySlug(slug)
}

func (s *categoryService) GetByID(id uint) (*models.Category, error) {
	return s.categoryRepo.GetByID(id)
}

func (s *categoryService) Create(actor auth.Identity, req models.CategoryRequest) (*models.Category, error) {
	category, err := s.prepare(req)
	if err != nil {
		return nil, err
	}
	if _, err := s.gate.Require(actor, auth.Administrator); err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		categories := s.categoryRepo.WithTx(tx)
		if err := s.checkUnique(categories, category, 0); err != nil {
			return err
		}
		if err := categories.Create(category); err != nil {
			return err
		}
		_, err := s.markerRepo.WithTx(tx).Bump(models.ScopeCategories)
		return err
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Update(actor auth.Identity, id uint, req models.CategoryRequest) (*models.Category, error) {
	changes, err := s.prepare(req)
	if err != nil {
		return nil, err
	}
	if _, err := s.gate.Require(actor, auth.Administrator); err != nil {
		return nil, err
	}

	var category *models.Category
	err = s.db.Transaction(func(tx *gorm.DB) error {
		categories := s.categoryRepo.WithTx(tx)
		existing, err := categories.GetByID(id)
		if err != nil {
			return err
		}
		if err := s.checkUnique(categories, changes, id); err != nil {
			return err
		}

		existing.Name = changes.Name
		existing.Slug = changes.Slug
		existing.Icon = changes.Icon
		if err := categories.Update(existing); err != nil {
			return err
		}
		category = existing
		_, err = s.markerRepo.WithTx(tx).Bump(models.ScopeCategories)
		return err
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// Delete refuses to remove a category that still has posts.
func (s *categoryService) Delete(actor auth.Identity, id uint) error {
	if _, err := s.gate.Require(actor, auth.Administrator); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		categories := s.categoryRepo.WithTx(tx)
		category, err := categories.GetByID(id)
		if err != nil {
			return err
		}
		count, err := categories.CountPosts(id)
		if err != nil {
			return err
		}
		if count > 0 {
			return models.NewValidation("category %q still has %d post(s); move or delete them first", category.Name, count)
		}
		if err := categories.Delete(id); err != nil {
			return err
		}
		_, err = s.markerRepo.WithTx(tx).Bump(models.ScopeCategories)
		return err
	})
}

func (s *categoryService) prepare(req models.CategoryRequest) (*models.Category, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, models.NewValidation("name cannot be blank")
	}
	categorySlug, err := normalizeSlug(req.Slug)
	if err != nil {
		return nil, err
	}
	return &models.Category{
		Name: name,
		Slug: categorySlug,
		Icon: strings.TrimSpace(req.Icon),
	}, nil
}

func (s *categoryService) checkUnique(categories repositories.CategoryRepository, category *models.Category, excludeID uint) error {
	taken, err := categories.NameTaken(category.Name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return models.NewValidation("category name %q is already in use", category.Name)
	}

	taken, err = categories.SlugTaken(category.Slug, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return models.NewValidation("category slug %q is already in use", category.Slug)
	}
	return nil
}
