package repositories

import (
	"folio-cms/models"

	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(category *models.Category) error
	GetByID(id uint) (*models.Category, error)
	GetBySlug(slug string) (*models.Category, error)
	GetAll() ([]models.Category, error)
	Update(category *models.Category) error
	Delete(id uint) error
	SlugTaken(slug string, excludeID uint) (bool, error)
	NameTaken(name string, excludeID uint) (bool, error)
	CountPosts(categoryID uint) (int64, error)
	Count() (int64, error)
	WithTx(tx *gorm.DB) CategoryRepository
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) WithTx(tx *gorm.DB) CategoryRepository {
	return &categoryRepository{db: tx}
}

func (r *categoryRepository) Create(category *models.Category) error {
	return translate("create category", "category", r.db.Create(category).Error)
}

func (r *categoryRepository) GetByID(id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, id).Error; err != nil {
		return nil, translate("get category", "category", err)
	}
	return &category, nil
}

func (r *categoryRepository) GetBySlug(slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, translate("get category", "category", err)
	}
	return &category, nil
}

func (r *categoryRepository) GetAll() ([]models.Category, error) {
	var categories []models.Category
	err := r.db.Order("name asc").Find(&categories).Error
	return categories, translate("list categories", "category", err)
}

func (r *categoryRepository) Update(category *models.Category) error {
	return translate("update category", "category", r.db.Omit("Posts").Save(category).Error)
}

func (r *categoryRepository) Delete(id uint) error {
	return deleted("delete category", "category", r.db.Delete(&models.Category{}, id))
}

func (r *categoryRepository) SlugTaken(slug string, excludeID uint) (bool, error) {
	return exists(r.db.Model(&models.Category{}).
		Where("slug = ? AND id <> ?", slug, excludeID), "check category slug")
}

func (r *categoryRepository) NameTaken(name string, excludeID uint) (bool, error) {
	return exists(r.db.Model(&models.Category{}).
		Where("name = ? AND id <> ?", name, excludeID), "check category name")
}

func (r *categoryRepository) CountPosts(categoryID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, translate("count category posts", "category", err)
}

func (r *categoryRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Category{}).Count(&count).Error
	return count, translate("count categories", "category", err)
}
