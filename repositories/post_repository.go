package repositories

import (
	"folio-cms/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxListLimit = 100

// PostFilter narrows a post listing. Zero values mean "no filter"; a zero
// Limit returns every matching row.
type PostFilter struct {
	PublishedOnly bool
	CategoryID    uint
	AuthorID      uint
	Page          int
	Limit         int
}

type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id uint) (*models.Post, error)
	GetBySlug(slug string) (*models.Post, error)
	GetList(filter PostFilter) ([]models.Post, int64, error)
	Update(post *models.Post) error
	Delete(id uint) error
	SlugTaken(slug string, excludeID uint) (bool, error)
	Count() (int64, error)
	WithTx(tx *gorm.DB) PostRepository
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) WithTx(tx *gorm.DB) PostRepository {
	return &postRepository{db: tx}
}

func (r *postRepository) Create(post *models.Post) error {
	return translate("create post", "post", r.db.Omit(clause.Associations).Create(post).Error)
}

func (r *postRepository) GetByID(id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.Preload("Category").
		Preload("Author").
		First(&post, id).Error
	if err != nil {
		return nil, translate("get post", "post", err)
	}
	return &post, nil
}

func (r *postRepository) GetBySlug(slug string) (*models.Post, error) {
	var post models.Post
	err := r.db.Preload("Category").
		Preload("Author").
		Where("slug = ?", slug).
		First(&post).Error
	if err != nil {
		return nil, translate("get post", "post", err)
	}
	return &post, nil
}

func (r *postRepository) GetList(filter PostFilter) ([]models.Post, int64, error) {
	var posts []models.Post
	var total int64

	query := r.db.Model(&models.Post{})

	if filter.PublishedOnly {
		query = query.Where("posts.published = ?", true)
	}
	if filter.CategoryID > 0 {
		query = query.Where("posts.category_id = ?", filter.CategoryID)
	}
	if filter.AuthorID > 0 {
		query = query.Where("posts.user_id = ?", filter.AuthorID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate("count posts", "post", err)
	}

	query = query.Preload("Category").
		Preload("Author").
		Order("posts.created_at desc").
		Order("posts.id desc")

	if filter.Limit > 0 {
		limit := filter.Limit
		if limit > maxListLimit {
			limit = maxListLimit
		}
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * limit).Limit(limit)
	}

	if err := query.Find(&posts).Error; err != nil {
		return nil, 0, translate("list posts", "post", err)
	}
	return posts, total, nil
}

func (r *postRepository) Update(post *models.Post) error {
	return translate("update post", "post", r.db.Omit(clause.Associations).Save(post).Error)
}

func (r *postRepository) Delete(id uint) error {
	return deleted("delete post", "post", r.db.Delete(&models.Post{}, id))
}

func (r *postRepository) SlugTaken(slug string, excludeID uint) (bool, error) {
	return exists(r.db.Model(&models.Post{}).
		Where("slug = ? AND id <> ?", slug, excludeID), "check post slug")
}

func (r *postRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Count(&count).Error
	return count, translate("count posts", "post", err)
}
