package repositories

import (
	"folio-cms/models"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetAll() ([]models.User, error)
	Update(user *models.User) error
	UsernameTaken(username string, excludeID uint) (bool, error)
	EmailTaken(email string, excludeID uint) (bool, error)
	Count() (int64, error)
	WithTx(tx *gorm.DB) UserRepository
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) WithTx(tx *gorm.DB) UserRepository {
	return &userRepository{db: tx}
}

func (r *userRepository) Create(user *models.User) error {
	return translate("create user", "user", r.db.Create(user).Error)
}

func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, translate("get user", "user", err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate("get user", "user", err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate("get user", "user", err)
	}
	return &user, nil
}

func (r *userRepository) GetAll() ([]models.User, error) {
	var users []models.User
	err := r.db.Order("created_at asc").Find(&users).Error
	return users, translate("list users", "user", err)
}

func (r *userRepository) Update(user *models.User) error {
	return translate("update user", "user", r.db.Omit("Posts").Save(user).Error)
}

// Soft-deleted rows still hold their unique keys, so the checks are unscoped.
func (r *userRepository) UsernameTaken(username string, excludeID uint) (bool, error) {
	return exists(r.db.Unscoped().Model(&models.User{}).
		Where("username = ? AND id <> ?", username, excludeID), "check username")
}

func (r *userRepository) EmailTaken(email string, excludeID uint) (bool, error) {
	return exists(r.db.Unscoped().Model(&models.User{}).
		Where("email = ? AND id <> ?", email, excludeID), "check email")
}

func (r *userRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, translate("count users", "user", err)
}
