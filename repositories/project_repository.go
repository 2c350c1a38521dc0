package repositories

import (
	"folio-cms/models"

	"gorm.io/gorm"
)

type ProjectRepository interface {
	Create(project *models.Project) error
	GetByID(id uint) (*models.Project, error)
	GetAll() ([]models.Project, error)
	Update(project *models.Project) error
	Delete(id uint) error
	Count() (int64, error)
	WithTx(tx *gorm.DB) ProjectRepository
}

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) WithTx(tx *gorm.DB) ProjectRepository {
	return &projectRepository{db: tx}
}

func (r *projectRepository) Create(project *models.Project) error {
	return translate("create project", "project", r.db.Create(project).Error)
}

func (r *projectRepository) GetByID(id uint) (*models.Project, error) {
	var project models.Project
	if err := r.db.First(&project, id).Error; err != nil {
		return nil, translate("get project", "project", err)
	}
	return &project, nil
}

func (r *projectRepository) GetAll() ([]models.Project, error) {
	var projects []models.Project
	err := r.db.Order("created_at desc").Order("id desc").Find(&projects).Error
	return projects, translate("list projects", "project", err)
}

func (r *projectRepository) Update(project *models.Project) error {
	return translate("update project", "project", r.db.Save(project).Error)
}

func (r *projectRepository) Delete(id uint) error {
	return deleted("delete project", "project", r.db.Delete(&models.Project{}, id))
}

func (r *projectRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Project{}).Count(&count).Error
	return count, translate("count projects", "project", err)
}
