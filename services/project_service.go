package services

import (
	"folio-cms/auth"
	"folio-cms/models"
	"folio-cms/repositories"

	"gopkg.in/go-playground/validator.v9"
	"gorm.io/gorm"
)

type ProjectService interface {
	List() ([]models.Project, error)
	GetByID(id uint) (*models.Project, error)
	Create(actor auth.Identity, req models.ProjectRequest) (*models.Project, error)
	Update(actor auth.Identity, id uint, req models.ProjectRequest) (*models.Project, error)
	Delete(actor auth.Identity, id uint) error
}

type projectService struct {
	db          *gorm.DB
	projectRepo repositories.ProjectRepository
	markerRepo  repositories.MarkerRepository
	gate        *auth.Gate
	validate    *validator.Validate
}

func NewProjectService(
	db *gorm.DB,
	projectRepo repositories.ProjectRepository,
	markerRepo repositories.MarkerRepository,
	gate *auth.Gate,
	validate *validator.Validate,
) ProjectService {
	return &projectService{
		db:          db,
		projectRepo: projectRepo,
		markerRepo:  markerRepo,
		gate:        gate,
		validate:    validate,
	}
}

func (s *projectService) List() ([]models.Project, error) {
	return s.projectRepo.GetAll()
}

func (s *projectService) GetByID(id uint) (*models.Project, error) {
	return s.projectRepo.GetByID(id)
}

func (s *projectService) Create(actor auth.Identity, req models.ProjectRequest) (*models.Project, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}
	if _, err := s.gate.Require(actor, auth.Administrator); err != nil {
		return nil, err
	}

	project := &models.Project{}
	applyProject(project, req)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.projectRepo.WithTx(tx).Create(project); err != nil {
			return err
		}
		_, err := s.markerRepo.WithTx(tx).Bump(models.ScopeProjects)
		return err
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// Update replaces every field; the image is only replaced when a new one was
// uploaded.
func (s *projectService) Update(actor auth.Identity, id uint, req models.ProjectRequest) (*models.Project, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}
	if _, err := s.gate.Require(actor, auth.Administrator); err != nil {
		return nil, err
	}

	var project *models.Project
	err := s.db.Transaction(func(tx *gorm.DB) error {
		projects := s.projectRepo.WithTx(tx)
		existing, err := projects.GetByID(id)
		if err != nil {
			return err
		}
		applyProject(existing, req)
		if err := projects.Update(existing); err != nil {
			return err
		}
		project = existing
		_, err = s.markerRepo.WithTx(tx).Bump(models.ScopeProjects)
		return err
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) Delete(actor auth.Identity, id uint) error {
	if _, err := s.gate.Require(actor, auth.Administrator); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.projectRepo.WithTx(tx).Delete(id); err != nil {
			return err
		}
		_, err := s.markerRepo.WithTx(tx).Bump(models.ScopeProjects)
		return err
	})
}

func applyProject(project *models.Project, req models.ProjectRequest) {
	project.Title = req.Title
	project.Description = req.Description
	project.URL = req.URL
	project.GithubURL = req.GithubURL
	project.Technologies = models.JoinTechnologies(req.Technologies)
	if req.Image != "" {
		project.Image = req.Image
	}
}
