package services

import (
	"folio-cms/auth"
	"folio-cms/models"
	"folio-cms/repositories"
)

type DashboardStats struct {
	Posts       int64
	Categories  int64
	Projects    int64
	Users       int64
	RecentPosts []models.Post
}

const recentPostLimit = 5

type DashboardService interface {
	Stats(actor auth.Identity) (*DashboardStats, error)
}

type dashboardService struct {
	userRepo     repositories.UserRepository
	postRepo     repositories.PostRepository
	categoryRepo repositories.CategoryRepository
	projectRepo  repositories.ProjectRepository
	gate         *auth.Gate
}

func NewDashboardService(
	userRepo repositories.UserRepository,
	postRepo repositories.PostRepository,
	categoryRepo repositories.CategoryRepository,
	projectRepo repositories.ProjectRepository,
	gate *auth.Gate,
) DashboardService {
	return &dashboardService{
		userRepo:     userRepo,
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		projectRepo:  projectRepo,
		gate:         gate,
	}
}

// Stats counts site content. Ordinary users only see their own posts in the
// recent list and the post count.
func (s *dashboardService) Stats(actor auth.Identity) (*DashboardStats, error) {
	actor, err := s.gate.Require(actor, auth.Authenticated)
	if err != nil {
		return nil, err
	}

	filter := repositories.PostFilter{Page: 1, Limit: recentPostLimit}
	if !actor.IsAdministrator() {
		filter.AuthorID = actor.UserID
	}
	recent, postCount, err := s.postRepo.GetList(filter)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{Posts: postCount, RecentPosts: recent}
	if stats.Categories, err = s.categoryRepo.Count(); err != nil {
		return nil, err
	}
	if stats.Projects, err = s.projectRepo.Count(); err != nil {
		return nil, err
	}
	if actor.IsAdministrator() {
		if stats.Users, err = s.userRepo.Count(); err != nil {
			return nil, err
		}
	}
	return stats, nil
}
