package services

import (
	"folio-cms/auth"
	"folio-cms/repositories"
)

func (s *ContentTestSuite) dashboard() DashboardService {
	return NewDashboardService(
		repositories.NewUserRepository(s.db),
		repositories.NewPostRepository(s.db),
		repositories.NewCategoryRepository(s.db),
		repositories.NewProjectRepository(s.db),
		s.gate,
	)
}

func (s *ContentTestSuite) TestDashboardStats() {
	s.newPost(s.alice, "d1", false)
	s.newPost(s.bob, "d2", true)

	stats, err := s.dashboard().Stats(s.admin)
	s.Require().NoError(err)
	s.Equal(int64(2), stats.Posts)
	s.Equal(int64(3), stats.Users)
	s.Equal(int64(1), stats.Categories)
	s.Len(stats.RecentPosts, 2)

	own, err := s.dashboard().Stats(s.alice)
	s.Require().NoError(err)
	s.Equal(int64(1), own.Posts)
	s.Zero(own.Users)

	_, err = s.dashboard().Stats(auth.Identity{})
	s.Error(err)
}
