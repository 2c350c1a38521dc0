package services

import (
	"strings"
	"time"

	"folio-cms/auth"
	"folio-cms/models"
)

func (s *ContentTestSuite) TestCategoryManagementNeedsAdmin() {
	_, err := s.categories.Create(s.alice, models.CategoryRequest{Name: "Go", Slug: "go"})
	s.assertForbidden(err)

	_, err = s.categories.Create(s.admin, models.CategoryRequest{Name: "No slug"})
	s.assertValidation(err)

	category, err := s.categories.Create(s.admin, models.CategoryRequest{Name: "Go Lang", Slug: "Go Lang", Icon: "gopher"})
	s.Require().NoError(err)
	s.Equal("go-lang", category.Slug)

	_, err = s.categories.Create(s.admin, models.CategoryRequest{Name: "Go Lang", Slug: "other"})
	s.assertValidation(err)
	_, err = s.categories.Create(s.admin, models.CategoryRequest{Name: "Other", Slug: "go-lang"})
	s.assertValidation(err)

	updated, err := s.categories.Update(s.admin, category.ID, models.CategoryRequest{Name: "Golang", Slug: "golang"})
	s.Require().NoError(err)
	s.Equal("golang", updated.Slug)

	s.Require().NoError(s.categories.Delete(s.admin, category.ID))
	s.assertNotFound(s.categories.Delete(s.admin, category.ID))
}

func (s *ContentTestSuite) TestCategoryWithPostsCannotBeDeleted() {
	s.newPost(s.alice, "pinned", true)

	err := s.categories.Delete(s.admin, s.category.ID)
	s.assertValidation(err)
	s.Contains(err.Error(), "1 post")

	_, err = s.categories.GetBySlug("web")
	s.NoError(err)
}

func (s *ContentTestSuite) TestProjects() {
	req := models.ProjectRequest{
		Title:        "Folio",
		Description:  "This site",
		URL:          "https://example.com",
		Technologies: " Go, gin ,, gorm ",
		Image:        "/uploads/a.png",
	}

	_, err := s.projects.Create(s.alice, req)
	s.assertForbidden(err)

	project, err := s.projects.Create(s.admin, req)
	s.Require().NoError(err)
	s.Equal("Go, gin, gorm", project.Technologies)
	s.Equal([]string{"Go", "gin", "gorm"}, project.TechList())

	req.Image = ""
	req.Title = "Folio v2"
	updated, err := s.projects.Update(s.admin, project.ID, req)
	s.Require().NoError(err)
	s.Equal("Folio v2", updated.Title)
	s.Equal("/uploads/a.png", updated.Image)

	req.URL = "not a url"
	_, err = s.projects.Update(s.admin, project.ID, req)
	s.assertValidation(err)

	s.Require().NoError(s.projects.Delete(s.admin, project.ID))
	s.assertNotFound(s.projects.Delete(s.admin, project.ID))
}

func (s *ContentTestSuite) TestChangeProbe() {
	before, err := s.changes.Check(time.Time{})
	s.Require().NoError(err)
	s.True(before.HasUpdates)

	current, err := s.changes.Check(before.LastUpdate)
	s.Require().NoError(err)
	s.False(current.HasUpdates)

	s.newPost(s.alice, "fresh", false)

	after, err := s.changes.Check(before.LastUpdate)
	s.Require().NoError(err)
	s.True(after.HasUpdates)
	s.Greater(after.Version, before.Version)
	s.True(after.LastUpdate.After(before.LastUpdate))
}

func (s *ContentTestSuite) TestFailedMutationDoesNotBumpMarker() {
	before, err := s.changes.Check(time.Time{})
	s.Require().NoError(err)

	_, err = s.posts.Create(s.alice, models.CreatePostRequest{
		Title: "x", Slug: "x", Content: "x", CategoryID: 12345,
	})
	s.assertValidation(err)

	after, err := s.changes.Check(before.LastUpdate)
	s.Require().NoError(err)
	s.False(after.HasUpdates)
	s.Equal(before.Version, after.Version)
}

func (s *ContentTestSuite) TestParseSince() {
	t, err := ParseSince("")
	s.NoError(err)
	s.True(t.IsZero())

	t, err = ParseSince("2024-05-01T10:00:00.123456Z")
	s.NoError(err)
	s.Equal(123456000, t.Nanosecond())

	_, err = ParseSince("yesterday")
	s.assertValidation(err)
}

func (s *ContentTestSuite) TestSignupStoresOnlyHash() {
	user, err := s.accounts.Signup(models.SignupRequest{
		Username: "carol",
		Email:    "Carol@Example.com",
		Password: "s3cret-pass",
		Confirm:  "s3cret-pass",
	})
	s.Require().NoError(err)
	s.NotEqual("s3cret-pass", user.PasswordHash)
	s.NotContains(user.PasswordHash, "s3cret-pass")
	s.Equal("carol@example.com", user.Email)
	s.False(user.IsAdmin)

	_, err = s.accounts.Signup(models.SignupRequest{
		Username: "carol", Email: "other@example.com", Password: "s3cret-pass", Confirm: "s3cret-pass",
	})
	s.assertValidation(err)

	_, err = s.accounts.Signup(models.SignupRequest{
		Username: "dave", Email: "d@example.com", Password: "s3cret-pass", Confirm: "different",
	})
	s.assertValidation(err)
}

func (s *ContentTestSuite) TestPasswordLimitCountsBytes() {
	long := strings.Repeat("€", 40)
	_, err := s.accounts.Signup(models.SignupRequest{
		Username: "erin", Email: "erin@example.com", Password: long, Confirm: long,
	})
	s.assertValidation(err)

	err = s.accounts.ChangePassword(s.alice, models.PasswordChangeRequest{
		CurrentPassword: "password123", NewPassword: long, Confirm: long,
	})
	s.assertValidation(err)
}

func (s *ContentTestSuite) TestLogin() {
	_, err := s.accounts.Login(models.LoginRequest{Username: "alice", Password: "wrong-password"})
	var unauthorized models.ErrorUnauthorized
	s.Require().ErrorAs(err, &unauthorized)

	res, err := s.accounts.Login(models.LoginRequest{Username: "alice@example.com", Password: "password123"})
	s.Require().NoError(err)
	s.NotEmpty(res.SessionToken)
	s.Empty(res.RememberToken)
	s.NotNil(res.User.LastLoginAt)

	res, err = s.accounts.Login(models.LoginRequest{Username: "alice", Password: "password123", Remember: true})
	s.Require().NoError(err)
	s.NotEmpty(res.RememberToken)
	s.True(res.RememberExpires.After(res.SessionExpires))

	resolved := s.gate.ResolveIdentity(auth.Credentials{RememberToken: res.RememberToken})
	s.Equal(s.alice.UserID, resolved.Identity.UserID)
}

func (s *ContentTestSuite) TestAdminFlagToggle() {
	_, err := s.accounts.SetAdmin(s.alice, s.bob.UserID, true)
	s.assertForbidden(err)

	_, err = s.accounts.SetAdmin(s.admin, s.admin.UserID, false)
	s.assertValidation(err)

	promoted, err := s.accounts.SetAdmin(s.admin, s.alice.UserID, true)
	s.Require().NoError(err)
	s.True(promoted.IsAdmin)

	// the stale identity still says "not admin"; the store decides
	_, err = s.categories.Create(s.alice, models.CategoryRequest{Name: "Ops", Slug: "ops"})
	s.NoError(err)

	_, err = s.accounts.SetAdmin(s.alice, s.admin.UserID, false)
	s.Require().NoError(err)
	_, err = s.categories.Create(s.admin, models.CategoryRequest{Name: "Nope", Slug: "nope"})
	s.assertForbidden(err)
}

func (s *ContentTestSuite) TestProfileAndPassword() {
	_, err := s.accounts.UpdateProfile(s.alice, models.ProfileUpdateRequest{Username: "bob", Email: "x@example.com"})
	s.assertValidation(err)

	user, err := s.accounts.UpdateProfile(s.alice, models.ProfileUpdateRequest{Username: "alice2", Email: "alice2@example.com"})
	s.Require().NoError(err)
	s.Equal("alice2", user.Username)

	err = s.accounts.ChangePassword(s.alice, models.PasswordChangeRequest{
		CurrentPassword: "wrong", NewPassword: "brand-new-pass", Confirm: "brand-new-pass",
	})
	s.assertValidation(err)

	s.Require().NoError(s.accounts.ChangePassword(s.alice, models.PasswordChangeRequest{
		CurrentPassword: "password123", NewPassword: "brand-new-pass", Confirm: "brand-new-pass",
	}))
	_, err = s.accounts.Login(models.LoginRequest{Username: "alice2", Password: "brand-new-pass"})
	s.NoError(err)
}
