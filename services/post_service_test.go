package services

import (
	"testing"

	"folio-cms/auth"
	"folio-cms/helper"
	"folio-cms/models"
	"folio-cms/repositories"
	"folio-cms/testutil"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type ContentTestSuite struct {
	suite.Suite
	db         *gorm.DB
	gate       *auth.Gate
	posts      PostService
	categories CategoryService
	projects   ProjectService
	changes    ChangeService
	accounts   AuthService

	admin    auth.Identity
	alice    auth.Identity
	bob      auth.Identity
	category *models.Category
}

func (s *ContentTestSuite) SetupTest() {
	cfg := testutil.Config(s.T())
	s.db = testutil.OpenDB(s.T(), cfg)
	validate, _ := helper.NewValidator()

	userRepo := repositories.NewUserRepository(s.db)
	postRepo := repositories.NewPostRepository(s.db)
	categoryRepo := repositories.NewCategoryRepository(s.db)
	projectRepo := repositories.NewProjectRepository(s.db)
	markerRepo := repositories.NewMarkerRepository(s.db)

	s.gate = auth.NewGate(userRepo, auth.NewTokenIssuer(cfg.Auth))
	s.posts = NewPostService(s.db, postRepo, categoryRepo, markerRepo, s.gate, validate)
	s.categories = NewCategoryService(s.db, categoryRepo, markerRepo, s.gate, validate)
	s.projects = NewProjectService(s.db, projectRepo, markerRepo, s.gate, validate)
	s.changes = NewChangeService(markerRepo)
	s.accounts = NewAuthService(userRepo, s.gate, validate)

	s.admin = auth.FromUser(testutil.CreateUser(s.T(), s.db, "root", true))
	s.alice = auth.FromUser(testutil.CreateUser(s.T(), s.db, "alice", false))
	s.bob = auth.FromUser(testutil.CreateUser(s.T(), s.db, "bob", false))
	s.category = testutil.CreateCategory(s.T(), s.db, "Web", "web")
}

func (s *ContentTestSuite) newPost(actor auth.Identity, slug string, published bool) *models.Post {
	post, err := s.posts.Create(actor, models.CreatePostRequest{
		Title:      "Title " + slug,
		Slug:       slug,
		Content:    "some words here",
		CategoryID: s.category.ID,
		Published:  published,
	})
	s.Require().NoError(err)
	return post
}

func (s *ContentTestSuite) assertValidation(err error) {
	var validation models.ErrorValidation
	s.Require().ErrorAs(err, &validation)
}

func (s *ContentTestSuite) assertNotFound(err error) {
	var notFound models.ErrorNotFound
	s.Require().ErrorAs(err, &notFound)
}

func (s *ContentTestSuite) assertForbidden(err error) {
	var forbidden models.ErrorForbidden
	s.Require().ErrorAs(err, &forbidden)
}

// A signed-up user writes a draft, it stays hidden, then goes public once
// published.
func (s *ContentTestSuite) TestDraftPublishScenario() {
	post, err := s.posts.Create(s.alice, models.CreatePostRequest{
		Title:      "Hi",
		Slug:       "hi",
		Content:    "Hello world",
		CategoryID: s.category.ID,
	})
	s.Require().NoError(err)
	s.False(post.Published)
	s.Equal(s.alice.UserID, post.UserID)
	s.Equal(1, post.ReadTime)

	_, err = s.posts.GetBySlug(auth.Identity{}, "hi")
	s.assertNotFound(err)
	_, err = s.posts.GetBySlug(s.bob, "hi")
	s.assertNotFound(err)

	own, err := s.posts.GetBySlug(s.alice, "hi")
	s.Require().NoError(err)
	s.Equal("Hello world", own.Content)

	list, total, err := s.posts.ListPublished(models.PostListParams{Category: "web", Page: 1, Limit: 10})
	s.Require().NoError(err)
	s.Zero(total)
	s.Empty(list)

	_, err = s.posts.SetPublished(s.alice, post.ID, true)
	s.Require().NoError(err)

	public, err := s.posts.GetBySlug(auth.Identity{}, "hi")
	s.Require().NoError(err)
	s.Equal("alice", public.Author)
	s.Equal("web", public.Category.Slug)

	list, total, err = s.posts.ListPublished(models.PostListParams{Category: "web", Page: 1, Limit: 10})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal("hi", list[0].Slug)
}

func (s *ContentTestSuite) TestAnonymousCannotCreate() {
	_, err := s.posts.Create(auth.Identity{}, models.CreatePostRequest{
		Title: "x", Slug: "x", Content: "x", CategoryID: s.category.ID,
	})
	var unauthorized models.ErrorUnauthorized
	s.ErrorAs(err, &unauthorized)
}

func (s *ContentTestSuite) TestCreateValidatesBeforeWriting() {
	_, err := s.posts.Create(s.alice, models.CreatePostRequest{Title: "No body", CategoryID: s.category.ID})
	s.assertValidation(err)

	_, err = s.posts.Create(s.alice, models.CreatePostRequest{
		Title: "Bad category", Slug: "bad-category", Content: "x", CategoryID: 999,
	})
	s.assertValidation(err)

	_, err = s.posts.Create(s.alice, models.CreatePostRequest{
		Title: "!!!", Slug: "???", Content: "x", CategoryID: s.category.ID,
	})
	s.assertValidation(err)

	count, err := repositories.NewPostRepository(s.db).Count()
	s.Require().NoError(err)
	s.Zero(count)
}

func (s *ContentTestSuite) TestSlugIsRequiredAndNormalised() {
	_, err := s.posts.Create(s.alice, models.CreatePostRequest{
		Title: "Hello, Gophers!", Content: "x", CategoryID: s.category.ID,
	})
	s.assertValidation(err)

	post, err := s.posts.Create(s.alice, models.CreatePostRequest{
		Title: "Other", Slug: "Mixed Case, Slug!", Content: "x", CategoryID: s.category.ID,
	})
	s.Require().NoError(err)
	s.Equal("mixed-case-slug", post.Slug)

	blank := " "
	_, err = s.posts.Update(s.alice, post.ID, models.UpdatePostRequest{Slug: &blank})
	s.assertValidation(err)
}

func (s *ContentTestSuite) TestSlugUniqueOnCreateAndUpdate() {
	s.newPost(s.alice, "taken", false)
	other := s.newPost(s.alice, "free", false)

	_, err := s.posts.Create(s.bob, models.CreatePostRequest{
		Title: "dup", Slug: "taken", Content: "x", CategoryID: s.category.ID,
	})
	s.assertValidation(err)

	slug := "taken"
	_, err = s.posts.Update(s.alice, other.ID, models.UpdatePostRequest{Slug: &slug})
	s.assertValidation(err)

	same := "free"
	_, err = s.posts.Update(s.alice, other.ID, models.UpdatePostRequest{Slug: &same})
	s.NoError(err)
}

func (s *ContentTestSuite) TestOnlyAuthorOrAdminMayEdit() {
	post := s.newPost(s.alice, "mine", false)
	title := "Hijacked"

	_, err := s.posts.Update(s.bob, post.ID, models.UpdatePostRequest{Title: &title})
	s.assertForbidden(err)
	s.assertForbidden(s.posts.Delete(s.bob, post.ID))

	updated, err := s.posts.Update(s.admin, post.ID, models.UpdatePostRequest{Title: &title})
	s.Require().NoError(err)
	s.Equal("Hijacked", updated.Title)
	s.Equal(s.alice.UserID, updated.UserID)
}

func (s *ContentTestSuite) TestUpdateIsPartialAndRefreshesTimestamp() {
	post := s.newPost(s.alice, "partial", false)
	summary := "new summary"

	updated, err := s.posts.Update(s.alice, post.ID, models.UpdatePostRequest{Summary: &summary})
	s.Require().NoError(err)
	s.Equal("new summary", updated.Summary)
	s.Equal(post.Title, updated.Title)
	s.Equal(post.Content, updated.Content)
	s.False(updated.UpdatedAt.Before(post.UpdatedAt))
}

func (s *ContentTestSuite) TestDeleteThenNotFound() {
	post := s.newPost(s.alice, "bye", true)

	s.Require().NoError(s.posts.Delete(s.alice, post.ID))
	s.assertNotFound(s.posts.Delete(s.alice, post.ID))

	_, err := s.posts.GetBySlug(s.admin, "bye")
	s.assertNotFound(err)
}

func (s *ContentTestSuite) TestListManageable() {
	s.newPost(s.alice, "a1", false)
	s.newPost(s.bob, "b1", true)

	own, err := s.posts.ListManageable(s.alice)
	s.Require().NoError(err)
	s.Len(own, 1)

	all, err := s.posts.ListManageable(s.admin)
	s.Require().NoError(err)
	s.Len(all, 2)
}

func (s *ContentTestSuite) TestAutosave() {
	ack, err := s.posts.Autosave(s.alice, models.AutosaveRequest{Title: "unsaved"})
	s.Require().NoError(err)
	s.False(ack.Saved)
	s.Zero(ack.PostID)

	post := s.newPost(s.alice, "auto", false)
	res, err := s.posts.Autosave(s.alice, models.AutosaveRequest{PostID: post.ID, Content: "draft two"})
	s.Require().NoError(err)
	s.True(res.Saved)

	stored, err := s.posts.GetForEdit(s.alice, post.ID)
	s.Require().NoError(err)
	s.Equal("draft two", stored.Content)
	s.Equal(post.Title, stored.Title)

	_, err = s.posts.Autosave(s.bob, models.AutosaveRequest{PostID: post.ID, Content: "nope"})
	s.assertForbidden(err)
}

func (s *ContentTestSuite) TestEstimateReadTime() {
	s.Equal(1, EstimateReadTime(""))
	s.Equal(1, EstimateReadTime("one two three"))

	words := make([]byte, 0, 401*2)
	for i := 0; i < 401; i++ {
		words = append(words, 'w', ' ')
	}
	s.Equal(3, EstimateReadTime(string(words)))
}

func TestContentTestSuite(t *testing.T) {
	suite.Run(t, new(ContentTestSuite))
}
