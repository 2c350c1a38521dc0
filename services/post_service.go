package services

import (
	"errors"
	"strings"
	"time"

	"folio-cms/auth"
	"folio-cms/models"
	"folio-cms/repositories"

	"gopkg.in/go-playground/validator.v9"
	"gorm.io/gorm"
)

type PostService interface {
	ListPublished(params models.PostListParams) ([]models.PostSummary, int64, error)
	ListManageable(actor auth.Identity) ([]models.Post, error)
	GetBySlug(actor auth.Identity, slug string) (*models.PostDetail, error)
	GetForEdit(actor auth.Identity, id uint) (*models.Post, error)
	Create(actor auth.Identity, req models.CreatePostRequest) (*models.Post, error)
	Update(actor auth.Identity, id uint, req models.UpdatePostRequest) (*models.Post, error)
	SetPublished(actor auth.Identity, id uint, published bool) (*models.Post, error)
	Delete(actor auth.Identity, id uint) error
	Autosave(actor auth.Identity, req models.AutosaveRequest) (*models.AutosaveResult, error)
}

type postService struct {
	db           *gorm.DB
	postRepo     repositories.PostRepository
	categoryRepo repositories.CategoryRepository
	markerRepo   repositories.MarkerRepository
	gate         *auth.Gate
	validate     *validator.Validate
}

func NewPostService(
	db *gorm.DB,
	postRepo repositories.PostRepository,
	categoryRepo repositories.CategoryRepository,
	markerRepo repositories.MarkerRepository,
	gate *auth.Gate,
	validate *validator.Validate,
) PostService {
	return &postService{
		db:           db,
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		markerRepo:   markerRepo,
		gate:         gate,
		validate:     validate,
	}
}

func (s *postService) ListPublished(params models.PostListParams) ([]models.PostSummary, int64, error) {
	filter := repositories.PostFilter{
		PublishedOnly: true,
		Page:          params.Page,
		Limit:         params.Limit,
	}

	if params.Category != "" {
		category, err := s.categoryRepo.GetBySlug(params.Category)
		if err != nil {
			return nil, 0, err
		}
		filter.CategoryID = category.ID
	}

	posts, total, err := s.postRepo.GetList(filter)
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]models.PostSummary, 0, len(posts))
	for i := range posts {
		summaries = append(summaries, posts[i].ToSummary())
	}
	return summaries, total, nil
}

// ListManageable returns every post for an administrator and the caller's own
// posts otherwise.
func (s *postService) ListManageable(actor auth.Identity) ([]models.Post, error) {
	actor, err := s.gate.Require(actor, auth.Authenticated)
	if err != nil {
		return nil, err
	}

	filter := repositories.PostFilter{}
	if !actor.IsAdministrator() {
		filter.AuthorID = actor.UserID
	}
	posts, _, err := s.postRepo.GetList(filter)
	return posts, err
}

// GetBySlug hides drafts from everyone but their author and administrators.
func (s *postService) GetBySlug(actor auth.Identity, slug string) (*models.PostDetail, error) {
	post, err := s.postRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if !post.Published && !actor.CanManagePost(post.UserID) {
		return nil, models.NewNotFound("post")
	}
	detail := post.ToDetail()
	return &detail, nil
}

func (s *postService) GetForEdit(actor auth.Identity, id uint) (*models.Post, error) {
	actor, err := s.gate.Require(actor, auth.Authenticated)
	if err != nil {
		return nil, err
	}
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManagePost(post.UserID) {
		return nil, models.NewForbidden("you can only edit your own posts")
	}
	return post, nil
}

func (s *postService) Create(actor auth.Identity, req models.CreatePostRequest) (*models.Post, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}
	postSlug, err := normalizeSlug(req.Slug)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return nil, models.NewValidation("title and content cannot be blank")
	}

	actor, err = s.gate.Require(actor, auth.Authenticated)
	if err != nil {
		return nil, err
	}

	readTime := req.ReadTime
	if readTime <= 0 {
		readTime = EstimateReadTime(req.Content)
	}

	post := &models.Post{
		Title:         strings.TrimSpace(req.Title),
		Slug:          postSlug,
		Content:       req.Content,
		Summary:       strings.TrimSpace(req.Summary),
		FeaturedImage: req.FeaturedImage,
		ReadTime:      readTime,
		Published:     req.Published,
		CategoryID:    req.CategoryID,
		UserID:        actor.UserID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.checkCategory(tx, post.CategoryID); err != nil {
			return err
		}
		if err := s.checkSlug(tx, post.Slug, 0); err != nil {
			return err
		}
		if err := s.postRepo.WithTx(tx).Create(post); err != nil {
			return err
		}
		_, err := s.markerRepo.WithTx(tx).Bump(models.ScopePosts)
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(post.ID)
}

func (s *postService) Update(actor auth.Identity, id uint, req models.UpdatePostRequest) (*models.Post, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}

	var newSlug string
	if req.Slug != nil {
		normalized, err := normalizeSlug(*req.Slug)
		if err != nil {
			return nil, err
		}
		newSlug = normalized
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, models.NewValidation("title cannot be blank")
	}
	if req.Content != nil && strings.TrimSpace(*req.Content) == "" {
		return nil, models.NewValidation("content cannot be blank")
	}

	actor, err := s.gate.Require(actor, auth.Authenticated)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		posts := s.postRepo.WithTx(tx)
		post, err := posts.GetByID(id)
		if err != nil {
			return err
		}
		if !actor.CanManagePost(post.UserID) {
			return models.NewForbidden("you can only edit your own posts")
		}

		if req.Title != nil {
			post.Title = strings.TrimSpace(*req.Title)
		}
		if req.Slug != nil && newSlug != post.Slug {
			if err := s.checkSlug(tx, newSlug, post.ID); err != nil {
				return err
			}
			post.Slug = newSlug
		}
		if req.Content != nil {
			post.Content = *req.Content
		}
		if req.Summary != nil {
			post.Summary = strings.TrimSpace(*req.Summary)
		}
		if req.CategoryID != nil && *req.CategoryID != post.CategoryID {
			if err := s.checkCategory(tx, *req.CategoryID); err != nil {
				return err
			}
			post.CategoryID = *req.CategoryID
			post.Category = models.Category{}
		}
		if req.ReadTime != nil {
			post.ReadTime = *req.ReadTime
			if post.ReadTime <= 0 {
				post.ReadTime = EstimateReadTime(post.Content)
			}
		}
		if req.Published != nil {
			post.Published = *req.Published
		}
		if req.FeaturedImage != nil && *req.FeaturedImage != "" {
			post.FeaturedImage = *req.FeaturedImage
		}

		if err := posts.Update(post); err != nil {
			return err
		}
		_, err = s.markerRepo.WithTx(tx).Bump(models.ScopePosts)
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(id)
}

func (s *postService) SetPublished(actor auth.Identity, id uint, published bool) (*models.Post, error) {
	return s.Update(actor, id, models.UpdatePostRequest{Published: &published})
}

func (s *postService) Delete(actor auth.Identity, id uint) error {
	actor, err := s.gate.Require(actor, auth.Authenticated)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		posts := s.postRepo.WithTx(tx)
		post, err := posts.GetByID(id)
		if err != nil {
			return err
		}
		if !actor.CanManagePost(post.UserID) {
			return models.NewForbidden("you can only delete your own posts")
		}
		if err := posts.Delete(id); err != nil {
			return err
		}
		_, err = s.markerRepo.WithTx(tx).Bump(models.ScopePosts)
		return err
	})
}

// Autosave applies the non-empty fields of an in-progress edit. Drafts that
// were never saved are acknowledged without being stored.
func (s *postService) Autosave(actor auth.Identity, req models.AutosaveRequest) (*models.AutosaveResult, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}
	actor, err := s.gate.Require(actor, auth.Authenticated)
	if err != nil {
		return nil, err
	}

	if req.PostID == 0 {
		return &models.AutosaveResult{
			Saved:   false,
			Message: "Draft kept in the editor; create the post to store it",
		}, nil
	}

	var updatedAt time.Time
	err = s.db.Transaction(func(tx *gorm.DB) error {
		posts := s.postRepo.WithTx(tx)
		post, err := posts.GetByID(req.PostID)
		if err != nil {
			return err
		}
		if !actor.CanManagePost(post.UserID) {
			return models.NewForbidden("you can only autosave your own posts")
		}

		if title := strings.TrimSpace(req.Title); title != "" {
			post.Title = title
		}
		if strings.TrimSpace(req.Content) != "" {
			post.Content = req.Content
		}
		if summary := strings.TrimSpace(req.Summary); summary != "" {
			post.Summary = summary
		}

		if err := posts.Update(post); err != nil {
			return err
		}
		updatedAt = post.UpdatedAt
		_, err = s.markerRepo.WithTx(tx).Bump(models.ScopePosts)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &models.AutosaveResult{
		Saved:     true,
		PostID:    req.PostID,
		Message:   "Draft saved",
		UpdatedAt: updatedAt.UTC().Format(time.RFC3339),
	}, nil
}

func (s *postService) checkSlug(tx *gorm.DB, slug string, excludeID uint) error {
	taken, err := s.postRepo.WithTx(tx).SlugTaken(slug, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return models.NewValidation("slug %q is already used by another post", slug)
	}
	return nil
}

func (s *postService) checkCategory(tx *gorm.DB, categoryID uint) error {
	_, err := s.categoryRepo.WithTx(tx).GetByID(categoryID)
	var notFound models.ErrorNotFound
	if errors.As(err, &notFound) {
		return models.NewValidation("category %d does not exist", categoryID)
	}
	return err
}
