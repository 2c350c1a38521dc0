package handlers

import (
	"errors"
	"net/http"

	"folio-cms/helper"
	"folio-cms/middleware"
	"folio-cms/models"
	"folio-cms/services"

	"github.com/gin-gonic/gin"
)

// AdminPostHandler serves the post management pages. Ordinary users reach
// them for their own posts.
type AdminPostHandler struct {
	postService     services.PostService
	categoryService services.CategoryService
	uploadService   services.UploadService
	Helper          *helper.HTTPHelper
}

func NewAdminPostHandler(
	postService services.PostService,
	categoryService services.CategoryService,
	uploadService services.UploadService,
	h *helper.HTTPHelper,
) *AdminPostHandler {
	return &AdminPostHandler{
		postService:     postService,
		categoryService: categoryService,
		uploadService:   uploadService,
		Helper:          h,
	}
}

// postForm is what the post editor shows, whether it came from the store or
// from a rejected submission.
type postForm struct {
	ID            uint
	Title         string
	Slug          string
	Content       string
	Summary       string
	CategoryID    uint
	ReadTime      int
	Published     bool
	FeaturedImage string
}

func formFromPost(p *models.Post) postForm {
	return postForm{
		ID:            p.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		Content:       p.Content,
		Summary:       p.Summary,
		CategoryID:    p.CategoryID,
		ReadTime:      p.ReadTime,
		Published:     p.Published,
		FeaturedImage: p.FeaturedImage,
	}
}

func formFromRequest(id uint, req models.CreatePostRequest) postForm {
	return postForm{
		ID:            id,
		Title:         req.Title,
		Slug:          req.Slug,
		Content:       req.Content,
		Summary:       req.Summary,
		CategoryID:    req.CategoryID,
		ReadTime:      req.ReadTime,
		Published:     req.Published,
		FeaturedImage: req.FeaturedImage,
	}
}

func (h *AdminPostHandler) ListPosts(c *gin.Context) {
	posts, err := h.postService.ListManageable(middleware.CurrentIdentity(c))
	if err != nil {
		renderError(c, h.Helper, err)
		return
	}
	render(c, http.StatusOK, "posts.html", gin.H{"Title": "Posts", "Posts": posts})
}

func (h *AdminPostHandler) NewPost(c *gin.Context) {
	h.renderEditor(c, http.StatusOK, postForm{}, nil)
}

func (h *AdminPostHandler) CreatePost(c *gin.Context) {
	var req models.CreatePostRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderEditor(c, 0, formFromRequest(0, req), bindError(err))
		return
	}

	image, err := saveUpload(c, h.uploadService, "featured_image")
	if err != nil {
		h.renderEditor(c, 0, formFromRequest(0, req), err)
		return
	}
	req.FeaturedImage = image

	if _, err := h.postService.Create(middleware.CurrentIdentity(c), req); err != nil {
		h.renderEditor(c, 0, formFromRequest(0, req), err)
		return
	}

	redirect(c, "/admin/posts")
}

func (h *AdminPostHandler) EditPost(c *gin.Context) {
	id, err := paramID(c, "post")
	if err != nil {
		renderError(c, h.Helper, err)
		return
	}

	post, err := h.postService.GetForEdit(middleware.CurrentIdentity(c), id)
	if err != nil {
		renderError(c, h.Helper, err)
		return
	}
	h.renderEditor(c, http.StatusOK, formFromPost(post), nil)
}

// UpdatePost takes the full editor form and applies it as a patch of every
// field. The featured image is only replaced when a new file was sent.
func (h *AdminPostHandler) UpdatePost(c *gin.Context) {
	id, err := paramID(c, "post")
	if err != nil {
		renderError(c, h.Helper, err)
		return
	}

	var req models.CreatePostRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderEditor(c, 0, formFromRequest(id, req), bindError(err))
		return
	}

	image, err := saveUpload(c, h.uploadService, "featured_image")
	if err != nil {
		h.renderEditor(c, 0, formFromRequest(id, req), err)
		return
	}

	patch := models.UpdatePostRequest{
		Title:      &req.Title,
		Slug:       &req.Slug,
		Content:    &req.Content,
		Summary:    &req.Summary,
		CategoryID: &req.CategoryID,
		ReadTime:   &req.ReadTime,
		Published:  &req.Published,
	}
	if image != "" {
		patch.FeaturedImage = &image
	}

	if _, err := h.postService.Update(middleware.CurrentIdentity(c), id, patch); err != nil {
		h.renderEditor(c, 0, formFromRequest(id, req), err)
		return
	}

	redirect(c, "/admin/posts")
}

func (h *AdminPostHandler) PublishPost(c *gin.Context) {
	id, err := paramID(c, "post")
	if err != nil {
		renderError(c, h.Helper, err)
		return
	}

	published := c.PostForm("published") == "true"
	if _, err := h.postService.SetPublished(middleware.CurrentIdentity(c), id, published); err != nil {
		renderError(c, h.Helper, err)
		return
	}

	redirect(c, "/admin/posts")
}

func (h *AdminPostHandler) DeletePost(c *gin.Context) {
	id, err := paramID(c, "post")
	if err != nil {
		renderError(c, h.Helper, err)
		return
	}

	if err := h.postService.Delete(middleware.CurrentIdentity(c), id); err != nil {
		renderError(c, h.Helper, err)
		return
	}

	redirect(c, "/admin/posts")
}

// Autosave is called by the editor script in the background and always
// answers JSON.
func (h *AdminPostHandler) Autosave(c *gin.Context) {
	var req models.AutosaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, "Invalid request body", err.Error())
		return
	}

	result, err := h.postService.Autosave(middleware.CurrentIdentity(c), req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, result.Message, result)
}

// renderEditor shows the post form. A zero status is taken from err.
func (h *AdminPostHandler) renderEditor(c *gin.Context, status int, form postForm, err error) {
	categories, catErr := h.categoryService.List()
	if catErr != nil {
		renderError(c, h.Helper, catErr)
		return
	}

	title := "New post"
	if form.ID != 0 {
		title = "Edit post"
	}
	data := gin.H{
		"Title":      title,
		"Form":       form,
		"Categories": categories,
	}
	if err != nil {
		data["Error"] = h.Helper.Describe(err)
		if status == 0 {
			status = h.Helper.GetStatusCode(err)
		}
	}
	render(c, status, "post_form.html", data)
}

// saveUpload stores the optional file sent in field and returns its public
// path, or "" when no file was chosen.
func saveUpload(c *gin.Context, uploads services.UploadService, field string) (string, error) {
	file, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", nil
	}
	if err != nil {
		return "", bindError(err)
	}
	if file.Filename == "" {
		return "", nil
	}
	return uploads.SaveImage(file)
}
