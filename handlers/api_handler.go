package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"folio-cms/helper"
	"folio-cms/middleware"
	"folio-cms/models"
	"folio-cms/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// APIHandler serves the read-only JSON API used by the public front-end.
type APIHandler struct {
	postService     services.PostService
	categoryService services.CategoryService
	projectService  services.ProjectService
	changeService   services.ChangeService
	db              *gorm.DB
	Helper          *helper.HTTPHelper
}

func NewAPIHandler(
	postService services.PostService,
	categoryService services.CategoryService,
	projectService services.ProjectService,
	changeService services.ChangeService,
	db *gorm.DB,
	h *helper.HTTPHelper,
) *APIHandler {
	return &APIHandler{
		postService:     postService,
		categoryService: categoryService,
		projectService:  projectService,
		changeService:   changeService,
		db:              db,
		Helper:          h,
	}
}

func (h *APIHandler) GetCategories(c *gin.Context) {
	categories, err := h.categoryService.List()
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Categories retrieved", categories)
}

func (h *APIHandler) GetCategoryPosts(c *gin.Context) {
	category, err := h.categoryService.GetBySlug(c.Param("slug"))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	params := models.PostListParams{Page: 1, Limit: 10}
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, "Invalid query parameters", err.Error())
		return
	}
	params.Category = category.Slug
	normalizePaging(&params)

	posts, total, err := h.postService.ListPublished(params)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Posts retrieved", gin.H{
		"category": category,
		"posts":    posts,
		"paging":   h.Helper.GeneratePaging(c, params.Limit, params.Page, int(total)),
	})
}

func (h *APIHandler) GetPosts(c *gin.Context) {
	params := models.PostListParams{Page: 1, Limit: 10}
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, "Invalid query parameters", err.Error())
		return
	}
	normalizePaging(&params)

	posts, total, err := h.postService.ListPublished(params)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Posts retrieved", gin.H{
		"posts":  posts,
		"paging": h.Helper.GeneratePaging(c, params.Limit, params.Page, int(total)),
	})
}

func (h *APIHandler) GetPost(c *gin.Context) {
	post, err := h.postService.GetBySlug(middleware.CurrentIdentity(c), c.Param("slug"))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Post retrieved", post)
}

func (h *APIHandler) GetProjects(c *gin.Context) {
	projects, err := h.projectService.List()
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Projects retrieved", projects)
}

// CheckUpdates answers the polling probe. The client timestamp comes from the
// query string on GET and from the JSON body on POST. The ETag carries the
// content version; a matching If-None-Match gets a bare 304, as does an
// If-Modified-Since that is not older than the full-precision marker.
func (h *APIHandler) CheckUpdates(c *gin.Context) {
	var req models.ChangeProbeRequest
	if c.Request.Method == http.MethodPost && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.Helper.SendBadRequest(c, "Invalid request body", err.Error())
			return
		}
	} else {
		req.Since = c.Query("since")
	}

	since, err := services.ParseSince(req.Since)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	status, err := h.changeService.Check(since)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	if notModified(c, status) {
		c.Status(http.StatusNotModified)
		return
	}

	h.Helper.SendSuccess(c, "Change status", status)
}

// notModified sets the validators for status and reports whether the request's
// conditional headers already match it. Last-Modified only has second
// precision, so it never decides a 304 on its own truncated value.
func notModified(c *gin.Context, status *models.ChangeStatus) bool {
	etag := `"` + strconv.FormatUint(status.Version, 10) + `"`
	c.Header("ETag", etag)
	if status.LastUpdate.IsZero() {
		return false
	}
	c.Header("Last-Modified", status.LastUpdate.UTC().Truncate(time.Second).Format(http.TimeFormat))

	if inm := c.GetHeader("If-None-Match"); inm != "" {
		for _, candidate := range strings.Split(inm, ",") {
			if candidate = strings.TrimSpace(candidate); candidate == etag || candidate == "*" {
				return true
			}
		}
		return false
	}

	ims, err := http.ParseTime(c.GetHeader("If-Modified-Since"))
	return err == nil && !status.LastUpdate.After(ims)
}

func (h *APIHandler) Status(c *gin.Context) {
	latest, err := h.changeService.Latest()
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "API is running", gin.H{
		"status":          "online",
		"content_version": latest.Version,
		"last_update":     latest.UpdatedAt,
		"server_time":     time.Now().UTC(),
	})
}

func (h *APIHandler) Health(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": "unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "database": "connected"})
}

func normalizePaging(params *models.PostListParams) {
	if params.Page < 1 {
		params.Page = 1
	}
	switch {
	case params.Limit < 1:
		params.Limit = 10
	case params.Limit > 100:
		params.Limit = 100
	}
}
