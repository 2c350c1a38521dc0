package handlers

import (
	"net/http"

	"folio-cms/helper"
	"folio-cms/middleware"
	"folio-cms/models"
	"folio-cms/services"

	"github.com/gin-gonic/gin"
)

type AdminCategoryHandler struct {
	categoryService services.CategoryService
	Helper          *helper.HTTPHelper
}

func NewAdminCategoryHandler(categoryService services.CategoryService, h *helper.HTTPHelper) *AdminCategoryHandler {
	return &AdminCategoryHandler{categoryService: categoryService, Helper: h}
}

func (h *AdminCategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.List()
	if err != nil {
		renderError(c, h.Helper, err)
		return
	}
	render(c, http.StatusOK, "categories.html", gin.H{"Title": "Categories", "Categories": categories})
}

func (h *AdminCategoryHandler) NewCategory(c *gin.Context) {
	render(c, http.StatusOK, "category_form.html", gin.H{"Title": "New category", "Form": models.CategoryRequest{}})
}

func (h *AdminCategoryHandler) CreateCategory(c *gin.Context) {
	var req models.CategoryRequest
	if err := c.ShouldBind(&req); err != nil {
		renderFormError(c, h.Helper, "category_form.html", "New category", bindError(err), gin.H{"Form": req})
		return
	}

	if _, err := h.categoryService.Create(middleware.CurrentIdentity(c), req); err != nil {
		renderFormError(c, h.Helper, "category_form.html", "New category", err, gin.H{"Form": req})
		return
	}

	redirect(c, "/admin/categories")
}

func (h *AdminCategoryHandler) EditCategory(c *gin.Context) {
	id, err := paramID(c, "category")
	if err != nil {
		renderError(c, h.Helper, err)
		return
	}

	category, err := h.categoryService.GetByID(id)
	if err != nil {
		renderError(c, h.Helper, err)
		return
	}
	render(c, http.StatusOK, "category_form.html", gin.H{
		"Title": "Edit category",
		"ID":    category.ID,
		"Form":  models.CategoryRequest{Name: category.Name, Slug: category.Slug, Icon: category.Icon},
	})
}

func (h *AdminCategoryHandler) UpdateCategory(c *gin.Context) {
	id, err := paramID(c, "category")
	if err != nil {
		renderError(c, h.Helper, err)
		return
	}

	var req models.CategoryRequest
	if err := c.ShouldBind(&req); err != nil {
		renderFormError(c, h.Helper, "category_form.html", "Edit category", bindError(err), gin.H{"Form": req, "ID": id})
		return
	}

	if _, err := h.categoryService.Update(middleware.CurrentIdentity(c), id, req); err != nil {
		renderFormError(c, h.Helper, "category_form.html", "Edit category", err, gin.H{"Form": req, "ID": id})
		return
	}

	redirect(c, "/admin/categories")
}

func (h *AdminCategoryHandler) DeleteCategory(c *gin.Context) {
	id, err := paramID(c, "category")
	if err != nil {
		renderError(c, h.Helper, err)
		return
	}

	if err := h.categoryService.Delete(middleware.CurrentIdentity(c), id); err != nil {
		renderError(c, h.Helper, err)
		return
	}

	redirect(c, "/admin/categories")
}
