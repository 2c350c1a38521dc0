package handlers

import (
	"net/http"

	"folio-cms/helper"
	"folio-cms/middleware"
	"folio-cms/models"
	"folio-cms/services"

	"github.com/gin-gonic/gin"
)

type AdminProjectHandler struct {
	projectService services.ProjectService
	uploadService  services.UploadService
	Helper         *helper.HTTPHelper
}

func NewAdminProjectHandler(projectService services.ProjectService, uploadService services.UploadService, h *helper.HTTPHelper) *AdminProjectHandler {
	return &AdminProjectHandler{projectService: projectService, uploadService: uploadService, Helper: h}
}

func (h *AdminProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.projectService.List()
	if err != nil {
		renderError(c, h.Helper, err)
		return
	}
	render(c, http.StatusOK, "projects.html", gin.H{"Title": "Projects", "Projects": projects})
}

func (h *AdminProjectHandler) NewProject(c *gin.Context) {
	render(c, http.StatusOK, "project_form.html", gin.H{"Title": "New project", "Form": models.ProjectRequest{}})
}

func (h *AdminProjectHandler) CreateProject(c *gin.Context) {
	req, err := h.bind(c)
	if err != nil {
		renderFormError(c, h.Helper, "project_form.html", "New project", err, gin.H{"Form": req})
		return
	}

	if _, err := h.projectService.Create(middleware.CurrentIdentity(c), req); err != nil {
		renderFormError(c, h.Helper, "project_form.html", "New project", err, gin.H{"Form": req})
		return
	}

	redirect(c, "/admin/projects")
}

func (h *AdminProjectHandler) EditProject(c *gin.Context) {
	id, err := paramID(c, "project")
	if err != nil {
		renderError(c, h.Helper, err)
		return
	}

	project, err := h.projectService.GetByID(id)
	if err != nil {
		renderError(c, h.Helper, err)
		return
	}
	render(c, http.StatusOK, "project_form.html", gin.H{
		"Title": "Edit project",
		"ID":    project.ID,
		"Image": project.Image,
		"Form": models.ProjectRequest{
			Title:        project.Title,
			Description:  project.Description,
			URL:          project.URL,
			GithubURL:    project.GithubURL,
			Technologies: project.Technologies,
		},
	})
}

func (h *AdminProjectHandler) UpdateProject(c *gin.Context) {
	id, err := paramID(c, "project")
	if err != nil {
		renderError(c, h.Helper, err)
		return
	}

	req, err := h.bind(c)
	if err != nil {
		renderFormError(c, h.Helper, "project_form.html", "Edit project", err, gin.H{"Form": req, "ID": id})
		return
	}

	if _, err := h.projectService.Update(middleware.CurrentIdentity(c), id, req); err != nil {
		renderFormError(c, h.Helper, "project_form.html", "Edit project", err, gin.H{"Form": req, "ID": id})
		return
	}

	redirect(c, "/admin/projects")
}

func (h *AdminProjectHandler) DeleteProject(c *gin.Context) {
	id, err := paramID(c, "project")
	if err != nil {
		renderError(c, h.Helper, err)
		return
	}

	if err := h.projectService.Delete(middleware.CurrentIdentity(c), id); err != nil {
		renderError(c, h.Helper, err)
		return
	}

	redirect(c, "/admin/projects")
}

func (h *AdminProjectHandler) bind(c *gin.Context) (models.ProjectRequest, error) {
	var req models.ProjectRequest
	if err := c.ShouldBind(&req); err != nil {
		return req, bindError(err)
	}
	image, err := saveUpload(c, h.uploadService, "image")
	if err != nil {
		return req, err
	}
	req.Image = image
	return req, nil
}
