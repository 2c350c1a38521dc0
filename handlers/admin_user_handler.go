package handlers

import (
	"net/http"

	"folio-cms/helper"
	"folio-cms/middleware"
	"folio-cms/services"

	"github.com/gin-gonic/gin"
)

type AdminUserHandler struct {
	authService      services.AuthService
	dashboardService services.DashboardService
	Helper           *helper.HTTPHelper
}

func NewAdminUserHandler(authService services.AuthService, dashboardService services.DashboardService, h *helper.HTTPHelper) *AdminUserHandler {
	return &AdminUserHandler{authService: authService, dashboardService: dashboardService, Helper: h}
}

func (h *AdminUserHandler) Dashboard(c *gin.Context) {
	stats, err := h.dashboardService.Stats(middleware.CurrentIdentity(c))
	if err != nil {
		renderError(c, h.Helper, err)
		return
	}
	render(c, http.StatusOK, "dashboard.html", gin.H{"Title": "Dashboard", "Stats": stats})
}

func (h *AdminUserHandler) ListUsers(c *gin.Context) {
	users, err := h.authService.ListUsers(middleware.CurrentIdentity(c))
	if err != nil {
		renderError(c, h.Helper, err)
		return
	}
	render(c, http.StatusOK, "users.html", gin.H{"Title": "Users", "Users": users})
}

func (h *AdminUserHandler) SetAdmin(c *gin.Context) {
	id, err := paramID(c, "user")
	if err != nil {
		renderError(c, h.Helper, err)
		return
	}

	isAdmin := c.PostForm("is_admin") == "true"
	if _, err := h.authService.SetAdmin(middleware.CurrentIdentity(c), id, isAdmin); err != nil {
		renderError(c, h.Helper, err)
		return
	}

	redirect(c, "/admin/users")
}
