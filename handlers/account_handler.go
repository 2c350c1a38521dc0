package handlers

import (
	"net/http"

	"folio-cms/config"
	"folio-cms/helper"
	"folio-cms/middleware"
	"folio-cms/models"
	"folio-cms/services"

	"github.com/gin-gonic/gin"
)

// AccountHandler serves signup, login and the signed-in user's own account
// pages.
type AccountHandler struct {
	authService services.AuthService
	authConfig  config.AuthConfig
	Helper      *helper.HTTPHelper
}

func NewAccountHandler(authService services.AuthService, authConfig config.AuthConfig, h *helper.HTTPHelper) *AccountHandler {
	return &AccountHandler{authService: authService, authConfig: authConfig, Helper: h}
}

func (h *AccountHandler) SignupForm(c *gin.Context) {
	render(c, http.StatusOK, "signup.html", gin.H{"Title": "Sign up"})
}

func (h *AccountHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderForm(c, "signup.html", "Sign up", bindError(err), gin.H{"Form": req})
		return
	}

	if _, err := h.authService.Signup(req); err != nil {
		h.renderForm(c, "signup.html", "Sign up", err, gin.H{"Form": req})
		return
	}

	redirect(c, "/login?registered=1")
}

func (h *AccountHandler) LoginForm(c *gin.Context) {
	if middleware.CurrentIdentity(c).IsAuthenticated() {
		redirect(c, "/admin")
		return
	}
	render(c, http.StatusOK, "login.html", gin.H{
		"Title":      "Log in",
		"Next":       c.Query("next"),
		"Registered": c.Query("registered") != "",
	})
}

func (h *AccountHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	next := c.PostForm("next")
	if err := c.ShouldBind(&req); err != nil {
		h.renderForm(c, "login.html", "Log in", bindError(err), gin.H{"Form": req, "Next": next})
		return
	}

	result, err := h.authService.Login(req)
	if err != nil {
		req.Password = ""
		h.renderForm(c, "login.html", "Log in", err, gin.H{"Form": req, "Next": next})
		return
	}

	middleware.SetAuthCookie(c, h.authConfig, middleware.SessionCookie, result.SessionToken, result.SessionExpires)
	if result.RememberToken != "" {
		middleware.SetAuthCookie(c, h.authConfig, middleware.RememberCookie, result.RememberToken, result.RememberExpires)
	}

	redirect(c, safeNext(next, "/admin"))
}

func (h *AccountHandler) Logout(c *gin.Context) {
	middleware.ClearAuthCookies(c, h.authConfig)
	redirect(c, "/login")
}

func (h *AccountHandler) ProfileForm(c *gin.Context) {
	user, err := h.authService.GetUserByID(middleware.CurrentIdentity(c).UserID)
	if err != nil {
		renderError(c, h.Helper, err)
		return
	}
	render(c, http.StatusOK, "profile.html", gin.H{
		"Title":   "Profile",
		"Form":    models.ProfileUpdateRequest{Username: user.Username, Email: user.Email},
		"Updated": c.Query("updated") != "",
	})
}

func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	var req models.ProfileUpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderForm(c, "profile.html", "Profile", bindError(err), gin.H{"Form": req})
		return
	}

	if _, err := h.authService.UpdateProfile(middleware.CurrentIdentity(c), req); err != nil {
		h.renderForm(c, "profile.html", "Profile", err, gin.H{"Form": req})
		return
	}

	redirect(c, "/account/profile?updated=1")
}

func (h *AccountHandler) PasswordForm(c *gin.Context) {
	render(c, http.StatusOK, "password.html", gin.H{
		"Title":   "Change password",
		"Updated": c.Query("updated") != "",
	})
}

func (h *AccountHandler) ChangePassword(c *gin.Context) {
	var req models.PasswordChangeRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderForm(c, "password.html", "Change password", bindError(err), nil)
		return
	}

	if err := h.authService.ChangePassword(middleware.CurrentIdentity(c), req); err != nil {
		h.renderForm(c, "password.html", "Change password", err, nil)
		return
	}

	redirect(c, "/account/password?updated=1")
}

func (h *AccountHandler) renderForm(c *gin.Context, name, title string, err error, data gin.H) {
	renderFormError(c, h.Helper, name, title, err, data)
}
