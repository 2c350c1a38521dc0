package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"folio-cms/helper"
	"folio-cms/middleware"
	"folio-cms/models"

	"github.com/gin-gonic/gin"
)

// render adds the values every page layout needs.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Identity"] = middleware.CurrentIdentity(c)
	c.HTML(status, name, data)
}

func renderError(c *gin.Context, h *helper.HTTPHelper, err error) {
	status := h.GetStatusCode(err)
	render(c, status, "error.html", gin.H{
		"Title":   http.StatusText(status),
		"Status":  status,
		"Message": h.Describe(err),
	})
}

// renderFormError shows a form again with the error that stopped it.
func renderFormError(c *gin.Context, h *helper.HTTPHelper, name, title string, err error, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	data["Error"] = h.Describe(err)
	render(c, h.GetStatusCode(err), name, data)
}

// bindError marks a request that could not be decoded as bad input.
func bindError(err error) error {
	return models.ErrorValidation{Message: "invalid form input", Err: err}
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}

// safeNext only follows local paths after login.
func safeNext(next, fallback string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return fallback
	}
	if u, err := url.Parse(next); err != nil || u.Host != "" {
		return fallback
	}
	return next
}

func paramID(c *gin.Context, resource string) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, models.NewNotFound(resource)
	}
	return uint(id), nil
}
