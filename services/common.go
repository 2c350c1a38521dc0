package services

import (
	"math"
	"strings"

	"folio-cms/models"

	"github.com/gosimple/slug"
	"gopkg.in/go-playground/validator.v9"
)

const wordsPerMinute = 200

func validateRequest(v *validator.Validate, req interface{}) error {
	if err := v.Struct(req); err != nil {
		return models.ErrorValidation{Message: "invalid input", Err: err}
	}
	return nil
}

// normalizeSlug turns user input into a URL-safe slug, or fails when nothing
// usable is left.
func normalizeSlug(raw string) (string, error) {
	s := slug.Make(strings.TrimSpace(raw))
	if s == "" || !slug.IsSlug(s) {
		return "", models.NewValidation("slug %q must contain letters or digits", raw)
	}
	return s, nil
}

// EstimateReadTime returns whole minutes at 200 words per minute, never less
// than one.
func EstimateReadTime(content string) int {
	words := len(strings.Fields(content))
	minutes := int(math.Ceil(float64(words) / wordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}
