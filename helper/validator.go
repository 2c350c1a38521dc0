package helper

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"gopkg.in/go-playground/validator.v9"
	en_translations "gopkg.in/go-playground/validator.v9/translations/en"
)

// NewValidator builds the validator shared by every service together with the
// English translator used to render its messages.
func NewValidator() (*validator.Validate, ut.Translator) {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")

	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		panic(err)
	}

	return validate, trans
}

// NewHTTPHelper returns a helper wired with a fresh validator and translator.
func NewHTTPHelper() *HTTPHelper {
	validate, trans := NewValidator()
	return &HTTPHelper{Validate: validate, Translator: trans}
}

// TranslateValidation flattens validator errors into field -> messages.
func TranslateValidation(errs validator.ValidationErrors, trans ut.Translator) map[string][]string {
	out := map[string][]string{}
	translated := errs.Translate(trans)
	for _, err := range errs {
		key := err.Field()
		out[key] = append(out[key], translated[err.Namespace()])
	}
	return out
}
