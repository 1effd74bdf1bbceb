package controller

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/ikkim/fictionhub-backend/internal/app/model"
)

var registerOnce sync.Once

// RegisterValidators installs the custom binding tags on gin's validator engine
// and reports JSON field names in validation errors. Safe to call repeatedly.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		_ = v.RegisterValidation("reaction", validateReactionType)
	})
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "" || name == "-" {
		return field.Name
	}
	return name
}

// validateReactionType accepts "like" or "dislike"
func validateReactionType(fl validator.FieldLevel) bool {
	_, ok := model.ParseReactionType(fl.Field().String())
	return ok
}
