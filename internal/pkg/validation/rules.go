package validation

import (
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/coursehub/internal/pkg/filestorage"
)

// VideoExtensions is the allow-list for lesson video uploads
var VideoExtensions = []string{"mp4", "mov", "avi", "mkv"}

// RegisterRules installs the custom tags used by request DTOs and reports fields by their json or form name
func RegisterRules(v *validator.Validate) error {
	v.RegisterTagNameFunc(fieldName)
	if err := v.RegisterValidation("decimal2", validateTwoDecimals); err != nil {
		return err
	}
	return v.RegisterValidation("notblank", validateNotBlank)
}

// IsAllowedVideo reports whether filename carries a permitted video extension
func IsAllowedVideo(filename string) bool {
	return filestorage.HasAllowedExtension(filename, VideoExtensions)
}

// validateTwoDecimals accepts amounts a NUMERIC(15,2) column stores without rounding
func validateTwoDecimals(fl validator.FieldLevel) bool {
	cents := fl.Field().Float() * 100
	return math.Abs(cents-math.Round(cents)) < 1e-6
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}
