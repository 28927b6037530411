package constants

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/robocore-nitk/club-admin/pkg/serrors"
)

// Validate reports fields by their JSON name.
var Validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}()

// ValidateStruct runs Validate on v and flattens the failures into field
// messages, the shape DTO Ok methods return.
func ValidateStruct(v any) (map[string]string, bool) {
	err := Validate.Struct(v)
	if err == nil {
		return map[string]string{}, true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"non_field_errors": err.Error()}, false
	}
	return serrors.ProcessValidatorErrors(verrs, nil).Messages(), false
}
