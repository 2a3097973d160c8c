package authsdk

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/aussiebroadwan/hrsoft/pkg/authz"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		for _, r := range fl.Field().String() {
			switch {
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-', r == '.':
			default:
				return false
			}
		}
		return true
	})
	_ = v.RegisterValidation("permission", func(fl validator.FieldLevel) bool {
		return authz.ValidPermission(fl.Field().String())
	})
	return v
}

// Struct validates any request DTO with `validate` tags and returns field
// problems keyed by JSON name, or nil when the value is valid. The directory
// service shares it for its own request types.
func Struct(v any) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return map[string]string{"_": err.Error()}
	}

	out := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		key := fe.Namespace()
		if _, rest, ok := strings.Cut(key, "."); ok {
			key = rest // drop the struct name
		}
		out[key] = reason(fe)
	}
	return out
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "min":
		return fmt.Sprintf("too short (min %s)", fe.Param())
	case "max":
		return fmt.Sprintf("too long (max %s)", fe.Param())
	case "email":
		return "must be a valid email address"
	case "username":
		return "must only contain a-z, A-Z, 0-9, _, - or ."
	case "permission":
		return "invalid permission"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "datetime":
		return "must be a date formatted " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	}
	return "invalid"
}

func (r LoginRequest) Validate() map[string]string          { return Struct(r) }
func (r RefreshRequest) Validate() map[string]string        { return Struct(r) }
func (r RegisterRequest) Validate() map[string]string       { return Struct(r) }
func (r ChangePasswordRequest) Validate() map[string]string { return Struct(r) }
func (r SetPermissionsRequest) Validate() map[string]string { return Struct(r) }
func (r SetStatusRequest) Validate() map[string]string      { return Struct(r) }
func (r BootstrapRequest) Validate() map[string]string      { return Struct(r) }
