// Package validation contains the logic for validating
// request data.
//
// It uses the `validator` library to enforce rules defined
// in struct tags and turns validation failures into field
// errors the client can understand
package validation

import "github.com/go-playground/validator/v10"

// validate caches struct metadata, so one instance serves every request.
var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct runs the `validate` tag rules of v.
func ValidateStruct(v any) error {
	return validate.Struct(v)
}
