// Package validation validates preparations, requests and configuration.
//
// Struct tag validation uses go-playground/validator; programmatic checks
// collect field errors. Both report INVALID_INPUT errors carrying the failing
// fields in their details.
//
//	type Step struct {
//	    Action string `json:"action" validate:"required"`
//	}
//	err := validation.Validate(step)
//
//	v := validation.New()
//	v.OneOf("scope", scope, scopes)
//	err := v.Validate()
package validation
