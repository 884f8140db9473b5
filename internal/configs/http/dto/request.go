// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"encoding/json"

	validation "github.com/jellydator/validation"
)

// SetConfigRequest contains the parameters for creating or updating a
// configuration value. Namespace and key come from the URL, not the body.
// With Secret set the value must be a JSON string holding the plaintext,
// which is encrypted before it touches disk.
type SetConfigRequest struct {
	Value  json.RawMessage `json:"value"`
	Env    string          `json:"env"`
	User   string          `json:"user"`
	Secret bool            `json:"secret"`
}

// Validate checks if the set config request is valid.
func (r *SetConfigRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Value, validation.Required.Error("value is required")),
	)
}
