package shared

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// validate is shared across requests; the validator caches struct
// metadata, so one instance beats per-request ones.
var validate = validator.New()

// DecodeJSON decodes the request body into v. Handlers turn a failure
// into a 400 with a generic message; the decode error itself never
// reaches the client.
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// ValidateRequest checks a decoded payload. Types carrying their own
// Validate method (domain updates) use it; plain request structs are
// checked against their validator tags.
func ValidateRequest(v interface{}) error {
	if checked, ok := v.(interface{ Validate() error }); ok {
		return checked.Validate()
	}
	return validate.Struct(v)
}
