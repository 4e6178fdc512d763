package common

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	pkgerrors "agentxrp-backend/pkg/errors"
)

// DefaultMaxBodyBytes bounds request bodies
const DefaultMaxBodyBytes int64 = 1 << 20

// SuccessResponse is the acknowledgement shape used by mutating endpoints
type SuccessResponse struct {
	Success bool `json:"success"`
}

// RespondJSON sends a JSON response
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// ParseJSONBody parses JSON request body with size limit. Malformed or
// oversized bodies are validation errors.
func ParseJSONBody(w http.ResponseWriter, r *http.Request, v interface{}, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return pkgerrors.NewValidationError("request body is required").WithCode(pkgerrors.CodeInvalidBody)
		case errors.As(err, &maxErr):
			return pkgerrors.NewValidationError("request body is too large").WithCode(pkgerrors.CodeInvalidBody)
		default:
			return pkgerrors.NewValidationError("invalid JSON body").WithCode(pkgerrors.CodeInvalidBody).WithCause(err)
		}
	}

	return nil
}
