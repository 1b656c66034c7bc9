package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"backoffice/internal/core"
	"backoffice/internal/log"
	"backoffice/internal/storage"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	NewJSONResponse().Status(status).Body(v).Write(w)
}

// writeError maps an error kind to its status code. Messages of 4xx kinds
// are returned to the caller; anything else is logged and answered with a
// generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *core.ValidationError
	var ce *storage.ConflictError
	switch {
	case errors.As(err, &ve):
		ValidationErrorResponse(ve.Fields).Write(w)
	case errors.Is(err, core.ErrValidation):
		BadRequestError(err.Error()).Write(w)
	case errors.Is(err, core.ErrNotFound):
		NotFoundError(err.Error()).Write(w)
	case errors.As(err, &ce):
		ConflictError("a record with the same unique value already exists").Write(w)
	case errors.Is(err, core.ErrConflict), errors.Is(err, core.ErrAmbiguous):
		ConflictError(err.Error()).Write(w)
	case errors.Is(err, core.ErrUnauthorized):
		UnauthorizedError("authentication credentials were not provided or are invalid").Write(w)
	default:
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldError, err)
		InternalServerError("internal server error").Write(w)
	}
}

// decodeJSON decodes the request body into dst. Fields absent from the body
// leave dst untouched, which is what partial updates rely on.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		switch {
		case errors.Is(err, io.EOF):
			return core.FieldError("body", "request body must not be empty")
		default:
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return core.FieldError("body", fmt.Sprintf("request body must not exceed %d bytes", maxErr.Limit))
			}
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) && typeErr.Field != "" {
				return core.FieldError(typeErr.Field, "invalid value type")
			}
			return core.FieldError("body", "malformed JSON: "+err.Error())
		}
	}
	return nil
}

// pathID parses a positive integer path value.
func pathID(r *http.Request, name string) (int64, error) {
	v := strings.TrimSpace(r.PathValue(name))
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: invalid %s %q", core.ErrNotFound, name, v)
	}
	return id, nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
