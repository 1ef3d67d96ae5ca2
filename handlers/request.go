package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/upb/spaces-control-plane/utils"
)

// maxBodyBytes bounds JSON request bodies
const maxBodyBytes = 1 << 20

// decodeJSON decodes the request body into dst and validates it.
// Both failures are reported as a *utils.ValidationError.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}
	return utils.ValidateStruct(dst)
}

// unknownFieldPrefix starts the message encoding/json returns for a field
// rejected by DisallowUnknownFields. The error has no dedicated type.
const unknownFieldPrefix = "json: unknown field "

// decodeError turns a JSON decoding failure into a ValidationError without
// echoing parser internals to the client.
func decodeError(err error) *utils.ValidationError {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytesErr):
		return &utils.ValidationError{
			Message: fmt.Sprintf("Request body exceeds %d bytes", maxBytesErr.Limit),
		}
	case errors.Is(err, io.EOF):
		return &utils.ValidationError{Message: "Request body is empty"}
	case strings.HasPrefix(err.Error(), unknownFieldPrefix):
		field := strings.Trim(strings.TrimPrefix(err.Error(), unknownFieldPrefix), `"`)
		return &utils.ValidationError{
			Message: "Unknown field in request body",
			Fields:  map[string]string{field: "unknown field"},
		}
	default:
		return &utils.ValidationError{Message: "Invalid request body"}
	}
}

// pathUUID parses a UUID route parameter
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	return utils.ParseUUID(chi.URLParam(r, name), name)
}

// pageParams reads limit and offset query parameters. Missing values are
// left at zero so the service applies its defaults.
func pageParams(r *http.Request) (limit, offset int, err error) {
	q := r.URL.Query()

	if limit, err = intParam(q.Get("limit"), "limit"); err != nil {
		return 0, 0, err
	}
	if offset, err = intParam(q.Get("offset"), "offset"); err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}

func intParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, &utils.ValidationError{
			Message: fmt.Sprintf("invalid %s", name),
			Fields:  map[string]string{name: fmt.Sprintf("%s must be a non-negative integer", name)},
		}
	}
	return v, nil
}
