package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upb/spaces-control-plane/utils"
)

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		expectedMsg   string
		expectedField string
	}{
		{
			name:        "malformed body",
			body:        `{"name":`,
			expectedMsg: "Invalid request body",
		},
		{
			name:        "empty body",
			body:        "",
			expectedMsg: "Request body is empty",
		},
		{
			name:          "unknown field",
			body:          `{"name":"North","owner":"ana"}`,
			expectedMsg:   "Unknown field in request body",
			expectedField: "owner",
		},
		{
			name:        "oversized body",
			body:        `{"name":"` + strings.Repeat("a", maxBodyBytes) + `"}`,
			expectedMsg: "Request body exceeds 1048576 bytes",
		},
		{
			name:          "fails struct validation",
			body:          `{"description":"no name"}`,
			expectedMsg:   "Validation failed",
			expectedField: "name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := jsonRequest(t, http.MethodPost, "/api/v1/areas", tt.body)
			w := httptest.NewRecorder()

			var dst CreateAreaRequest
			err := decodeJSON(w, req, &dst)
			require.Error(t, err)

			var validationErr *utils.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.expectedMsg, validationErr.Message)
			if tt.expectedField != "" {
				assert.Contains(t, validationErr.Fields, tt.expectedField)
			}
		})
	}

	t.Run("valid body", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/api/v1/areas", `{"name":"North","description":"Wing"}`)

		var dst CreateAreaRequest
		require.NoError(t, decodeJSON(httptest.NewRecorder(), req, &dst))
		assert.Equal(t, "North", dst.Name)
		assert.Equal(t, "Wing", dst.Description)
	})
}

func TestPageParams(t *testing.T) {
	t.Run("defaults to zero", func(t *testing.T) {
		limit, offset, err := pageParams(httptest.NewRequest(http.MethodGet, "/api/v1/areas", nil))
		require.NoError(t, err)
		assert.Zero(t, limit)
		assert.Zero(t, offset)
	})

	t.Run("parses values", func(t *testing.T) {
		limit, offset, err := pageParams(httptest.NewRequest(http.MethodGet, "/api/v1/areas?limit=10&offset=20", nil))
		require.NoError(t, err)
		assert.Equal(t, 10, limit)
		assert.Equal(t, 20, offset)
	})

	t.Run("rejects negative offset", func(t *testing.T) {
		_, _, err := pageParams(httptest.NewRequest(http.MethodGet, "/api/v1/areas?offset=-1", nil))
		assert.EqualError(t, err, "invalid offset")
	})
}
