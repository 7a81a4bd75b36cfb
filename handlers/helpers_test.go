package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copa-samurai/tournament-api/repositories"
	"github.com/copa-samurai/tournament-api/services"
)

func TestReadJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"valid", `{"name":"Dojo Central"}`, ""},
		{"empty body", ``, "must not be empty"},
		{"malformed", `{"name":`, "badly-formed"},
		{"unknown field", `{"nmae":"x"}`, "unknown key"},
		{"wrong type", `{"name":42}`, "incorrect JSON type"},
		{"trailing value", `{"name":"a"}{"name":"b"}`, "single JSON value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			var dst payload
			err := readJSON(rec, req, &dst)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "Dojo Central", dst.Name)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"dojo not found", repositories.ErrDojoNotFound, http.StatusNotFound},
		{"bracket not found", repositories.ErrBracketNotFound, http.StatusNotFound},
		{"round not found", services.ErrRoundNotFound, http.StatusNotFound},
		{"name conflict", repositories.ErrDojoNameConflict, http.StatusConflict},
		{"bracket exists", services.ErrBracketAlreadyExists, http.StatusConflict},
		{"edit conflict", services.ErrBracketEditConflict, http.StatusConflict},
		{"bad winner", services.ErrWinnerNotInMatch, http.StatusBadRequest},
		{"bad slot", services.ErrSlotOutOfRange, http.StatusBadRequest},
		{"bad grade", services.ErrInvalidGrade, http.StatusBadRequest},
		{"bad credentials", services.ErrInvalidCredentials, http.StatusUnauthorized},
		{"forbidden", services.ErrForbiddenOperation, http.StatusForbidden},
		{"admin only", services.ErrAdminOnly, http.StatusForbidden},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()

			mapServiceErrorToHTTP(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), "error")
		})
	}
}

func TestWriteJSONSetsContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	err := writeJSON(rec, http.StatusCreated, jsonResponse{"ok": true}, http.Header{"X-Custom": []string{"v"}})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "v", rec.Header().Get("X-Custom"))
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}
