package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Zanziz/MK-project/services"
	"github.com/Zanziz/MK-project/tournament"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", tournament.ErrNotEnoughPlayers, http.StatusUnprocessableEntity},
		{"wrapped validation", fmt.Errorf("ctx: %w", tournament.ErrInvalidPosition), http.StatusUnprocessableEntity},
		{"not found", tournament.ErrRaceNotFound, http.StatusNotFound},
		{"phase", tournament.ErrRosterLocked, http.StatusConflict},
		{"persistence", services.ErrPersistenceFailed, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mapServiceErrorToHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.status, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
			if tt.status == http.StatusInternalServerError {
				assert.NotContains(t, body["error"], "boom")
			}
		})
	}
}

func TestReadJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"ok", `{"first_name":"Ada","gamer_tag":"Yoshi"}`, ""},
		{"empty", ``, "must not be empty"},
		{"unknown key", `{"nick":"x"}`, "unknown key"},
		{"bad type", `{"first_name":1}`, "incorrect JSON type"},
		{"two values", `{} {}`, "single JSON value"},
		{"malformed", `{"first_name":`, "badly-formed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst services.AddPlayerInput
			err := readJSON(httptest.NewRecorder(), req, &dst)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "Ada", dst.FirstName)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
