package services

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestDescribeError(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name       string
		err        error
		detailed   bool
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"validation", NewValidationError("missing_fields", "Name is required"), false, http.StatusBadRequest, "missing_fields", "Name is required"},
		{"not found", NewNotFoundError("No game found with id 7"), false, http.StatusNotFound, "not_found", "No game found with id 7"},
		{"auth", NewUpstreamAuthError(cause), false, http.StatusUnauthorized, "invalid_api_key", "Completion service credentials are invalid"},
		{"quota", NewUpstreamQuotaError(cause), false, http.StatusTooManyRequests, "quota_exceeded", "Completion service quota reached, please try again later"},
		{"storage hides cause", NewStorageError("Unable to fetch games", cause), false, http.StatusInternalServerError, "server_error", "Unable to fetch games"},
		{"storage detailed", NewStorageError("Unable to fetch games", cause), true, http.StatusInternalServerError, "server_error", "Unable to fetch games: connection refused"},
		{"wrapped", fmt.Errorf("outer: %w", NewNotFoundError("gone")), false, http.StatusNotFound, "not_found", "gone"},
		{"unknown", cause, false, http.StatusInternalServerError, "server_error", "An unexpected error occurred"},
		{"unknown detailed", cause, true, http.StatusInternalServerError, "server_error", "connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, msg := DescribeError(tt.err, tt.detailed)
			if status != tt.wantStatus || code != tt.wantCode || msg != tt.wantMsg {
				t.Fatalf("DescribeError = (%d, %q, %q), want (%d, %q, %q)", status, code, msg, tt.wantStatus, tt.wantCode, tt.wantMsg)
			}
		})
	}
}

func TestAPIErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStorageError("Unable to save", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected storage error to wrap its cause")
	}
}
