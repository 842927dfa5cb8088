package util

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestExtractToken(t *testing.T) {
	t.Run("valid bearer header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer abc123")

		token, err := ExtractToken(r)
		if err != nil {
			t.Fatalf("ExtractToken failed: %v", err)
		}
		if token != "abc123" {
			t.Errorf("token = %q, want abc123", token)
		}
	})

	t.Run("lowercase scheme accepted", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "bearer abc123")

		if _, err := ExtractToken(r); err != nil {
			t.Errorf("ExtractToken failed: %v", err)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if _, err := ExtractToken(r); err == nil {
			t.Error("expected error for missing header, got nil")
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "abc123")
		if _, err := ExtractToken(r); err == nil {
			t.Error("expected error for malformed header, got nil")
		}
	})
}

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", status.Error(codes.NotFound, "Result not found"), http.StatusNotFound},
		{"already exists maps to 400", status.Error(codes.AlreadyExists, "Already submitted"), http.StatusBadRequest},
		{"invalid argument", status.Error(codes.InvalidArgument, "Missing StudentID column"), http.StatusBadRequest},
		{"unauthenticated", status.Error(codes.Unauthenticated, "Invalid password"), http.StatusUnauthorized},
		{"permission denied", status.Error(codes.PermissionDenied, "nope"), http.StatusForbidden},
		{"internal", status.Error(codes.Internal, "database error"), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleServiceError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body JSONError
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("response is not valid JSON: %v", err)
			}
			if body.Success {
				t.Error("error response has success=true")
			}
			if body.Message == "" {
				t.Error("error response has empty message")
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, map[string]interface{}{"message": "ok", "count": 2})

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if body["message"] != "ok" {
		t.Errorf("message = %v, want ok", body["message"])
	}
}
