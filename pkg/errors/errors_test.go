package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusUnprocessableEntity)

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Message)
	}
	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.HTTPStatus)
	}
}

func TestWrap(t *testing.T) {
	originalErr := errors.New("database connection failed")
	wrapped := Wrap(originalErr, CodeInternal, "internal error", http.StatusInternalServerError)

	if wrapped.Err != originalErr {
		t.Errorf("expected wrapped error to contain original error")
	}
	if wrapped.Code != CodeInternal {
		t.Errorf("expected code %s, got %s", CodeInternal, wrapped.Code)
	}
	if !errors.Is(wrapped, originalErr) {
		t.Errorf("expected errors.Is to unwrap to the original error")
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "resource not found",
			},
			expected: "NOT_FOUND: resource not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "something broke",
				Err:     errors.New("root cause"),
			},
			expected: "INTERNAL_ERROR: something broke (caused by: root cause)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("Reservation", "65f000000000000000000040")

	if err.Code != CodeNotFound {
		t.Errorf("expected code %s, got %s", CodeNotFound, err.Code)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, err.HTTPStatus)
	}
	if err.Details["id"] != "65f000000000000000000040" {
		t.Errorf("expected details to carry the id, got %v", err.Details)
	}
}

func TestCapacityConflict(t *testing.T) {
	details := map[string]any{
		"classification": "full",
		"remaining":      0,
	}
	err := CapacityConflict("no capacity left in the requested window", details)

	if err.Code != CodeConflict {
		t.Errorf("expected code %s, got %s", CodeConflict, err.Code)
	}
	if err.HTTPStatus != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, err.HTTPStatus)
	}
	if err.Details["classification"] != "full" {
		t.Errorf("expected classification detail, got %v", err.Details)
	}
}

func TestIsAppError(t *testing.T) {
	if !IsAppError(NotFound("Horse")) {
		t.Error("expected IsAppError to be true for AppError")
	}
	if IsAppError(errors.New("plain error")) {
		t.Error("expected IsAppError to be false for plain error")
	}
}

func TestAsAppError_WrapsUnknownErrors(t *testing.T) {
	plain := errors.New("boom")
	appErr := AsAppError(plain)

	if appErr.Code != CodeInternal {
		t.Errorf("expected code %s, got %s", CodeInternal, appErr.Code)
	}
	if !errors.Is(appErr, plain) {
		t.Error("expected the original error to be preserved")
	}
}

func TestStatusCode(t *testing.T) {
	if got := Forbidden("denied").StatusCode(); got != http.StatusForbidden {
		t.Errorf("StatusCode() = %d, want %d", got, http.StatusForbidden)
	}
}
