package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eventhub/event-management/internal/core/domain"
)

func TestHTTPErrorHandler_StatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrInvalidToken, http.StatusUnauthorized},
		{domain.ErrExpiredToken, http.StatusUnauthorized},
		{domain.ErrUnauthenticated, http.StatusUnauthorized},
		{domain.ErrIdentityNotFound, http.StatusUnauthorized},
		{fmt.Errorf("update event: %w", domain.ErrForbidden), http.StatusForbidden},
		{domain.ErrInvalidBootstrapToken, http.StatusForbidden},
		{domain.ErrAdminAlreadyRegistered, http.StatusBadRequest},
		{fmt.Errorf("%w: title is required", domain.ErrInvalidInput), http.StatusBadRequest},
		{domain.ErrUserExists, http.StatusBadRequest},
		{domain.ErrAlreadyRegistered, http.StatusConflict},
		{fmt.Errorf("get event: %w", domain.ErrEventNotFound), http.StatusNotFound},
		{domain.ErrAttendeeNotFound, http.StatusNotFound},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrRateLimited, http.StatusTooManyRequests},
		{echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest},
		{errors.New("mongo exploded"), http.StatusInternalServerError},
	}

	handler := NewHTTPErrorHandler(zerolog.Nop())
	for _, tc := range cases {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler(tc.err, c)

		if rec.Code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, rec.Code)
		}
		var body errorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.Error == "" {
			t.Fatalf("%v: expected error envelope, got %q", tc.err, rec.Body.String())
		}
	}
}

func TestHTTPErrorHandler_IdentityErrorsLookAlike(t *testing.T) {
	handler := NewHTTPErrorHandler(zerolog.Nop())

	render := func(err error) string {
		e := echo.New()
		rec := httptest.NewRecorder()
		handler(err, e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec))
		return rec.Body.String()
	}

	if render(domain.ErrIdentityNotFound) != render(domain.ErrUnauthenticated) {
		t.Fatalf("a deleted identity must be indistinguishable from a missing one")
	}
}

func TestHTTPErrorHandler_InternalErrorDoesNotLeak(t *testing.T) {
	handler := NewHTTPErrorHandler(zerolog.Nop())
	e := echo.New()
	rec := httptest.NewRecorder()

	handler(errors.New("dial tcp 10.0.0.5:27017: refused"), e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec))

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Error != "internal server error" {
		t.Fatalf("unexpected message %q", body.Error)
	}
}

func TestHTTPErrorHandler_DuplicateAccountIsBadRequest(t *testing.T) {
	handler := NewHTTPErrorHandler(zerolog.Nop())
	e := echo.New()
	rec := httptest.NewRecorder()

	handler(fmt.Errorf("register: %w", domain.ErrUserExists), e.NewContext(httptest.NewRequest(http.MethodPost, "/api/auth/register-admin", nil), rec))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Error != "username or email already in use" {
		t.Fatalf("unexpected message %q", body.Error)
	}
}

func TestHTTPErrorHandler_DeletedCallerLooksUnauthenticated(t *testing.T) {
	handler := NewHTTPErrorHandler(zerolog.Nop())
	e := echo.New()
	rec := httptest.NewRecorder()

	handler(fmt.Errorf("register attendee: %w", domain.ErrIdentityNotFound), e.NewContext(httptest.NewRequest(http.MethodPost, "/api/attendees/register/1", nil), rec))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "user not found") {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}
