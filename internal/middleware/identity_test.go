package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func TestIdentity_ValidHeader(t *testing.T) {
	e := echo.New()
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderUserID, userID.String())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Identity()(func(c echo.Context) error {
		got := GetUserID(c)
		if got == nil {
			t.Fatal("Expected user ID to be set")
		}
		if *got != userID {
			t.Errorf("Expected %s, got %s", userID, *got)
		}
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
}

func TestIdentity_MissingHeader(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Identity()(func(c echo.Context) error {
		if GetUserID(c) != nil {
			t.Error("Expected anonymous request")
		}
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
}

func TestIdentity_MalformedHeader(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderUserID, "not-a-uuid")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Identity()(func(c echo.Context) error {
		if GetUserID(c) != nil {
			t.Error("Expected malformed header to leave the request anonymous")
		}
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
}
