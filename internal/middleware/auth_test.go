package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return raw
}

func runAuth(t *testing.T, token string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/events", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := OperatorAuth(testSecret)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return c, rec
}

func TestOperatorAuthNormalizesNumericMemberID(t *testing.T) {
	// memberId arrives as a JSON number (float64 after parsing); the
	// context value must still come out as the string id.
	c, rec := runAuth(t, signedToken(t, jwt.MapClaims{"memberId": 42, "name": "Alex"}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := OperatorID(c); got != "42" {
		t.Errorf("expected operator id %q, got %q", "42", got)
	}
	if got, ok := c.Get("operator").(string); !ok || got != "Alex" {
		t.Errorf("expected operator name Alex, got %v", c.Get("operator"))
	}
}

func TestOperatorAuthStringMemberID(t *testing.T) {
	c, _ := runAuth(t, signedToken(t, jwt.MapClaims{"memberId": "m-7", "name": "Sam"}))
	if got := OperatorID(c); got != "m-7" {
		t.Errorf("expected operator id %q, got %q", "m-7", got)
	}
}

func TestOperatorAuthRejectsMissingToken(t *testing.T) {
	c, rec := runAuth(t, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if got := OperatorID(c); got != "anonymous" {
		t.Errorf("expected anonymous, got %q", got)
	}
}

func TestOperatorAuthRejectsBadSignature(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"memberId": 1}).
		SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	_, rec := runAuth(t, raw)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}
