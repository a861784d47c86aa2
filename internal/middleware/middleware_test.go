package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/unihub-club-events/internal/authz"
	"github.com/iliyamo/unihub-club-events/internal/utils"
)

const testSecret = "test-secret"

func newProtectedEcho(roles ...string) *echo.Echo {
	e := echo.New()
	g := e.Group("/v1", JWTAuth(testSecret))
	if len(roles) > 0 {
		g.Use(RequireRole(roles...))
	}
	g.GET("/ping", func(c echo.Context) error {
		uid, _ := c.Get("user_id").(uint64)
		role, _ := c.Get("role").(string)
		return c.JSON(http.StatusOK, echo.Map{"user_id": uid, "role": role})
	})
	return e
}

func doRequest(t *testing.T, e *echo.Echo, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthMissingToken(t *testing.T) {
	e := newProtectedEcho()
	if rec := doRequest(t, e, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestJWTAuthMalformedToken(t *testing.T) {
	e := newProtectedEcho()
	if rec := doRequest(t, e, "Bearer not.a.jwt"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestJWTAuthValidToken(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 42, authz.RoleStudent, 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	e := newProtectedEcho()
	rec := doRequest(t, e, "Bearer "+at.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body)
	}
}

func TestJWTAuthWrongSecret(t *testing.T) {
	at, err := utils.NewAccessToken("other-secret", 42, authz.RoleStudent, 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	e := newProtectedEcho()
	if rec := doRequest(t, e, "Bearer "+at.Token); rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	e := newProtectedEcho(authz.RoleHeadAdmin)

	studentTok, err := utils.NewAccessToken(testSecret, 7, authz.RoleStudent, 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if rec := doRequest(t, e, "Bearer "+studentTok.Token); rec.Code != http.StatusForbidden {
		t.Fatalf("student status = %d, want 403", rec.Code)
	}

	headTok, err := utils.NewAccessToken(testSecret, 1, authz.RoleHeadAdmin, 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if rec := doRequest(t, e, "Bearer "+headTok.Token); rec.Code != http.StatusOK {
		t.Fatalf("head status = %d, want 200", rec.Code)
	}
}
