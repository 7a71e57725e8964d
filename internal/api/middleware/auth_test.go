package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/auth-service/internal/core/domain"
	"github.com/99minutos/auth-service/internal/infrastructure/security"
)

func newTokens(t *testing.T, now func() time.Time) *security.JWTService {
	t.Helper()
	svc, err := security.NewJWTService("secret", time.Hour, security.WithClock(now))
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	return svc
}

func issue(t *testing.T, svc *security.JWTService, role domain.Role) string {
	t.Helper()
	token, err := svc.Issue(domain.Claims{Subject: "user-1", Email: "alice@x.com", Role: role})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func newContext(authHeader string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthenticate_ValidToken(t *testing.T) {
	tokens := newTokens(t, time.Now)
	c, rec := newContext("Bearer " + issue(t, tokens, domain.RoleAdmin))

	called := false
	handler := Authenticate(tokens, zerolog.Nop())(func(c echo.Context) error {
		called = true
		id, ok := domain.IdentityFrom(c.Request().Context())
		if !ok {
			t.Fatalf("identity not set")
		}
		if id.UserID != "user-1" || id.Email != "alice@x.com" || id.Role != domain.RoleAdmin {
			t.Fatalf("unexpected identity: %+v", id)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthenticate_SchemeIsCaseInsensitive(t *testing.T) {
	tokens := newTokens(t, time.Now)
	c, _ := newContext("bearer " + issue(t, tokens, domain.RoleUser))

	handler := Authenticate(tokens, zerolog.Nop())(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestAuthenticate_Rejections(t *testing.T) {
	issued := time.Now().Add(-2 * time.Hour)
	expiredTokens := newTokens(t, func() time.Time { return issued })
	expired := issue(t, expiredTokens, domain.RoleUser)

	tokens := newTokens(t, time.Now)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Token abc"},
		{"no token", "Bearer "},
		{"scheme only", "Bearer"},
		{"garbage token", "Bearer not-a-token"},
		{"expired token", "Bearer " + expired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newContext(tt.header)
			handler := Authenticate(tokens, zerolog.Nop())(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})

			if err := handler(c); !errors.Is(err, domain.ErrUnauthenticated) {
				t.Fatalf("expected ErrUnauthenticated, got %v", err)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	if tok, ok := bearerToken("Bearer abc.def.ghi"); !ok || tok != "abc.def.ghi" {
		t.Fatalf("unexpected result: %q %v", tok, ok)
	}
	if _, ok := bearerToken("Basic dXNlcjpwYXNz"); ok {
		t.Fatalf("basic auth must not be accepted")
	}
}
