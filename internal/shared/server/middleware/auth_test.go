package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"docuhub-backend/internal/shared/auth"
)

const testSecret = "middleware-secret"

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(testSecret))
	r.GET("/open", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": UserIDFromContext(c)})
	})
	protected := r.Group("")
	protected.Use(RequireAuth())
	protected.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": UserIDFromContext(c)})
	})
	return r
}

func TestAuthAllowsAnonymousPassthrough(t *testing.T) {
	r := newAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for anonymous request, got %d", resp.Code)
	}
}

func TestAuthRejectsMalformedToken(t *testing.T) {
	r := newAuthRouter()

	for _, header := range []string{"Bearer", "Bearer ", "Token abc", "Bearer not.a.jwt"} {
		req := httptest.NewRequest(http.MethodGet, "/open", nil)
		req.Header.Set("Authorization", header)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, resp.Code)
		}
	}
}

func TestRequireAuthBlocksAnonymous(t *testing.T) {
	r := newAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous protected request, got %d", resp.Code)
	}
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	r := newAuthRouter()

	token, err := auth.Sign(testSecret, auth.Claims{UserID: "user-1", Email: "u@example.com"}, time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAuthRejectsTokenSignedWithOtherSecret(t *testing.T) {
	r := newAuthRouter()

	token, err := auth.Sign("some-other-secret", auth.Claims{UserID: "user-1"}, time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for foreign token, got %d", resp.Code)
	}
}
