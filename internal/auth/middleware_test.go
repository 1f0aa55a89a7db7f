package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"gamewatch/backend/internal/config"
	"gamewatch/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

func newTestRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/probe", mw, func(c *gin.Context) {
		userID, exists := c.Get("userID")
		if !exists {
			c.JSON(http.StatusOK, gin.H{"user_id": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}

	token, err := jwt.GenerateToken(7)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"malformed header", "Token abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}

	router := newTestRouter(AuthMiddleware())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestOptionalAuthMiddleware_PassesWithoutToken(t *testing.T) {
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}

	router := newTestRouter(OptionalAuthMiddleware())

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestOptionalAuthMiddleware_SetsUserIDWhenValid(t *testing.T) {
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}

	token, err := jwt.GenerateToken(9)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	router := newTestRouter(OptionalAuthMiddleware())

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if body := w.Body.String(); body != `{"user_id":9}` {
		t.Errorf("body = %s", body)
	}
}
