package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"botpanel/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testSecret = []byte("test-secret")

func signToken(t *testing.T, username, role string, expiresAt time.Time) string {
	t.Helper()
	claims := &models.Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func protectedRouter(roles ...string) *gin.Engine {
	r := gin.New()
	group := r.Group("/")
	group.Use(AuthMiddleware(testSecret, zap.NewNop()))
	if len(roles) > 0 {
		group.Use(RequireRole(roles...))
	}
	group.GET("/secure", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"username": c.MustGet("username"),
			"role":     c.MustGet("role"),
		})
	})
	return r
}

func request(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	r := protectedRouter()
	token := signToken(t, "ana", models.RoleAdmin, time.Now().Add(time.Hour))

	w := request(r, token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	w := request(protectedRouter(), "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	r := protectedRouter()
	token := signToken(t, "ana", models.RoleAdmin, time.Now().Add(-time.Hour))

	w := request(r, token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 for expired token", w.Code)
	}
}

func TestAuthMiddlewareWrongSecret(t *testing.T) {
	claims := &models.Claims{
		Username:         "ana",
		Role:             models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("otro-secreto"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	w := request(protectedRouter(), token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 for forged token", w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	r := protectedRouter(models.RoleOwner, models.RoleAdmin)

	w := request(r, signToken(t, "ana", models.RoleAdmin, time.Now().Add(time.Hour)))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for admin", w.Code)
	}

	w = request(r, signToken(t, "leo", models.RoleUser, time.Now().Add(time.Hour)))
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 for plain user", w.Code)
	}
}
