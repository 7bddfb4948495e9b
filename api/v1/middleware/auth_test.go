package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go_attendance/internal/auth"
	"go_attendance/internal/model"

	"github.com/gin-gonic/gin"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	auth.InitJWT("test-secret-key")

	r := gin.New()
	protected := r.Group("", AuthRequired(auth.NewDenylist(nil)))
	protected.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"uid":  c.GetInt("uid"),
			"role": c.GetString("role"),
		})
	})
	protected.GET("/admin-only", AdminRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func token(t *testing.T, role string, expireAt time.Time) string {
	t.Helper()

	tok, err := auth.GenerateToken(1, "tester", role, "EMP001", expireAt, "test")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return tok
}

func doRequest(r *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	r := setupRouter(t)
	valid := "Bearer " + token(t, model.RoleEmployee, time.Now().Add(time.Hour))
	expired := "Bearer " + token(t, model.RoleEmployee, time.Now().Add(-time.Hour))

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{name: "missing header", authHeader: "", wantStatus: http.StatusUnauthorized},
		{name: "not bearer", authHeader: "Basic abc123", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", authHeader: "Bearer not-a-jwt", wantStatus: http.StatusUnauthorized},
		{name: "expired token", authHeader: expired, wantStatus: http.StatusUnauthorized},
		{name: "valid token", authHeader: valid, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, "/whoami", tt.authHeader)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestAdminRequired(t *testing.T) {
	r := setupRouter(t)

	w := doRequest(r, "/admin-only", "Bearer "+token(t, model.RoleEmployee, time.Now().Add(time.Hour)))
	if w.Code != http.StatusForbidden {
		t.Errorf("employee status = %d, want %d", w.Code, http.StatusForbidden)
	}

	w = doRequest(r, "/admin-only", "Bearer "+token(t, model.RoleAdmin, time.Now().Add(time.Hour)))
	if w.Code != http.StatusOK {
		t.Errorf("admin status = %d, want %d", w.Code, http.StatusOK)
	}
}
