package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kredenk/shiguang-warehouse/config"
	"github.com/Kredenk/shiguang-warehouse/internal/api/handler"
	"github.com/Kredenk/shiguang-warehouse/internal/repository"
	"github.com/Kredenk/shiguang-warehouse/internal/service"
	"github.com/Kredenk/shiguang-warehouse/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestRouter(t *testing.T) (*gin.Engine, *jwt.Manager) {
	t.Helper()
	cfg := &config.Config{
		Auth:   config.AuthConfig{JWTSecret: "router-test", AccessTokenTTL: time.Hour},
		Import: config.ImportConfig{DefaultRegime: "standard"},
	}
	jwtMgr := jwt.NewManager(&cfg.Auth)
	// 以下用例不触达存储层
	svc := service.NewService(cfg, &repository.Repository{}, nil, nil, zap.NewNop())
	return Setup(cfg, handler.NewHandler(svc), jwtMgr, nil, zap.NewNop()), jwtMgr
}

func TestSetup_Health(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("应设置 X-Request-ID")
	}
}

func TestSetup_RequiresAuth(t *testing.T) {
	r, _ := setupTestRouter(t)

	for _, path := range []string{"/api/v1/imports", "/api/v1/sessions", "/api/v1/time-slots", "/api/v1/export/xlsx"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s expected 401, got %d", path, w.Code)
		}
	}
}

func TestSetup_Presets(t *testing.T) {
	r, jwtMgr := setupTestRouter(t)
	token, _ := jwtMgr.GenerateAccessToken("u1")

	tests := []struct {
		path string
		want int
	}{
		{"/api/v1/time-slots/presets", http.StatusOK},
		{"/api/v1/time-slots/presets/summer", http.StatusOK},
		{"/api/v1/time-slots/presets/winter", http.StatusNotFound},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", tt.path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		if w.Code != tt.want {
			t.Errorf("%s expected %d, got %d", tt.path, tt.want, w.Code)
		}
	}
}
