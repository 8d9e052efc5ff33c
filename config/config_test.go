package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		Auth:   AuthConfig{JWTSecret: "test-secret-key-for-unit-testing"},
		Jwxt:   JwxtConfig{BaseURL: "https://jwgl.example.edu.cn"},
		Import: ImportConfig{DefaultRegime: "standard"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"合法配置", func(c *Config) {}, false},
		{"密钥为空", func(c *Config) { c.Auth.JWTSecret = "" }, true},
		{"密钥过短", func(c *Config) { c.Auth.JWTSecret = "short" }, true},
		{"端口越界", func(c *Config) { c.Server.Port = 70000 }, true},
		{"未知作息", func(c *Config) { c.Import.DefaultRegime = "winter" }, true},
		{"夏季作息", func(c *Config) { c.Import.DefaultRegime = "summer" }, false},
		{"教务地址非 http", func(c *Config) { c.Jwxt.BaseURL = "ftp://jwgl" }, true},
		{"教务地址为空", func(c *Config) { c.Jwxt.BaseURL = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestJwxtURLs(t *testing.T) {
	c := JwxtConfig{
		BaseURL:       "https://jwgl.taru.edu.cn/",
		TimetablePath: "/jwglxt/kbcx/xskbcx_cxXsgrkb.html?gnmkdm=N2151",
		LoginPath:     "/jwglxt/xtgl/login_slogin.html",
	}
	if got := c.TimetableURL(); got != "https://jwgl.taru.edu.cn/jwglxt/kbcx/xskbcx_cxXsgrkb.html?gnmkdm=N2151" {
		t.Errorf("TimetableURL() = %s", got)
	}
	if got := c.LoginURL(); got != "https://jwgl.taru.edu.cn/jwglxt/xtgl/login_slogin.html" {
		t.Errorf("LoginURL() = %s", got)
	}
}

func TestLoad_FileAndDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
auth:
  jwt_secret: "file-secret-key-0123456789"
import:
  default_regime: summer
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}
	if cfg.Import.DefaultRegime != "summer" {
		t.Errorf("期望 default_regime=summer, 实际 %s", cfg.Import.DefaultRegime)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("期望默认端口 8080, 实际 %d", cfg.Server.Port)
	}
	if cfg.Jwxt.Timeout != 20*time.Second {
		t.Errorf("期望默认超时 20s, 实际 %v", cfg.Jwxt.Timeout)
	}
	if cfg.Redis.PayloadTTL != 30*time.Minute {
		t.Errorf("期望默认缓存 TTL 30m, 实际 %v", cfg.Redis.PayloadTTL)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o600); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("缺少 jwt_secret 时期望返回错误")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o600); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}
	t.Setenv("SHIGUANG_AUTH_JWT_SECRET", "env-secret-key-0123456789")
	t.Setenv("SHIGUANG_IMPORT_RECORD_RETENTION", "24h")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}
	if cfg.Auth.JWTSecret != "env-secret-key-0123456789" {
		t.Errorf("环境变量应覆盖 jwt_secret, 实际 %q", cfg.Auth.JWTSecret)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("期望文件中的端口 9090, 实际 %d", cfg.Server.Port)
	}
	if cfg.Import.RecordRetention != 24*time.Hour {
		t.Errorf("期望 record_retention=24h, 实际 %v", cfg.Import.RecordRetention)
	}
	if cfg.Log.MaxSizeMB != 128 || cfg.Log.File != "" {
		t.Errorf("日志默认值错误: %+v", cfg.Log)
	}
}
