package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	Jwxt     JwxtConfig     `mapstructure:"jwxt"`
	Import   ImportConfig   `mapstructure:"import"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port         int        `mapstructure:"port"`
	MaxBodyBytes int64      `mapstructure:"max_body_bytes"`
	CORS         CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 分钟
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 配置（课表原始数据缓存 + 限流）
type RedisConfig struct {
	Addr       string        `mapstructure:"addr"`
	Password   string        `mapstructure:"password"`
	DB         int           `mapstructure:"db"`
	PayloadTTL time.Duration `mapstructure:"payload_ttl"`
}

// AuthConfig API 访问令牌配置
type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	Issuer         string        `mapstructure:"issuer"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`         // 为空时只输出到标准错误
	MaxSizeMB  int    `mapstructure:"max_size_mb"`  // 单个日志文件上限
	MaxBackups int    `mapstructure:"max_backups"`  // 保留的归档数
	MaxAgeDays int    `mapstructure:"max_age_days"` // 归档保留天数
}

// JwxtConfig 正方教务系统接口配置
type JwxtConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	TimetablePath string        `mapstructure:"timetable_path"`
	LoginPath     string        `mapstructure:"login_path"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxBodyBytes  int64         `mapstructure:"max_body_bytes"`
}

// TimetableURL 个人课表查询接口完整地址
func (c *JwxtConfig) TimetableURL() string {
	return strings.TrimRight(c.BaseURL, "/") + c.TimetablePath
}

// LoginURL 登录页完整地址
func (c *JwxtConfig) LoginURL() string {
	return strings.TrimRight(c.BaseURL, "/") + c.LoginPath
}

// ImportConfig 导入流程配置
type ImportConfig struct {
	DefaultRegime   string        `mapstructure:"default_regime"` // standard | summer
	FetchRateLimit  int           `mapstructure:"fetch_rate_limit"`
	FetchRateWindow time.Duration `mapstructure:"fetch_rate_window"`
	RecordRetention time.Duration `mapstructure:"record_retention"` // 被替换的导入记录保留时长，0 表示不清理
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_body_bytes", 4<<20)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "shiguang")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Asia/Shanghai")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.payload_ttl", "30m")

	v.SetDefault("auth.jwt_secret", "") // 登记键名，使 SHIGUANG_AUTH_JWT_SECRET 能被 Unmarshal 读到
	v.SetDefault("auth.access_token_ttl", "720h")
	v.SetDefault("auth.issuer", "shiguang")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 128)
	v.SetDefault("log.max_backups", 10)
	v.SetDefault("log.max_age_days", 14)

	v.SetDefault("jwxt.base_url", "https://jwgl.taru.edu.cn")
	v.SetDefault("jwxt.timetable_path", "/jwglxt/kbcx/xskbcx_cxXsgrkb.html?gnmkdm=N2151")
	v.SetDefault("jwxt.login_path", "/jwglxt/xtgl/login_slogin.html")
	v.SetDefault("jwxt.timeout", "20s")
	v.SetDefault("jwxt.max_body_bytes", 2<<20)

	v.SetDefault("import.default_regime", "standard")
	v.SetDefault("import.fetch_rate_limit", 10)
	v.SetDefault("import.fetch_rate_window", "1m")
	v.SetDefault("import.record_retention", "4320h")

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("SHIGUANG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 不能为空")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 长度不能少于 16 字符")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	switch c.Import.DefaultRegime {
	case "standard", "summer":
	default:
		return fmt.Errorf("配置校验失败: import.default_regime 只能为 standard 或 summer")
	}
	u, err := url.Parse(c.Jwxt.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("配置校验失败: jwxt.base_url 必须为 http(s) 地址")
	}
	return nil
}
