package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	SessionCookie = "cookie"
	SessionRedis  = "redis"

	ImageStoreLocal = "local"
	ImageStoreMinio = "minio"
)

type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"useSSL"`
}

type Config struct {
	DBDriver          string `yaml:"dbDriver"`
	DBDSN             string `yaml:"dbDSN"`
	DBConnectAttempts int    `yaml:"dbConnectAttempts"`
	ServerPort        string `yaml:"serverPort"`

	SessionSecret string `yaml:"sessionSecret"`
	SessionStore  string `yaml:"sessionStore"`
	SessionMaxAge int    `yaml:"sessionMaxAge"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`

	UploadDir              string      `yaml:"uploadDir"`
	MaxUploadBytes         int64       `yaml:"maxUploadBytes"`
	AllowedImageExtensions []string    `yaml:"allowedImageExtensions"`
	ImageStore             string      `yaml:"imageStore"`
	Minio                  MinioConfig `yaml:"minio"`

	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`

	AdminUsername string `yaml:"adminUsername"`
	AdminPassword string `yaml:"adminPassword"`
	AdminEmail    string `yaml:"adminEmail"`

	// LegacyHolderSync makes non-Active assignments still record the holder on the equipment.
	LegacyHolderSync bool `yaml:"legacyHolderSync"`
}

func defaults() Config {
	return Config{
		DBDriver:               DriverPostgres,
		DBConnectAttempts:      10,
		ServerPort:             "8080",
		SessionStore:           SessionCookie,
		SessionMaxAge:          86400,
		UploadDir:              "static/uploads",
		MaxUploadBytes:         16 << 20,
		AllowedImageExtensions: []string{"png", "jpg", "jpeg", "gif", "webp"},
		ImageStore:             ImageStoreLocal,
		LogLevel:               "info",
		LogFormat:              "console",
		AdminUsername:          "admin",
		AdminPassword:          "admin123",
		AdminEmail:             "admin@example.com",
	}
}

// Load reads .env, the optional YAML file named by CONFIG_FILE, then environment overrides.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.DBDriver = envOr("DB_DRIVER", cfg.DBDriver)
	cfg.DBDSN = envOr("DB_DSN", envOr("DATABASE_URL", cfg.DBDSN))
	cfg.DBConnectAttempts = envOrInt("DB_CONNECT_ATTEMPTS", cfg.DBConnectAttempts)
	cfg.ServerPort = envOr("SERVER_PORT", envOr("PORT", cfg.ServerPort))

	cfg.SessionSecret = envOr("SESSION_SECRET", cfg.SessionSecret)
	cfg.SessionStore = envOr("SESSION_STORE", cfg.SessionStore)
	cfg.SessionMaxAge = envOrInt("SESSION_MAX_AGE", cfg.SessionMaxAge)
	cfg.RedisAddr = envOr("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = envOr("REDIS_PASSWORD", cfg.RedisPassword)

	cfg.UploadDir = envOr("UPLOAD_DIR", cfg.UploadDir)
	cfg.MaxUploadBytes = int64(envOrInt("MAX_UPLOAD_BYTES", int(cfg.MaxUploadBytes)))
	if v := parseCSV(os.Getenv("ALLOWED_IMAGE_EXTENSIONS")); len(v) > 0 {
		cfg.AllowedImageExtensions = v
	}
	cfg.ImageStore = envOr("IMAGE_STORE", cfg.ImageStore)
	cfg.Minio.Endpoint = envOr("MINIO_ENDPOINT", cfg.Minio.Endpoint)
	cfg.Minio.AccessKey = envOr("MINIO_ACCESS_KEY", cfg.Minio.AccessKey)
	cfg.Minio.SecretKey = envOr("MINIO_SECRET_KEY", cfg.Minio.SecretKey)
	cfg.Minio.Bucket = envOr("MINIO_BUCKET", cfg.Minio.Bucket)
	cfg.Minio.UseSSL = envOrBool("MINIO_USE_SSL", cfg.Minio.UseSSL)

	cfg.LogLevel = envOr("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = envOr("LOG_FORMAT", cfg.LogFormat)

	cfg.AdminUsername = envOr("ADMIN_USERNAME", cfg.AdminUsername)
	cfg.AdminPassword = envOr("ADMIN_PASSWORD", cfg.AdminPassword)
	cfg.AdminEmail = envOr("ADMIN_EMAIL", cfg.AdminEmail)

	cfg.LegacyHolderSync = envOrBool("ASSIGNMENT_LEGACY_HOLDER", cfg.LegacyHolderSync)
}

func (c *Config) validate() error {
	if c.DBDSN == "" {
		return errors.New("config: DB_DSN is not set")
	}
	if c.SessionSecret == "" {
		return errors.New("config: SESSION_SECRET is not set")
	}
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.SessionStore {
	case SessionCookie:
	case SessionRedis:
		if c.RedisAddr == "" {
			return errors.New("config: REDIS_ADDR is required for the redis session store")
		}
	default:
		return fmt.Errorf("config: unsupported SESSION_STORE %q", c.SessionStore)
	}
	switch c.ImageStore {
	case ImageStoreLocal:
	case ImageStoreMinio:
		if c.Minio.Endpoint == "" || c.Minio.Bucket == "" {
			return errors.New("config: MINIO_ENDPOINT and MINIO_BUCKET are required for the minio image store")
		}
	default:
		return fmt.Errorf("config: unsupported IMAGE_STORE %q", c.ImageStore)
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("config: MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		value := strings.ToLower(strings.TrimSpace(part))
		if value != "" {
			items = append(items, value)
		}
	}
	return items
}
