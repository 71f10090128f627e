package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the process-wide settings. It is read once at startup and
// treated as immutable afterwards.
type Config struct {
	ServerPort string
	GinMode    string

	JWTSecret     string
	JWTExpiration time.Duration // 0 means tokens carry no exp claim

	DB              *DBConfig
	BootstrapSchema bool
	SandboxDB       *DBConfig // nil when the sandbox endpoints are disabled

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	LoginRateLimit  int
	LoginRateWindow time.Duration

	DefaultStudentPassword string
	ExposeErrorDetails     bool

	LogLevel  string
	LogFormat string
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	jwtSecret := firstEnv("JWT_SECRET_KEY", "JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY not set in environment")
	}

	dbCfg, err := LoadDBConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ServerPort:             getenv("SERVER_PORT", "8080"),
		GinMode:                os.Getenv("GIN_MODE"),
		JWTSecret:              jwtSecret,
		JWTExpiration:          time.Duration(getenvInt("JWT_EXPIRATION_HOURS", 0)) * time.Hour,
		DB:                     dbCfg,
		BootstrapSchema:        getenvBool("DB_BOOTSTRAP_SCHEMA", false),
		RedisAddr:              os.Getenv("REDIS_ADDR"),
		RedisPassword:          os.Getenv("REDIS_PASSWORD"),
		RedisDB:                getenvInt("REDIS_DB", 0),
		LoginRateLimit:         getenvInt("LOGIN_RATE_LIMIT", 10),
		LoginRateWindow:        getenvDuration("LOGIN_RATE_WINDOW", time.Minute),
		DefaultStudentPassword: getenv("DEFAULT_STUDENT_PASSWORD", "passwd"),
		ExposeErrorDetails:     getenvBool("EXPOSE_ERROR_DETAILS", false),
		LogLevel:               getenv("LOG_LEVEL", "info"),
		LogFormat:              getenv("LOG_FORMAT", "console"),
	}

	if sandboxName := os.Getenv("SANDBOX_DB_NAME"); sandboxName != "" {
		sandbox := *dbCfg
		sandbox.Name = sandboxName
		cfg.SandboxDB = &sandbox
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if val := os.Getenv(key); val != "" {
			return val
		}
	}
	return ""
}

func getenvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}
