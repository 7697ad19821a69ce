package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the console.
type Config struct {
	App       AppConfig
	Authority AuthorityConfig
	Session   SessionConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Console   ConsoleConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// AuthorityConfig locates the remote login authority.
type AuthorityConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// SessionConfig selects and parameterizes session persistence.
type SessionConfig struct {
	Backend   string
	StateFile string
}

// Session storage backends.
const (
	SessionBackendFile  = "file"
	SessionBackendRedis = "redis"
)

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// ConsoleConfig holds the navigation constants the session core treats as
// injected values: the login route, the protected shell route, and the two
// UI timing knobs.
type ConsoleConfig struct {
	LoginPath          string
	ShellPath          string
	NavigateDelayMS    int
	FeedbackTTLSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	backend := getEnv("SESSION_BACKEND", SessionBackendFile)
	if backend != SessionBackendFile && backend != SessionBackendRedis {
		return nil, fmt.Errorf("invalid SESSION_BACKEND: %q", backend)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "station-console"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Authority: AuthorityConfig{
			BaseURL:        getEnv("AUTHORITY_BASE_URL", "http://127.0.0.1:9090"),
			TimeoutSeconds: getEnvAsInt("AUTHORITY_TIMEOUT_SECONDS", 15),
		},
		Session: SessionConfig{
			Backend:   backend,
			StateFile: getEnv("SESSION_STATE_FILE", ".station-console/session.json"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Console: ConsoleConfig{
			LoginPath:          getEnv("CONSOLE_LOGIN_PATH", "/sign-in"),
			ShellPath:          getEnv("CONSOLE_SHELL_PATH", "/dashboard"),
			NavigateDelayMS:    getEnvAsInt("CONSOLE_NAVIGATE_DELAY_MS", 500),
			FeedbackTTLSeconds: getEnvAsInt("CONSOLE_FEEDBACK_TTL_SECONDS", 6),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the authority call timeout duration.
func (a AuthorityConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// NavigateDelay returns the delay between a successful login and the
// scheduled navigation to the shell.
func (c ConsoleConfig) NavigateDelay() time.Duration {
	if c.NavigateDelayMS < 0 {
		return 0
	}
	return time.Duration(c.NavigateDelayMS) * time.Millisecond
}

// FeedbackTTL returns how long a feedback notice stays visible.
func (c ConsoleConfig) FeedbackTTL() time.Duration {
	if c.FeedbackTTLSeconds <= 0 {
		return 6 * time.Second
	}
	return time.Duration(c.FeedbackTTLSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
