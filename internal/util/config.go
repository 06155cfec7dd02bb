package util

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

//nolint:gochecknoglobals // here its ok
var once sync.Once

func init() {
	once.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			log.Printf("Warning: could not load .env file: %v", err)
		}
	})
}

const (
	defaultServerAddr      = "localhost:8080"
	defaultWriteTimeout    = 10 * time.Second
	defaultReadTimeout     = 10 * time.Second
	defaultIdleTimeout     = 30 * time.Second
	defaultGracefulTimeout = 5 * time.Second

	defaultSessionTTL = 24 * time.Hour

	minSessionSecretLength = 32

	JWTLeeWay = 5 * time.Second
)

// insecureSecrets are placeholder values that must never reach production.
//
//nolint:gochecknoglobals
var insecureSecrets = map[string]struct{}{
	"changeme":                          {},
	"secret":                            {},
	"dev-secret":                        {},
	"insecure":                          {},
	"your-secret-key":                   {},
	"please-change-me-32-chars-minimum": {},
}

type ServerConfig struct {
	ServerAddr      string
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	IdleTimeout     time.Duration
	GracefulTimeout time.Duration
	Development     bool
}

func NewServerConfig() *ServerConfig {
	addr := os.Getenv("SERVER_ADDRESS")
	if addr == "" {
		addr = defaultServerAddr
	}

	return &ServerConfig{
		ServerAddr:      addr,
		WriteTimeout:    parseDurationOrDefault("WRITE_TIMEOUT", defaultWriteTimeout),
		ReadTimeout:     parseDurationOrDefault("READ_TIMEOUT", defaultReadTimeout),
		IdleTimeout:     parseDurationOrDefault("IDLE_TIMEOUT", defaultIdleTimeout),
		GracefulTimeout: parseDurationOrDefault("GRACEFUL_TIMEOUT", defaultGracefulTimeout),
		Development:     os.Getenv("APP_ENV") != "production",
	}
}

type SessionConfig struct {
	SecretKey  []byte `validate:"required,min=32"`
	SessionTTL time.Duration
	Secure     bool
}

// NewSessionConfig reads and validates the session-signing configuration.
// A missing, short, or known-placeholder secret is a startup failure, not a
// first-request failure.
func NewSessionConfig() (*SessionConfig, error) {
	secret := os.Getenv("SESSION_SECRET")
	if _, insecure := insecureSecrets[strings.ToLower(secret)]; insecure {
		return nil, fmt.Errorf("SESSION_SECRET is a known placeholder value; set a real secret")
	}

	cfg := &SessionConfig{
		SecretKey:  []byte(secret),
		SessionTTL: parseDurationOrDefault("SESSION_TTL", defaultSessionTTL),
		Secure:     os.Getenv("APP_ENV") == "production",
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("SESSION_SECRET must be set and at least %d characters: %w", minSessionSecretLength, err)
	}
	return cfg, nil
}

type AdminConfig struct {
	Username     string `validate:"required"`
	PasswordHash string `validate:"required,startswith=$2"`
}

// NewAdminConfig reads the single admin credential pair. The password is only
// ever configured as a bcrypt hash; plaintext never touches the configuration.
func NewAdminConfig() (*AdminConfig, error) {
	cfg := &AdminConfig{
		Username:     os.Getenv("ADMIN_USERNAME"),
		PasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD_HASH (bcrypt) must be set: %w", err)
	}
	return cfg, nil
}

// RateLimitRule is the ceiling and window for one operation class.
type RateLimitRule struct {
	Ceiling int
	Window  time.Duration
}

type RateLimitConfig struct {
	Rules         map[string]RateLimitRule
	SweepInterval time.Duration
}

// Operation classes known to the limiter.
const (
	RateClassLogin          = "login"
	RateClassContact        = "contact"
	RateClassAPI            = "api"
	RateClassUpload         = "upload"
	RateClassPasswordChange = "password-change"
)

// NewRateLimitConfig builds the per-class rule table. Defaults follow the
// deployment's historical values; every rule can be overridden through
// RATE_LIMIT_<CLASS>_CEILING / RATE_LIMIT_<CLASS>_WINDOW.
func NewRateLimitConfig() *RateLimitConfig {
	defaults := map[string]RateLimitRule{
		RateClassLogin:          {Ceiling: 5, Window: 15 * time.Minute},
		RateClassContact:        {Ceiling: 3, Window: time.Hour},
		RateClassAPI:            {Ceiling: 100, Window: time.Minute},
		RateClassUpload:         {Ceiling: 10, Window: time.Minute},
		RateClassPasswordChange: {Ceiling: 3, Window: time.Hour},
	}

	rules := make(map[string]RateLimitRule, len(defaults))
	for class, rule := range defaults {
		envClass := strings.ToUpper(strings.ReplaceAll(class, "-", "_"))
		rules[class] = RateLimitRule{
			Ceiling: parseIntOrDefault("RATE_LIMIT_"+envClass+"_CEILING", rule.Ceiling),
			Window:  parseDurationOrDefault("RATE_LIMIT_"+envClass+"_WINDOW", rule.Window),
		}
	}

	return &RateLimitConfig{
		Rules:         rules,
		SweepInterval: parseDurationOrDefault("RATE_LIMIT_SWEEP_INTERVAL", 5*time.Minute),
	}
}

type BlobConfig struct {
	Endpoint  string `validate:"required"`
	AccessKey string `validate:"required"`
	SecretKey string `validate:"required"`
	Bucket    string `validate:"required"`
	UseSSL    bool
	PublicURL string `validate:"required,url"`
}

func NewBlobConfig() (*BlobConfig, error) {
	cfg := &BlobConfig{
		Endpoint:  os.Getenv("BLOB_ENDPOINT"),
		AccessKey: os.Getenv("BLOB_ACCESS_KEY"),
		SecretKey: os.Getenv("BLOB_SECRET_KEY"),
		Bucket:    os.Getenv("BLOB_BUCKET"),
		UseSSL:    os.Getenv("BLOB_USE_SSL") == "true",
		PublicURL: os.Getenv("BLOB_PUBLIC_URL"),
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("blob storage configuration incomplete: %w", err)
	}
	return cfg, nil
}

type AuditConfig struct {
	QueueSize int
}

func NewAuditConfig() *AuditConfig {
	return &AuditConfig{
		QueueSize: parseIntOrDefault("AUDIT_QUEUE_SIZE", 256),
	}
}

// GetRedisAddr returns the optional Redis address; empty means the in-memory
// rate-limit store is used.
func GetRedisAddr() string {
	return os.Getenv("REDIS_ADDR")
}

func parseDurationOrDefault(varName string, def time.Duration) time.Duration {
	if v := os.Getenv(varName); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("Invalid duration in %s: %s, using default %s", varName, v, def)
	}
	return def
}

func parseIntOrDefault(varName string, def int) int {
	if v := os.Getenv(varName); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("Invalid integer in %s: %s, using default %d", varName, v, def)
	}
	return def
}
