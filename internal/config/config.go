package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	AppURL  string
	Port    string

	// Honor X-Forwarded-For / X-Real-IP (only behind a reverse proxy)
	TrustProxy bool

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Push (Firebase Cloud Messaging)
	FirebaseProjectID       string
	FirebaseCredentialsFile string
	DefaultTitle            string

	// Queue tasks
	DrainInterval    time.Duration
	DrainBatchSize   int
	CleanupInterval  time.Duration
	CleanupBatchSize int
	Retention        time.Duration

	// Email (caregiver contact)
	EmailFrom    string
	ResendAPIKey string

	// Observability (optional)
	SentryDSN string
}

func Load() *Config {
	loadDotEnv()

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "Aqua Buddy"),
		AppEnv:  envString("APP_ENV", "development"),
		AppURL:  envString("APP_URL", ""),
		Port:    envString("PORT", "8090"),

		TrustProxy: envBool("TRUST_PROXY", false),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/aquabuddy.db?_pragma=journal_mode(WAL)"),

		// Push
		FirebaseProjectID:       envString("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentialsFile: envString("FIREBASE_CREDENTIALS_FILE", ""),
		DefaultTitle:            envString("NOTIFICATION_DEFAULT_TITLE", "Aqua Buddy 💧"),

		// Queue tasks
		DrainInterval:    envDuration("DRAIN_INTERVAL", 1*time.Minute),
		DrainBatchSize:   envInt("DRAIN_BATCH_SIZE", 100),
		CleanupInterval:  envDuration("CLEANUP_INTERVAL", 24*time.Hour),
		CleanupBatchSize: envInt("CLEANUP_BATCH_SIZE", 500),
		Retention:        envDuration("RETENTION", 168*time.Hour), // 7 days

		// Email (RESEND_API_KEY optional in development, required in production)
		EmailFrom:    envString("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),
	}

	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// ClientConfig configures the aquabuddy command line client.
type ClientConfig struct {
	Debug     bool
	StatePath string
	ServerURL string
	PushToken string

	// Remote push reminders are queued this many minutes ahead when set.
	RemoteDelayMinutes int

	// Backups (S3-compatible, optional)
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string
}

func LoadClient() *ClientConfig {
	loadDotEnv()

	return &ClientConfig{
		Debug:              envBool("AQUA_DEBUG", false),
		StatePath:          envString("AQUA_STATE_PATH", defaultStatePath()),
		ServerURL:          envString("AQUA_SERVER_URL", "http://localhost:8090"),
		PushToken:          envString("AQUA_PUSH_TOKEN", ""),
		RemoteDelayMinutes: envInt("AQUA_REMOTE_DELAY_MINUTES", 0),

		S3Region:    envString("S3_REGION", "us-east-1"),
		S3Bucket:    envString("S3_BUCKET", ""),
		S3AccessKey: envString("S3_ACCESS_KEY", ""),
		S3SecretKey: envString("S3_SECRET_KEY", ""),
		S3Endpoint:  envString("S3_ENDPOINT", ""),
	}
}

func loadDotEnv() {
	err := godotenv.Load()
	if err != nil {
		slog.Debug("no .env file found, using environment variables")
	}
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "aquabuddy.db"
	}
	return dir + string(os.PathSeparator) + "aquabuddy" + string(os.PathSeparator) + "state.db"
}

// validateProduction ensures push delivery is configured for production deployments.
// Development falls back to logging payloads instead of sending them.
func validateProduction(cfg *Config) {
	if cfg.FirebaseProjectID == "" {
		slog.Error("production deployment requires FIREBASE_PROJECT_ID",
			"hint", "set APP_ENV=development for local testing with push log mode")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
