package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	StorageDriver  string
	MigrationsPath string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	// Refresh Token Config
	RefreshTokenExpiryDuration time.Duration
	RefreshTokenCookieName     string
	RefreshTokenCookiePath     string
	RefreshTokenSecret         string

	// External OAuth Providers
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	FrontendBaseURL    string

	// AdminEmails are lower-cased.
	AdminEmails []string

	// Rate limiting. Rates use the ulule "<limit>-<period>" format.
	RedisURL       string
	LoginRateLimit string
	APIRateLimit   string

	PosthogAPIKey   string
	PosthogEndpoint string

	KafkaBrokers     []string
	KafkaLedgerTopic string

	PaystackSecretKey string
	PaystackBaseURL   string

	BundleAPIBaseURL string
	BundleAPIKey     string
	BundleAPITimeout time.Duration

	RefundOnDeliveryFailure bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("STORAGE_DRIVER", StorageDriverPostgres)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	v.SetDefault("JWT_EXPIRY_DURATION", "1h")
	v.SetDefault("JWT_ISSUER", "bundle-wallet")
	v.SetDefault("REFRESH_TOKEN_EXPIRY_DURATION", "168h")
	v.SetDefault("REFRESH_TOKEN_COOKIE_NAME", "rtid")
	v.SetDefault("REFRESH_TOKEN_COOKIE_PATH", "/api/v1/auth")
	v.SetDefault("REFRESH_TOKEN_SECRET", "default_insecure_refresh_secret_please_change_this_!@#$")
	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("GOOGLE_CLIENT_SECRET", "")
	v.SetDefault("GOOGLE_REDIRECT_URL", "")
	v.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	v.SetDefault("ADMIN_EMAILS", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("LOGIN_RATE_LIMIT", "5-M")
	v.SetDefault("API_RATE_LIMIT", "120-M")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("POSTHOG_ENDPOINT", "https://eu.i.posthog.com")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_LEDGER_TOPIC", "ledger.entry_committed")
	v.SetDefault("PAYSTACK_SECRET_KEY", "")
	v.SetDefault("PAYSTACK_BASE_URL", "https://api.paystack.co")
	v.SetDefault("BUNDLE_API_BASE_URL", "https://cheap-bundles-ghana.azurewebsites.net")
	v.SetDefault("BUNDLE_API_KEY", "")
	v.SetDefault("BUNDLE_API_TIMEOUT", "30s")
	v.SetDefault("REFUND_ON_DELIVERY_FAILURE", true)
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{
		DatabaseURL:             v.GetString("PGSQL_URL"),
		StorageDriver:           strings.ToLower(v.GetString("STORAGE_DRIVER")),
		MigrationsPath:          v.GetString("MIGRATIONS_PATH"),
		Port:                    v.GetString("PORT"),
		IsProduction:            v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:           v.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:               v.GetString("JWT_SECRET"),
		JWTIssuer:               v.GetString("JWT_ISSUER"),
		RefreshTokenCookieName:  v.GetString("REFRESH_TOKEN_COOKIE_NAME"),
		RefreshTokenCookiePath:  v.GetString("REFRESH_TOKEN_COOKIE_PATH"),
		RefreshTokenSecret:      v.GetString("REFRESH_TOKEN_SECRET"),
		GoogleClientID:          v.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:      v.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:       v.GetString("GOOGLE_REDIRECT_URL"),
		FrontendBaseURL:         v.GetString("FRONTEND_BASE_URL"),
		AdminEmails:             splitList(v.GetString("ADMIN_EMAILS"), true),
		RedisURL:                v.GetString("REDIS_URL"),
		LoginRateLimit:          v.GetString("LOGIN_RATE_LIMIT"),
		APIRateLimit:            v.GetString("API_RATE_LIMIT"),
		PosthogAPIKey:           v.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint:         v.GetString("POSTHOG_ENDPOINT"),
		KafkaBrokers:            splitList(v.GetString("KAFKA_BROKERS"), false),
		KafkaLedgerTopic:        v.GetString("KAFKA_LEDGER_TOPIC"),
		PaystackSecretKey:       v.GetString("PAYSTACK_SECRET_KEY"),
		PaystackBaseURL:         strings.TrimRight(v.GetString("PAYSTACK_BASE_URL"), "/"),
		BundleAPIBaseURL:        strings.TrimRight(v.GetString("BUNDLE_API_BASE_URL"), "/"),
		BundleAPIKey:            v.GetString("BUNDLE_API_KEY"),
		RefundOnDeliveryFailure: v.GetBool("REFUND_ON_DELIVERY_FAILURE"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	switch cfg.StorageDriver {
	case StorageDriverPostgres:
		if cfg.DatabaseURL == "" {
			log.Println("Warning: PGSQL_URL environment variable not set.")
		}
	case StorageDriverMemory:
		log.Println("Warning: STORAGE_DRIVER=memory. Wallet data will not survive a restart.")
	default:
		log.Printf("Warning: Unknown STORAGE_DRIVER ('%s'). Defaulting to %s.\n", cfg.StorageDriver, StorageDriverPostgres)
		cfg.StorageDriver = StorageDriverPostgres
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "bundle-wallet"
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", cfg.JWTIssuer)
	}
	if cfg.RefreshTokenSecret == "" {
		cfg.RefreshTokenSecret = "default_insecure_refresh_secret_please_change_this_!@#$"
		log.Println("Warning: REFRESH_TOKEN_SECRET is not set, using default insecure secret. THIS IS NOT FOR PRODUCTION.")
	}

	cfg.JWTExpiryDuration = parseDuration(v, "JWT_EXPIRY_DURATION", time.Hour)
	cfg.RefreshTokenExpiryDuration = parseDuration(v, "REFRESH_TOKEN_EXPIRY_DURATION", 7*24*time.Hour)
	cfg.BundleAPITimeout = parseDuration(v, "BUNDLE_API_TIMEOUT", 30*time.Second)

	if cfg.GoogleClientID == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID not set. Google OAuth will not function.")
	}
	if cfg.PaystackSecretKey == "" {
		log.Println("Warning: PAYSTACK_SECRET_KEY not set. Deposits and webhooks will be rejected.")
	}
	if cfg.BundleAPIKey == "" {
		log.Println("Warning: BUNDLE_API_KEY not set. Bundle deliveries will fail.")
	}
	if len(cfg.AdminEmails) == 0 {
		log.Println("Warning: ADMIN_EMAILS not set. Admin endpoints are unreachable.")
	}

	return cfg
}

// parseDuration reads a Go duration string such as "60m" or "1h", falling back on bad input.
func parseDuration(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		}
		return fallback
	}
	return d
}

func splitList(raw string, lower bool) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if lower {
			part = strings.ToLower(part)
		}
		out = append(out, part)
	}
	return out
}

// IsAdminEmail reports whether email is on the configured admin list.
func (c *Config) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, admin := range c.AdminEmails {
		if admin == email {
			return true
		}
	}
	return false
}
