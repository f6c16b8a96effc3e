package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration loaded from environment variables
// with defaults for local development. Optional integrations are disabled
// when their address is empty.
type Config struct {
	AppName  string
	Env      string // development, staging, production
	Port     string
	GinMode  string
	LogLevel string

	// Retail backend
	BackendBaseURL   string
	BackendTimeout   time.Duration
	BreakerFailures  int
	BreakerOpenDelay time.Duration
	TokenRefreshSkew time.Duration
	ProductCacheTTL  time.Duration

	// Visitor state
	CartTTL       time.Duration
	SessionTTL    time.Duration
	VisitorSecret string
	VisitorTTL    time.Duration
	CookieDomain  string
	CookieSecure  bool

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Reporting database; empty DSN disables it
	DatabaseURL     string
	DBMaxConns      int32
	DBMinConns      int32
	DBMaxConnLife   time.Duration
	MigrationsDir   string
	AnalyticsSource string // api or postgres

	// Google Cloud Storage; empty bucket forwards uploads to the backend
	GCSBucket              string
	GCSCredentialsJSONPath string
	GCSImagePrefix         string

	// Elasticsearch; empty addresses disable indexed search
	ElasticsearchAddrs string // comma-separated
	ElasticsearchUser  string
	ElasticsearchPass  string
	ESProductsIndex    string
	ReindexOnStartup   bool

	// RabbitMQ; empty URL disables order emails
	RabbitMQURL        string
	RabbitMQEmailQueue string

	// Mailgun
	MailgunDomain  string
	MailgunAPIKey  string
	MailgunSender  string
	MailgunAPIBase string

	// Branding for emails
	StoreName  string
	SupportURL string
	OrdersURL  string

	MailSendEnabled bool

	// CORS
	CORSAllowedOrigins string // comma-separated

	// Rate limit for public and debug routes
	RateLimitPerMinute int

	DebugMetricsEnabled bool
	DebugPrivateOnly    bool
	HTTPLogEnabled      bool
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %v, using default %v", key, err, def)
			return def
		}
		return b
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid int for %s: %v, using default %d", key, err, def)
			return def
		}
		return i
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using default %v", key, err, def)
			return def
		}
		return d
	}
	return def
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		AppName:  getenv("APP_NAME", "go-storefront"),
		Env:      getenv("APP_ENV", "development"),
		Port:     getenv("PORT", "8080"),
		GinMode:  getenv("GIN_MODE", "release"),
		LogLevel: getenv("LOG_LEVEL", ""),

		BackendBaseURL:   getenv("BACKEND_BASE_URL", "http://localhost:8000/api"),
		BackendTimeout:   getdur("BACKEND_TIMEOUT", 10*time.Second),
		BreakerFailures:  getint("BACKEND_BREAKER_FAILURES", 5),
		BreakerOpenDelay: getdur("BACKEND_BREAKER_OPEN_DELAY", 30*time.Second),
		TokenRefreshSkew: getdur("TOKEN_REFRESH_SKEW", 30*time.Second),
		ProductCacheTTL:  getdur("PRODUCT_CACHE_TTL", 30*time.Second),

		CartTTL:       getdur("CART_TTL", 30*24*time.Hour),
		SessionTTL:    getdur("SESSION_TTL", 30*24*time.Hour),
		VisitorSecret: getenv("VISITOR_SECRET", "devvisitorsecret"),
		VisitorTTL:    getdur("VISITOR_TTL", 365*24*time.Hour),
		CookieDomain:  getenv("COOKIE_DOMAIN", "localhost"),
		CookieSecure:  getbool("COOKIE_SECURE", false),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getint("REDIS_DB", 0),

		DatabaseURL:     getenv("DATABASE_URL", ""),
		DBMaxConns:      int32(getint("DB_MAX_CONNS", 10)),
		DBMinConns:      int32(getint("DB_MIN_CONNS", 2)),
		DBMaxConnLife:   getdur("DB_MAX_CONN_LIFETIME", time.Hour),
		MigrationsDir:   getenv("MIGRATIONS_DIR", "db/migrations"),
		AnalyticsSource: getenv("ANALYTICS_SOURCE", "api"),

		GCSBucket:              getenv("GCS_BUCKET", ""),
		GCSCredentialsJSONPath: getenv("GCS_CREDENTIALS_JSON", ""),
		GCSImagePrefix:         getenv("GCS_IMAGE_PREFIX", "products"),

		ElasticsearchAddrs: getenv("ELASTICSEARCH_ADDRS", ""),
		ElasticsearchUser:  getenv("ELASTICSEARCH_USERNAME", ""),
		ElasticsearchPass:  getenv("ELASTICSEARCH_PASSWORD", ""),
		ESProductsIndex:    getenv("ES_PRODUCTS_INDEX", "products"),
		ReindexOnStartup:   getbool("ES_REINDEX_ON_STARTUP", false),

		RabbitMQURL:        getenv("RABBITMQ_URL", ""),
		RabbitMQEmailQueue: getenv("RABBITMQ_EMAIL_QUEUE", "order-emails"),

		MailgunDomain:  getenv("MAILGUN_DOMAIN", ""),
		MailgunAPIKey:  getenv("MAILGUN_API_KEY", ""),
		MailgunSender:  getenv("MAILGUN_SENDER", ""),
		MailgunAPIBase: getenv("MAILGUN_API_BASE", ""),

		StoreName:  getenv("STORE_NAME", "Storefront"),
		SupportURL: getenv("SUPPORT_URL", ""),
		OrdersURL:  getenv("ORDERS_URL", ""),

		MailSendEnabled: getbool("MAIL_SEND_ENABLED", true),

		CORSAllowedOrigins: getenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),

		RateLimitPerMinute: getint("RATE_LIMIT_PER_MINUTE", 120),

		DebugMetricsEnabled: getbool("DEBUG_METRICS_ENABLED", true),
		DebugPrivateOnly:    getbool("DEBUG_PRIVATE_ONLY", true),
		HTTPLogEnabled:      getbool("HTTP_LOG_ENABLED", false),
	}
}

// CORSOrigins returns the allowed origins as slice
func (c *Config) CORSOrigins() []string {
	return splitList(c.CORSAllowedOrigins)
}

// ESAddrs returns Elasticsearch addresses as a slice
func (c *Config) ESAddrs() []string {
	return splitList(c.ElasticsearchAddrs)
}

// AnalyticsFromPostgres reports whether dashboards read the reporting mirror.
func (c *Config) AnalyticsFromPostgres() bool {
	return c.AnalyticsSource == "postgres" && c.DatabaseURL != ""
}

// splitList parses a comma separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, a := range strings.Split(s, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}
