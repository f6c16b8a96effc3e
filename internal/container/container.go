// Package container builds the shared infrastructure and services once at
// startup and hands them to the router.
package container

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-storefront/config"
	"github.com/oksasatya/go-storefront/internal/application/cart"
	"github.com/oksasatya/go-storefront/internal/application/catalog"
	"github.com/oksasatya/go-storefront/internal/application/checkout"
	"github.com/oksasatya/go-storefront/internal/application/session"
	"github.com/oksasatya/go-storefront/internal/domain/repository"
	"github.com/oksasatya/go-storefront/internal/infrastructure/api"
	"github.com/oksasatya/go-storefront/internal/infrastructure/postgres"
	"github.com/oksasatya/go-storefront/internal/infrastructure/redisstore"
	"github.com/oksasatya/go-storefront/internal/infrastructure/search"
	"github.com/oksasatya/go-storefront/pkg/helpers"
	mailtpl "github.com/oksasatya/go-storefront/pkg/mailer/templates"
)

// Container holds everything the HTTP modules need. Optional integrations
// (Pool, ES, GCS, Rabbit) are nil when not configured.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	Redis  *redis.Client
	Pool   *pgxpool.Pool
	ES     *elasticsearch.Client
	GCS    *storage.Client
	Rabbit *helpers.RabbitPublisher

	JWT     *helpers.JWTManager
	Cookies *helpers.CookieManager
	Backend *api.Client

	Products *redisstore.ProductCache
	Carts    *cart.Store
	Sessions *session.Service
	Catalog  *catalog.Service
	Notifier *checkout.Notifier
	Checkout *checkout.Service
	Reports  *postgres.ReportRepository
	Images   *helpers.GCSImageStore
}

// New connects the configured integrations. Redis is required; the rest are
// skipped when their address is empty.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	c.Redis = helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := helpers.WaitForRedis(ctx, c.Redis, 5, time.Second); err != nil {
		c.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}

	if cfg.DatabaseURL != "" {
		pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
			DSN:         cfg.DatabaseURL,
			MaxConns:    cfg.DBMaxConns,
			MinConns:    cfg.DBMinConns,
			MaxConnLife: cfg.DBMaxConnLife,
		})
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("postgres: %w", err)
		}
		c.Pool = pool
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir, logger); err != nil {
			c.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
		c.Reports = postgres.NewReportRepository(pool)
	}

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("elasticsearch: %w", err)
		}
		if err := helpers.PingES(ctx, es); err != nil {
			logger.WithError(err).Warn("elasticsearch not answering, search falls back to the product list")
		}
		c.ES = es
	}

	if cfg.GCSBucket != "" {
		gcs, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("gcs: %w", err)
		}
		c.GCS = gcs
		c.Images = &helpers.GCSImageStore{Client: gcs, Bucket: cfg.GCSBucket, Prefix: cfg.GCSImagePrefix}
	}

	if cfg.RabbitMQURL != "" && cfg.MailSendEnabled {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			// order emails are optional; checkout keeps working without them
			logger.WithError(err).Warn("rabbitmq unavailable, order emails disabled")
		} else {
			c.Rabbit = pub
		}
	}

	c.wire()
	return c, nil
}

func (c *Container) wire() {
	cfg := c.Config
	c.JWT = helpers.NewJWTManager(cfg.VisitorSecret, cfg.VisitorTTL)
	c.Cookies = helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)
	c.Backend = api.New(api.Options{
		BaseURL:          cfg.BackendBaseURL,
		Timeout:          cfg.BackendTimeout,
		BreakerFailures:  uint32(cfg.BreakerFailures),
		BreakerOpenDelay: cfg.BreakerOpenDelay,
		Logger:           c.Logger,
	})

	c.Products = redisstore.NewProductCache(c.Backend, c.Redis, cfg.ProductCacheTTL, c.Logger)
	c.Carts = cart.NewStore(redisstore.NewCartStorage(c.Redis, cfg.CartTTL), c.Logger)
	c.Sessions = session.NewService(c.Backend, func(visitorID string) repository.CredentialStore {
		return redisstore.NewCredentialStore(c.Redis, visitorID, cfg.SessionTTL)
	}, session.Options{RefreshSkew: cfg.TokenRefreshSkew, Logger: c.Logger})

	var index catalog.SearchIndex
	if c.ES != nil {
		index = search.NewProductIndex(c.ES, cfg.ESProductsIndex)
	}
	c.Catalog = catalog.NewService(c.Products, index, c.Logger)

	c.Notifier = &checkout.Notifier{
		Store:  mailtpl.StoreInfo{StoreName: cfg.StoreName, SupportURL: cfg.SupportURL, OrdersURL: cfg.OrdersURL},
		Logger: c.Logger,
	}
	if c.Rabbit != nil {
		c.Notifier.Publisher = c.Rabbit
	}
	c.Checkout = checkout.NewService(c.Carts, c.Notifier, c.Logger)
}

// Close releases every connection that was opened.
func (c *Container) Close() {
	if c.Rabbit != nil {
		c.Rabbit.Close()
	}
	if c.GCS != nil {
		_ = c.GCS.Close()
	}
	if c.Pool != nil {
		c.Pool.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
