package database

import (
	"context"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/config"
	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/models"
)

// NewMySQL opens the GORM handle, configures the underlying pool and runs
// migrations. The handle is passed into model constructors; nothing reads a
// package-level connection.
func NewMySQL(cfg config.MySQLConfig) (*gorm.DB, error) {
	db, err := gorm.Open(gormmysql.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	zap.S().Infow("connected to mysql", "host", cfg.Host, "database", cfg.Database)
	return db, nil
}

// Migrate creates/updates every table. Shared with the test helpers so the
// in-memory schema always matches production.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Category{},
		&models.Product{},
		&models.CartItem{},
		&models.Campaign{},
		&models.CampaignProduct{},
		&models.Order{},
		&models.OrderItem{},
		&models.StockHistory{},
		&models.ShippingAddress{},
		&models.ShippingTracking{},
		&models.Review{},
		&models.Favorite{},
		&models.Banner{},
		&models.WebhookAudit{},
	)
}

func NewRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	zap.S().Infow("connected to redis", "addr", cfg.Addr)
	return client, nil
}

// NewMinIO connects and makes sure the image bucket exists. Returns nil
// (not an error) when no endpoint is configured; image upload endpoints
// then reject with 503.
func NewMinIO(ctx context.Context, cfg config.MinIOConfig) (*minio.Client, error) {
	if cfg.Endpoint == "" {
		zap.S().Info("minio not configured, image uploads disabled")
		return nil, nil
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect minio: %w", err)
	}
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}
	zap.S().Infow("connected to minio", "endpoint", cfg.Endpoint, "bucket", cfg.Bucket)
	return client, nil
}

// NewElastic returns nil when no URL is configured; product search then
// falls back to SQL LIKE matching.
func NewElastic(cfg config.ElasticConfig) (*elasticsearch.Client, error) {
	if cfg.URL == "" {
		zap.S().Info("elasticsearch not configured, using sql product search")
		return nil, nil
	}
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.User,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("connect elasticsearch: %w", err)
	}
	defer res.Body.Close()
	zap.S().Infow("connected to elasticsearch", "url", cfg.URL)
	return client, nil
}
