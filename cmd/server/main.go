package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"
	"go.uber.org/zap"

	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/config"
	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/database"
	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/handlers"
	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/models"
	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/routes"
	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/services"
	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/utils"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cfg, err := config.Load()
	if err != nil {
		zap.S().Fatalw("config load failed", "error", err)
	}
	if cfg.App.Env == "development" {
		if dev, err := zap.NewDevelopment(); err == nil {
			zap.ReplaceGlobals(dev)
		}
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	stripe.Key = cfg.Stripe.SecretKey
	if cfg.Stripe.WebhookSecret == "" {
		zap.S().Warnw("STRIPE_WEBHOOK_SECRET not set, webhook signature verification disabled")
	}

	ctx := context.Background()

	db, err := database.NewMySQL(cfg.MySQL)
	if err != nil {
		zap.S().Fatalw("mysql connection failed", "error", err)
	}

	rdb, err := database.NewRedis(ctx, cfg.Redis)
	if err != nil {
		zap.S().Warnw("redis unavailable, rate limiting and dashboard cache disabled", "error", err)
		rdb = nil
	}

	minioClient, err := database.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		zap.S().Fatalw("minio connection failed", "error", err)
	}

	esClient, err := database.NewElastic(cfg.Elastic)
	if err != nil {
		zap.S().Warnw("elasticsearch unavailable, falling back to sql search", "error", err)
		esClient = nil
	}

	// models
	users := models.NewUserModel(db)
	categories := models.NewCategoryModel(db)
	products := models.NewProductModel(db)
	stock := models.NewStockModel(db)
	carts := models.NewCartModel(db)
	campaigns := models.NewCampaignModel(db)
	orders := models.NewOrderModel(db)
	tracking := models.NewTrackingModel(db)
	addresses := models.NewAddressModel(db)
	reviews := models.NewReviewModel(db)
	favorites := models.NewFavoriteModel(db)
	banners := models.NewBannerModel(db)
	sales := models.NewSalesModel(db)
	audits := models.NewWebhookAuditModel(db)

	// services
	mailer := utils.NewMailer(cfg.SMTP)
	search := services.NewSearchService(esClient, products)
	images := services.NewImageStorage(minioClient, cfg.MinIO.Bucket, cfg.MinIO.Endpoint, cfg.MinIO.UseSSL)
	checkout := services.NewCheckoutService(carts, addresses, campaigns, cfg.App.FrontURL)
	orderSvc := services.NewOrderService(db, orders, mailer)

	services.StartCampaignSweep(ctx, campaigns, time.Hour)

	r := gin.Default()
	routes.Register(r, routes.Deps{
		JWTSecret:  cfg.JWT.Secret,
		FrontURL:   cfg.App.FrontURL,
		Redis:      rdb,
		Auth:       handlers.NewAuthHandler(users, cfg.JWT.Secret),
		Products:   handlers.NewProductHandler(products, stock, reviews, search, images),
		Categories: handlers.NewCategoryHandler(categories),
		Cart:       handlers.NewCartHandler(carts, products, campaigns),
		Checkout:   handlers.NewCheckoutHandler(checkout, orderSvc),
		Orders:     handlers.NewOrderHandler(orders, tracking, orderSvc),
		Campaigns:  handlers.NewCampaignHandler(campaigns),
		Reviews:    handlers.NewReviewHandler(reviews, products),
		Favorites:  handlers.NewFavoriteHandler(favorites, products),
		Addresses:  handlers.NewAddressHandler(addresses),
		Banners:    handlers.NewBannerHandler(banners, images),
		Users:      handlers.NewUserHandler(users),
		Sales:      handlers.NewSalesHandler(sales, rdb),
		Webhooks:   handlers.NewWebhookHandler(orderSvc, orders, audits, cfg.Stripe.WebhookSecret),
	})

	zap.S().Infow("server starting", "port", cfg.App.Port, "env", cfg.App.Env)
	if err := r.Run(":" + cfg.App.Port); err != nil {
		zap.S().Fatalw("server exited", "error", err)
	}
}
