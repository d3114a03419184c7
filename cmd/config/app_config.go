package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"mealbridge/internal/api/handlers"
	"mealbridge/internal/api/routes"
	"mealbridge/internal/middleware"
	"mealbridge/internal/utils"
	"mealbridge/internal/utils/mailing"
	"mealbridge/pkg/donation"
	"mealbridge/pkg/geocoding"
	"mealbridge/pkg/jwt"
	"mealbridge/pkg/metrics"
	"mealbridge/pkg/notification"
	"mealbridge/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// NewApp builds the fiber application. A nil db runs both stores in memory.
func NewApp(db *gorm.DB) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	logDir := utils.GetConfig("LOG_DIR")
	if err := os.MkdirAll(logDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("error creating logs directory: %w", err)
	}
	file, err := os.OpenFile(
		filepath.Join(logDir, "app.log"),
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		return nil, fmt.Errorf("error opening log file: %w", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.New(registry)
	metricsHandler := adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// collaborators
	secret := utils.GetConfig("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not configured")
	}
	jwtService := jwt.NewJWTService(secret)

	geocoder, err := newGeocoder()
	if err != nil {
		return nil, err
	}
	notifier := newNotifier()

	// Repository
	var (
		userRepository     user.UserRepository
		donationRepository donation.DonationRepository
	)
	if db != nil {
		userRepository = user.NewUserRepository(db)
		donationRepository = donation.NewDonationRepository(db)
	} else {
		log.Warn("DB_HOST is empty, running on the in-memory store")
		userRepository = user.NewInMemoryUserRepository()
		donationRepository = donation.NewInMemoryDonationRepository()
	}

	// Service
	donationService := donation.NewDonationService(
		donationRepository,
		userRepository,
		geocoder,
		notifier,
		appMetrics,
	)
	if _, err := donationService.ExpireOverdueDonations(context.Background()); err != nil {
		return nil, err
	}

	// Handler
	donationHandler := handlers.NewDonationHandler(donationService, validator)
	geocodeHandler := handlers.NewGeocodeHandler(geocoder, validator)

	// routes
	routesConfig := routes.Config{
		App:             app,
		DonationHandler: donationHandler,
		GeocodeHandler:  geocodeHandler,
		Middleware:      middlewares,
		JWTService:      jwtService,
		MetricsHandler:  metricsHandler,
	}
	routesConfig.Setup()
	return app, nil
}

// newGeocoder returns nil when no API key is configured. Lookups are cached
// in redis when REDIS_URL is set.
func newGeocoder() (geocoding.Geocoder, error) {
	apiKey := utils.GetConfig("GEOCODER_API_KEY")
	if apiKey == "" {
		log.Warn("GEOCODER_API_KEY is empty, geocoding disabled")
		return nil, nil
	}
	geocoder := geocoding.NewOpenCageGeocoder(apiKey, utils.GetConfig("GEOCODER_URL"))

	redisURL := utils.GetConfig("REDIS_URL")
	if redisURL == "" {
		return geocoder, nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	return geocoding.NewCachedGeocoder(geocoder, redis.NewClient(opts), geocoding.DefaultCacheTTL), nil
}

func newNotifier() notification.Notifier {
	mailConfig := mailing.LoadMailConfig()
	if !mailConfig.Enabled() {
		log.Warn("SMTP is not configured, accept notifications disabled")
		return nil
	}
	return notification.NewMailNotifier(mailing.NewMailer(mailConfig))
}
