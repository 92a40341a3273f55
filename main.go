package main

import (
	"log"

	"github.com/assessio/assessment-service/config"
	"github.com/assessio/assessment-service/internal/consumer"
	"github.com/assessio/assessment-service/internal/handler"
	"github.com/assessio/assessment-service/internal/middleware"
	"github.com/assessio/assessment-service/internal/models"
	"github.com/assessio/assessment-service/internal/repository"
	"github.com/assessio/assessment-service/internal/service"
	"github.com/assessio/assessment-service/pkg/cache"
	"github.com/assessio/assessment-service/pkg/database"
	"github.com/assessio/assessment-service/pkg/metrics"
	"github.com/assessio/assessment-service/pkg/rabbitmq"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()

	db := database.NewPostgresDB(cfg.DSN())

	// Redis backs the organization token cache
	rdb, err := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer rdb.Close()
	tokenCache := cache.NewTokenCache(rdb)

	// RabbitMQ: booking telemetry out, grading results in
	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer publisher.Close()

	mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ consumer: %v", err)
	}
	defer mqConsumer.Close()

	msgs, err := mqConsumer.Consume()
	if err != nil {
		log.Fatalf("failed to start consuming: %v", err)
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New(prometheus.DefaultRegisterer)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	specialUserRepo := repository.NewSpecialUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	testRepo := repository.NewTestRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	resultRepo := repository.NewResultRepository(db)
	txManager := repository.NewTxManager(db)

	resultConsumer := consumer.NewResultConsumer(resultRepo)
	resultConsumer.Start(msgs)

	// Services
	bookingSvc := service.NewBookingService(
		bookingRepo, testRepo, userRepo, txManager,
		publisher, m,
		models.ParseRole(cfg.BookingRole), cfg.BookingTimezone,
	)
	orgSvc := service.NewOrganizationService(orgRepo, userRepo, testRepo, resultRepo, tokenCache, m)
	profileSvc := service.NewProfileService(userRepo, specialUserRepo, orgRepo)

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.NewErrorHandler(cfg.IsDevelopment())
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "assessment-service"})
	})
	if cfg.MetricsEnabled {
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	auth := middleware.Auth(cfg.JWTSecret)
	handler.NewBookingHandler(bookingSvc, profileSvc).RegisterRoutes(e, auth)
	handler.NewOrganizationHandler(orgSvc, profileSvc).RegisterRoutes(e, auth)
	handler.NewProfileHandler(profileSvc).RegisterRoutes(e, auth)

	log.Printf("Assessment Service starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
