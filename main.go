package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/laiysh/guestlist/config"
	"github.com/laiysh/guestlist/internal/consumer"
	"github.com/laiysh/guestlist/internal/handler"
	"github.com/laiysh/guestlist/internal/mailer"
	"github.com/laiysh/guestlist/internal/middleware"
	"github.com/laiysh/guestlist/internal/notify"
	"github.com/laiysh/guestlist/internal/repository"
	"github.com/laiysh/guestlist/internal/service"
	"github.com/laiysh/guestlist/pkg/database"
	"github.com/laiysh/guestlist/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("component", "http").Logger()

	db := database.NewPostgresDB(cfg.DSN())

	// RabbitMQ: lifecycle operations enqueue notification jobs, the consumer
	// below sends them. A dead broker is fatal at startup, not at runtime.
	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer publisher.Close()

	mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer mqConsumer.Close()

	msgs, err := mqConsumer.Consume()
	if err != nil {
		log.Fatalf("failed to start consuming: %v", err)
	}

	notificationConsumer := consumer.NewNotificationConsumer(mailer.New(cfg))
	notificationConsumer.Start(msgs)

	// Repository, service, dispatcher
	guestRepo := repository.NewGuestRepository(db)
	dispatcher := notify.NewQueueDispatcher(publisher)
	guestSvc := service.NewGuestService(guestRepo, dispatcher)

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			logger.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Msg("request")
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "guestlist"})
	})

	handler.NewGuestHandler(guestSvc).RegisterRoutes(e)

	go func() {
		logger.Info().Str("port", cfg.ServerPort).Msg("guestlist service starting")
		if err := e.Start(":" + cfg.ServerPort); err != nil {
			logger.Info().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown: %v", err)
	}
}
