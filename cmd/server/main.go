package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"eventmgt/internal/auth"
	"eventmgt/internal/config"
	apphttp "eventmgt/internal/http"
	"eventmgt/internal/notify"
	"eventmgt/internal/repository/sqlite"
	"eventmgt/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		logger.Fatalf("auth jwt secret is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := sqlite.NewUserRepository(db)
	eventRepo := sqlite.NewEventRepository(db)
	bookingRepo := sqlite.NewBookingRepository(db)

	if err := userRepo.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}
	if err := eventRepo.Init(ctx); err != nil {
		logger.Fatalf("init event repository: %v", err)
	}
	if err := bookingRepo.Init(ctx); err != nil {
		logger.Fatalf("init booking repository: %v", err)
	}

	tokenManager := auth.NewManager(
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute,
	)

	var notifier service.Notifier
	var worker *notify.Worker
	if cfg.Rabbit.URL != "" {
		client, err := notify.NewClient(cfg.Rabbit.URL, cfg.Rabbit.Exchange, cfg.Rabbit.Queue, logger)
		if err != nil {
			logger.Fatalf("setup rabbitmq: %v", err)
		}
		defer client.Close()

		mailer := notify.NewMailer(cfg.SMTP.Addr, cfg.SMTP.Host, cfg.SMTP.From, cfg.SMTP.Password)
		worker = notify.NewWorker(client, mailer, logger)
		worker.Start(ctx)
		notifier = client
	} else {
		logger.Info("rabbitmq url not set, booking notifications disabled")
	}

	userService := service.NewUserService(userRepo)
	eventService := service.NewEventService(eventRepo, userRepo, bookingRepo)
	bookingService := service.NewBookingService(bookingRepo, eventRepo, userRepo, notifier, logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORS.Origin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	handler := apphttp.NewHandler(userService, eventService, bookingService, tokenManager)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
	if worker != nil {
		worker.Stop()
	}

	logger.Info("bye")
}
