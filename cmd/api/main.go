package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/patient-portal/internal/config"
	"github.com/jwalitptl/patient-portal/internal/email"
	"github.com/jwalitptl/patient-portal/internal/handler"
	appointmentHandler "github.com/jwalitptl/patient-portal/internal/handler/appointment"
	authHandler "github.com/jwalitptl/patient-portal/internal/handler/auth"
	dashboardHandler "github.com/jwalitptl/patient-portal/internal/handler/dashboard"
	doctorHandler "github.com/jwalitptl/patient-portal/internal/handler/doctor"
	prescriptionHandler "github.com/jwalitptl/patient-portal/internal/handler/prescription"
	"github.com/jwalitptl/patient-portal/internal/middleware"
	"github.com/jwalitptl/patient-portal/internal/router"
	"github.com/jwalitptl/patient-portal/internal/service/appointment"
	authService "github.com/jwalitptl/patient-portal/internal/service/auth"
	"github.com/jwalitptl/patient-portal/internal/service/dashboard"
	"github.com/jwalitptl/patient-portal/internal/service/doctor"
	"github.com/jwalitptl/patient-portal/internal/service/prescription"
	"github.com/jwalitptl/patient-portal/internal/session"
	"github.com/jwalitptl/patient-portal/internal/store"
	pkgauth "github.com/jwalitptl/patient-portal/pkg/auth"
	"github.com/jwalitptl/patient-portal/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Setup(&logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Output: os.Stdout,
	})

	// Initialize the record store
	st, err := store.Open(cfg.Storage.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open record store")
	}
	defer st.Close()

	// Initialize collaborators
	sessions := session.NewProvider(st)
	jwtSvc := pkgauth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	notifier := email.NewService(cfg.SMTP)

	// Initialize services
	doctorSvc := doctor.NewService()
	authSvc := authService.NewService(sessions, jwtSvc, notifier)
	appointmentSvc := appointment.NewService(st, doctorSvc, notifier)
	prescriptionSvc := prescription.NewService(st)
	dashboardSvc := dashboard.NewService(authSvc, appointmentSvc, prescriptionSvc)

	// Initialize middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(authSvc)
	h := handler.NewHandler()

	r := router.NewRouter(
		authMiddleware,
		authHandler.NewHandler(authSvc),
		doctorHandler.NewHandler(doctorSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		prescriptionHandler.NewHandler(prescriptionSvc),
		dashboardHandler.NewHandler(dashboardSvc),
		h,
		router.Config{
			RateLimit:     cfg.RateLimit.RPS,
			RateBurst:     cfg.RateLimit.Burst,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: "portal",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
