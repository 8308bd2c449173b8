package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/dteti-sys-rsch/wafi-dental-care/internal/config"
	"github.com/dteti-sys-rsch/wafi-dental-care/internal/email"
	"github.com/dteti-sys-rsch/wafi-dental-care/internal/handler"
	branchHandler "github.com/dteti-sys-rsch/wafi-dental-care/internal/handler/branch"
	patientHandler "github.com/dteti-sys-rsch/wafi-dental-care/internal/handler/patient"
	transactionHandler "github.com/dteti-sys-rsch/wafi-dental-care/internal/handler/transaction"
	userHandler "github.com/dteti-sys-rsch/wafi-dental-care/internal/handler/user"
	"github.com/dteti-sys-rsch/wafi-dental-care/internal/middleware"
	"github.com/dteti-sys-rsch/wafi-dental-care/internal/repository/postgres"
	"github.com/dteti-sys-rsch/wafi-dental-care/internal/router"
	authService "github.com/dteti-sys-rsch/wafi-dental-care/internal/service/auth"
	branchService "github.com/dteti-sys-rsch/wafi-dental-care/internal/service/branch"
	eventService "github.com/dteti-sys-rsch/wafi-dental-care/internal/service/event"
	notificationService "github.com/dteti-sys-rsch/wafi-dental-care/internal/service/notification"
	patientService "github.com/dteti-sys-rsch/wafi-dental-care/internal/service/patient"
	transactionService "github.com/dteti-sys-rsch/wafi-dental-care/internal/service/transaction"
	userService "github.com/dteti-sys-rsch/wafi-dental-care/internal/service/user"
	"github.com/dteti-sys-rsch/wafi-dental-care/internal/whatsapp"
	"github.com/dteti-sys-rsch/wafi-dental-care/pkg/auth"
	"github.com/dteti-sys-rsch/wafi-dental-care/pkg/logger"
	"github.com/dteti-sys-rsch/wafi-dental-care/pkg/metrics"
	"github.com/dteti-sys-rsch/wafi-dental-care/pkg/security"
	"github.com/dteti-sys-rsch/wafi-dental-care/pkg/validator"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:      logger.InfoLevel,
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		Pretty:     cfg.Server.Debug,
	})
	log.Logger = *appLogger.Zerolog()

	if err := validator.RegisterCustomValidators(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validators")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	branchRepo := postgres.NewBranchRepository(db)
	userRepo := postgres.NewUserRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	historyRepo := postgres.NewDiseaseHistoryRepository(db)
	assessmentRepo := postgres.NewMedicalAssessmentRepository(db)
	txnRepo := postgres.NewTransactionRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	m := metrics.NewMetrics("wafi_dental_care")

	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)

	waClient := whatsapp.NewClient(cfg.WhatsApp)
	emailSvc := email.NewSMTPService(cfg.SMTP)
	notifier := notificationService.NewService(waClient, emailSvc, m, cfg.WhatsApp.Timeout)

	events := eventService.NewService(outboxRepo)

	authSvc := authService.NewService(userRepo, branchRepo, hasher, jwtSvc, events)
	branchSvc := branchService.NewService(branchRepo, events)
	userSvc := userService.NewService(userRepo, branchRepo, hasher, events)
	patientSvc := patientService.NewService(patientRepo, historyRepo, assessmentRepo, events)
	txnSvc := transactionService.NewService(txnRepo, patientRepo, userRepo, branchRepo,
		assessmentRepo, notifier, events)

	authMW := middleware.NewAuthMiddleware(authSvc)

	engine := router.New(cfg, m, router.Handlers{
		Base:        handler.NewHandler(),
		Branch:      branchHandler.NewHandler(branchSvc),
		User:        userHandler.NewHandler(authSvc, userSvc, authMW),
		Patient:     patientHandler.NewHandler(patientSvc, authMW),
		Transaction: transactionHandler.NewHandler(txnSvc, authMW),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}
