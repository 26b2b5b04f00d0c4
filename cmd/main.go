package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Dosada05/stacking-tournament/config"
	"github.com/Dosada05/stacking-tournament/db"
	"github.com/Dosada05/stacking-tournament/handlers"
	"github.com/Dosada05/stacking-tournament/live"
	"github.com/Dosada05/stacking-tournament/metrics"
	"github.com/Dosada05/stacking-tournament/models"
	"github.com/Dosada05/stacking-tournament/repositories"
	api "github.com/Dosada05/stacking-tournament/routes"
	"github.com/Dosada05/stacking-tournament/services"
	"github.com/Dosada05/stacking-tournament/storage"
)

const (
	schedulerInterval = 30 * time.Second // How often the scheduler runs
	shutdownTimeout   = 15 * time.Second
)

type store struct {
	tournaments   repositories.TournamentRepository
	registrations repositories.RegistrationRepository
	teams         repositories.TeamRepository
	records       repositories.RecordRepository
	close         func() error
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*store, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.EnsureSchema(ctx, dbConn); err != nil {
			dbConn.Close()
			return nil, err
		}
		logger.Info("postgres store ready")
		return &store{
			tournaments:   repositories.NewPostgresTournamentRepository(dbConn),
			registrations: repositories.NewPostgresRegistrationRepository(dbConn),
			teams:         repositories.NewPostgresTeamRepository(dbConn),
			records:       repositories.NewPostgresRecordRepository(dbConn),
			close:         dbConn.Close,
		}, nil

	default:
		client, err := db.ConnectFirestore(ctx, cfg.FirestoreProjectID, cfg.CredentialsFile)
		if err != nil {
			return nil, err
		}
		logger.Info("firestore store ready", slog.String("project", cfg.FirestoreProjectID))
		return &store{
			tournaments:   repositories.NewFirestoreTournamentRepository(client),
			registrations: repositories.NewFirestoreRegistrationRepository(client),
			teams:         repositories.NewFirestoreTeamRepository(client),
			records:       repositories.NewFirestoreRecordRepository(client),
			close:         client.Close,
		}, nil
	}
}

func accountsFromConfig(cfg *config.Config) []models.Account {
	var accounts []models.Account
	if cfg.OrganizerEmail != "" {
		accounts = append(accounts, models.Account{Email: cfg.OrganizerEmail, Role: models.RoleOrganizer, PasswordHash: cfg.OrganizerPasswordHash})
	}
	if cfg.JudgeEmail != "" {
		accounts = append(accounts, models.Account{Email: cfg.JudgeEmail, Role: models.RoleJudge, PasswordHash: cfg.JudgePasswordHash})
	}
	return accounts
}

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("backend", cfg.StoreBackend))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := st.close(); err != nil {
			logger.Error("failed to close store", slog.Any("error", err))
		} else {
			logger.Info("store closed")
		}
	}()

	// Публикация результатов в Cloudflare R2 (опционально)
	var uploader storage.FileUploader
	if cfg.R2Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Info("R2 is not configured, result publishing disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Инициализация WebSocket Hub
	hub := live.NewHub(logger)
	go hub.Run(ctx)
	logger.Info("WebSocket Hub started")

	// Инициализация сервисов
	tournamentService := services.NewTournamentService(st.tournaments, hub, m, logger)
	registrationService := services.NewRegistrationService(st.registrations, st.tournaments, logger)
	teamService := services.NewTeamService(st.teams, st.registrations, st.tournaments, logger)
	recordService := services.NewRecordService(st.records, st.tournaments, st.registrations, st.teams, hub, m, logger)
	resultsService := services.NewResultsService(st.tournaments, st.registrations, st.teams, st.records, m, logger)
	exportService := services.NewExportService(resultsService, uploader, m, logger)
	authService := services.NewAuthService(accountsFromConfig(cfg))
	logger.Info("Services initialized")

	// Планировщик статусов турниров по датам
	go func() {
		ticker := time.NewTicker(schedulerInterval)
		defer ticker.Stop()
		logger.Info("tournament status scheduler started", slog.Duration("interval", schedulerInterval))

		if err := tournamentService.SyncStatusesByDate(ctx); err != nil {
			logger.Error("scheduler: initial run failed", slog.Any("error", err))
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := tournamentService.SyncStatusesByDate(ctx); err != nil {
					logger.Error("scheduler: periodic run failed", slog.Any("error", err))
				}
			}
		}
	}()

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Auth:         handlers.NewAuthHandler(authService, cfg.JWTSecretKey),
		Tournament:   handlers.NewTournamentHandler(tournamentService),
		Registration: handlers.NewRegistrationHandler(registrationService),
		Team:         handlers.NewTeamHandler(teamService),
		Record:       handlers.NewRecordHandler(recordService),
		Results:      handlers.NewResultsHandler(resultsService, exportService),
		WebSocket:    handlers.NewWebSocketHandler(hub, tournamentService, cfg.CORSAllowedOrigins, logger),
	}, api.Options{
		JWTSecret:          []byte(cfg.JWTSecretKey),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RecordRatePerSec:   cfg.RecordRatePerSec,
		Metrics:            metrics.Handler(registry),
	})
	logger.Info("Routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			return
		}
		logger.Info("server stopped gracefully")
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
		} else {
			logger.Info("server shutdown complete")
		}
	}
	logger.Info("application exited")
}
