package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/peereval/peereval-api/internal/config"
	"github.com/peereval/peereval-api/internal/database"
	"github.com/peereval/peereval-api/internal/handler"
	"github.com/peereval/peereval-api/internal/middleware"
	"github.com/peereval/peereval-api/internal/models"
	"github.com/peereval/peereval-api/internal/repository"
	"github.com/peereval/peereval-api/internal/router"
	"github.com/peereval/peereval-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Team{},
		&models.EvaluationForm{},
		&models.FormCriterion{},
		&models.Evaluation{},
		&models.EvaluationScore{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	formRepo := repository.NewFormRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)

	authService := service.NewAuthService(userRepo, validate, cfg.JWTSecret, cfg.TokenTTL, logger)
	userService := service.NewUserService(userRepo, validate, logger)
	projectService := service.NewProjectService(projectRepo, validate, logger)
	teamService := service.NewTeamService(teamRepo, projectRepo, userRepo, validate, logger)
	formService := service.NewFormService(formRepo, projectRepo, evaluationRepo, validate, logger)
	evaluationService := service.NewEvaluationService(evaluationRepo, formRepo, teamRepo, validate, logger)
	reportService := service.NewReportService(projectRepo, teamRepo, userRepo, formRepo, evaluationRepo, redisClient, cfg.ReportCacheTTL, logger)

	authHandler := handler.NewAuthHandler(authService, logger)
	userHandler := handler.NewUserHandler(userService, logger)
	projectHandler := handler.NewProjectHandler(projectService, logger)
	teamHandler := handler.NewTeamHandler(teamService, logger)
	formHandler := handler.NewFormHandler(formService, logger)
	evaluationHandler := handler.NewEvaluationHandler(evaluationService, logger)
	reportHandler := handler.NewReportHandler(reportService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       authHandler,
		UserHandler:       userHandler,
		ProjectHandler:    projectHandler,
		TeamHandler:       teamHandler,
		FormHandler:       formHandler,
		EvaluationHandler: evaluationHandler,
		ReportHandler:     reportHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
