package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/peereval/peereval-api/internal/config"
	"github.com/peereval/peereval-api/internal/handler"
	"github.com/peereval/peereval-api/internal/middleware"
	"github.com/peereval/peereval-api/internal/models"
	"github.com/peereval/peereval-api/internal/repository"
	"github.com/peereval/peereval-api/internal/router"
	"github.com/peereval/peereval-api/internal/service"
)

const testJWTSecret = "handler-test-secret"

// setupApp builds a fiber app backed by an in-memory database. The stub JWT
// middleware reads the test identity from X-Test-User / X-Test-Role headers.
func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Team{},
		&models.EvaluationForm{},
		&models.FormCriterion{},
		&models.Evaluation{},
		&models.EvaluationScore{},
	))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	formRepo := repository.NewFormRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)

	authService := service.NewAuthService(userRepo, validate, testJWTSecret, time.Hour, logger)
	userService := service.NewUserService(userRepo, validate, logger)
	projectService := service.NewProjectService(projectRepo, validate, logger)
	teamService := service.NewTeamService(teamRepo, projectRepo, userRepo, validate, logger)
	formService := service.NewFormService(formRepo, projectRepo, evaluationRepo, validate, logger)
	evaluationService := service.NewEvaluationService(evaluationRepo, formRepo, teamRepo, validate, logger)
	reportService := service.NewReportService(projectRepo, teamRepo, userRepo, formRepo, evaluationRepo, nil, 0, logger)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test", JWTSecret: testJWTSecret}, router.Dependencies{
		AuthHandler:       handler.NewAuthHandler(authService, logger),
		UserHandler:       handler.NewUserHandler(userService, logger),
		ProjectHandler:    handler.NewProjectHandler(projectService, logger),
		TeamHandler:       handler.NewTeamHandler(teamService, logger),
		FormHandler:       handler.NewFormHandler(formService, logger),
		EvaluationHandler: handler.NewEvaluationHandler(evaluationService, logger),
		ReportHandler:     handler.NewReportHandler(reportService, logger),
		JWTMiddleware: func(c *fiber.Ctx) error {
			if raw := c.Get("X-Test-User"); raw != "" {
				parsed, err := strconv.ParseUint(raw, 10, 64)
				if err == nil {
					c.Locals("user_id", uint(parsed))
				}
			}
			if role := c.Get("X-Test-Role"); role != "" {
				c.Locals("user_role", role)
			}
			return c.Next()
		},
	})

	return app, db
}

// setupAuthApp wires the real JWT middleware so issued tokens are verified.
func setupAuthApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	userRepo := repository.NewUserRepository(db)
	authService := service.NewAuthService(userRepo, validate, testJWTSecret, time.Hour, logger)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test", JWTSecret: testJWTSecret}, router.Dependencies{
		AuthHandler:   handler.NewAuthHandler(authService, logger),
		JWTMiddleware: middleware.JWTProtected(testJWTSecret),
	})

	return app
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, target))
}

func asUser(req *http.Request, userID uint, role string) {
	req.Header.Set("X-Test-User", strconv.FormatUint(uint64(userID), 10))
	req.Header.Set("X-Test-Role", role)
}
