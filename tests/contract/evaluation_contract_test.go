package contract_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/peereval/peereval-api/internal/dto"
	"github.com/peereval/peereval-api/internal/handler"
	"github.com/peereval/peereval-api/internal/repository"
)

type stubEvaluationService struct {
	response dto.EvaluationResponse
}

func (s stubEvaluationService) List(context.Context, repository.EvaluationFilter) ([]dto.EvaluationResponse, error) {
	return []dto.EvaluationResponse{s.response}, nil
}

func (s stubEvaluationService) Get(context.Context, uint) (dto.EvaluationResponse, error) {
	return s.response, nil
}

func (s stubEvaluationService) Submit(context.Context, uint, dto.EvaluationSubmitRequest) (dto.EvaluationResponse, error) {
	return s.response, nil
}

func (s stubEvaluationService) Update(context.Context, uint, dto.EvaluationUpdateRequest) (dto.EvaluationResponse, error) {
	return s.response, nil
}

func (s stubEvaluationService) Delete(context.Context, uint) error {
	return nil
}

func TestEvaluationSubmissionContract(t *testing.T) {
	schemaPath, err := filepath.Abs(filepath.Join("..", "contracts", "evaluation.schema.json"))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)

	now := time.Now().UTC()
	serviceStub := stubEvaluationService{response: dto.EvaluationResponse{
		ID:          1,
		FormID:      2,
		EvaluatorID: 3,
		EvaluateeID: 4,
		TeamID:      5,
		TotalScore:  20,
		Comments:    "strong sprint",
		Scores: []dto.ScoreResponse{
			{CriterionID: 10, Score: 8},
			{CriterionID: 11, Score: 12},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}}

	evaluationHandler := handler.NewEvaluationHandler(serviceStub, zerolog.Nop())

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(3))
		return c.Next()
	})
	evaluationHandler.Register(app.Group("/api/v1/evaluations"))

	payload, err := json.Marshal(dto.EvaluationSubmitRequest{
		FormID:      2,
		EvaluateeID: 4,
		TeamID:      5,
		Scores: []dto.ScoreEntry{
			{CriterionID: 10, Score: 8},
			{CriterionID: 11, Score: 12},
		},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/evaluations", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	require.NoError(t, schema.Validate(decoded))
}
