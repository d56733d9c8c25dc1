package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/peereval/peereval-api/internal/dto"
	"github.com/peereval/peereval-api/internal/models"
)

type evaluationFixture struct {
	alice models.User
	bob   models.User
	team  models.Team
	form  models.EvaluationForm
}

func seedEvaluationFixture(t *testing.T, db *gorm.DB, suffix string) evaluationFixture {
	t.Helper()

	alice := models.User{Email: "alice." + suffix + "@example.com", Name: "Alice", Role: models.RoleStudent, PasswordHash: "x"}
	bob := models.User{Email: "bob." + suffix + "@example.com", Name: "Bob", Role: models.RoleStudent, PasswordHash: "x"}
	require.NoError(t, db.Create(&alice).Error)
	require.NoError(t, db.Create(&bob).Error)

	instructor := models.User{Email: "prof." + suffix + "@example.com", Name: "Prof", Role: models.RoleInstructor, PasswordHash: "x"}
	require.NoError(t, db.Create(&instructor).Error)

	project := models.Project{Title: "Capstone " + suffix, InstructorID: instructor.ID, Status: models.ProjectStatusActive}
	require.NoError(t, db.Create(&project).Error)

	team := models.Team{ProjectID: project.ID, Name: "Team " + suffix, Members: []models.User{alice, bob}}
	require.NoError(t, db.Create(&team).Error)

	form := models.EvaluationForm{
		ProjectID: project.ID,
		Title:     "Peer Review " + suffix,
		MaxScore:  25,
		Criteria: []models.FormCriterion{
			{Text: "Communication", MaxPoints: 10, OrderIndex: 0},
			{Text: "Teamwork", MaxPoints: 15, OrderIndex: 1},
		},
	}
	require.NoError(t, db.Create(&form).Error)

	return evaluationFixture{alice: alice, bob: bob, team: team, form: form}
}

func postEvaluation(t *testing.T, app *fiber.App, evaluatorID uint, payload dto.EvaluationSubmitRequest) (*envelope[dto.EvaluationResponse], int) {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/v1/evaluations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	asUser(req, evaluatorID, models.RoleStudent)

	resp, err := app.Test(req)
	require.NoError(t, err)

	var result envelope[dto.EvaluationResponse]
	decodeResponse(t, resp, &result)
	return &result, resp.StatusCode
}

func TestEvaluationListFiltersByQuery(t *testing.T) {
	app, db := setupApp(t)
	fx := seedEvaluationFixture(t, db, "listfilter")

	_, status := postEvaluation(t, app, fx.alice.ID, dto.EvaluationSubmitRequest{
		FormID:      fx.form.ID,
		EvaluateeID: fx.bob.ID,
		TeamID:      fx.team.ID,
		Scores: []dto.ScoreEntry{
			{CriterionID: fx.form.Criteria[0].ID, Score: 7},
			{CriterionID: fx.form.Criteria[1].ID, Score: 11},
		},
	})
	require.Equal(t, fiber.StatusCreated, status)

	formID := strconv.FormatUint(uint64(fx.form.ID), 10)

	req := httptest.NewRequest("GET", "/api/v1/evaluations?form_id="+formID+"&evaluator_id="+strconv.FormatUint(uint64(fx.alice.ID), 10), nil)
	asUser(req, fx.alice.ID, models.RoleStudent)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var listed envelope[[]dto.EvaluationResponse]
	decodeResponse(t, resp, &listed)
	require.Len(t, listed.Data, 1)
	require.Equal(t, fx.alice.ID, listed.Data[0].EvaluatorID)

	req = httptest.NewRequest("GET", "/api/v1/evaluations?form_id="+formID+"&evaluator_id="+strconv.FormatUint(uint64(fx.bob.ID), 10), nil)
	asUser(req, fx.alice.ID, models.RoleStudent)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var empty envelope[[]dto.EvaluationResponse]
	decodeResponse(t, resp, &empty)
	require.Empty(t, empty.Data)

	req = httptest.NewRequest("GET", "/api/v1/evaluations?form_id=not-a-number", nil)
	asUser(req, fx.alice.ID, models.RoleStudent)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message"`
}

func TestEvaluationSubmitComputesTotal(t *testing.T) {
	app, db := setupApp(t)
	fx := seedEvaluationFixture(t, db, "submit")

	result, status := postEvaluation(t, app, fx.alice.ID, dto.EvaluationSubmitRequest{
		FormID:      fx.form.ID,
		EvaluateeID: fx.bob.ID,
		TeamID:      fx.team.ID,
		TotalScore:  999, // ignored; the server recomputes
		Scores: []dto.ScoreEntry{
			{CriterionID: fx.form.Criteria[0].ID, Score: 8},
			{CriterionID: fx.form.Criteria[1].ID, Score: 12},
		},
		Comments: "solid collaboration",
	})

	require.Equal(t, fiber.StatusCreated, status)
	require.True(t, result.Success)
	require.Equal(t, 20, result.Data.TotalScore)
	require.Equal(t, fx.alice.ID, result.Data.EvaluatorID)
	require.Equal(t, fx.bob.ID, result.Data.EvaluateeID)
	require.Len(t, result.Data.Scores, 2)
	require.Equal(t, "solid collaboration", result.Data.Comments)
}

func TestEvaluationSubmitRejectsDuplicate(t *testing.T) {
	app, db := setupApp(t)
	fx := seedEvaluationFixture(t, db, "dup")

	payload := dto.EvaluationSubmitRequest{
		FormID:      fx.form.ID,
		EvaluateeID: fx.bob.ID,
		TeamID:      fx.team.ID,
		Scores: []dto.ScoreEntry{
			{CriterionID: fx.form.Criteria[0].ID, Score: 5},
			{CriterionID: fx.form.Criteria[1].ID, Score: 5},
		},
	}

	_, status := postEvaluation(t, app, fx.alice.ID, payload)
	require.Equal(t, fiber.StatusCreated, status)

	result, status := postEvaluation(t, app, fx.alice.ID, payload)
	require.Equal(t, fiber.StatusConflict, status)
	require.False(t, result.Success)
	require.Contains(t, result.Message, "already evaluated")
}

func TestEvaluationSubmitRejectsSelfEvaluation(t *testing.T) {
	app, db := setupApp(t)
	fx := seedEvaluationFixture(t, db, "self")

	result, status := postEvaluation(t, app, fx.alice.ID, dto.EvaluationSubmitRequest{
		FormID:      fx.form.ID,
		EvaluateeID: fx.alice.ID,
		TeamID:      fx.team.ID,
		Scores:      []dto.ScoreEntry{{CriterionID: fx.form.Criteria[0].ID, Score: 5}},
	})

	require.Equal(t, fiber.StatusBadRequest, status)
	require.Contains(t, result.Message, "yourself")
}

func TestEvaluationSubmitRejectsScoreAboveCriterionMax(t *testing.T) {
	app, db := setupApp(t)
	fx := seedEvaluationFixture(t, db, "range")

	result, status := postEvaluation(t, app, fx.alice.ID, dto.EvaluationSubmitRequest{
		FormID:      fx.form.ID,
		EvaluateeID: fx.bob.ID,
		TeamID:      fx.team.ID,
		Scores: []dto.ScoreEntry{
			{CriterionID: fx.form.Criteria[0].ID, Score: 11},
			{CriterionID: fx.form.Criteria[1].ID, Score: 12},
		},
	})

	require.Equal(t, fiber.StatusBadRequest, status)
	require.False(t, result.Success)
	require.Contains(t, result.Message, "outside the range")
}

func TestEvaluationSubmitRejectsUnknownCriterion(t *testing.T) {
	app, db := setupApp(t)
	fx := seedEvaluationFixture(t, db, "unknown")

	result, status := postEvaluation(t, app, fx.alice.ID, dto.EvaluationSubmitRequest{
		FormID:      fx.form.ID,
		EvaluateeID: fx.bob.ID,
		TeamID:      fx.team.ID,
		Scores: []dto.ScoreEntry{
			{CriterionID: fx.form.Criteria[0].ID, Score: 5},
			{CriterionID: 9999, Score: 1},
		},
	})

	require.Equal(t, fiber.StatusBadRequest, status)
	require.Contains(t, result.Message, "criterion")
}

func TestEvaluationSubmitRejectsNonMemberEvaluatee(t *testing.T) {
	app, db := setupApp(t)
	fx := seedEvaluationFixture(t, db, "member")

	outsider := models.User{Email: "carol.member@example.com", Name: "Carol", Role: models.RoleStudent, PasswordHash: "x"}
	require.NoError(t, db.Create(&outsider).Error)

	result, status := postEvaluation(t, app, fx.alice.ID, dto.EvaluationSubmitRequest{
		FormID:      fx.form.ID,
		EvaluateeID: outsider.ID,
		TeamID:      fx.team.ID,
		Scores:      []dto.ScoreEntry{{CriterionID: fx.form.Criteria[0].ID, Score: 5}},
	})

	require.Equal(t, fiber.StatusBadRequest, status)
	require.Contains(t, result.Message, "not a member")
}

func TestEvaluationUpdateRecomputesTotal(t *testing.T) {
	app, db := setupApp(t)
	fx := seedEvaluationFixture(t, db, "update")

	created, status := postEvaluation(t, app, fx.alice.ID, dto.EvaluationSubmitRequest{
		FormID:      fx.form.ID,
		EvaluateeID: fx.bob.ID,
		TeamID:      fx.team.ID,
		Scores: []dto.ScoreEntry{
			{CriterionID: fx.form.Criteria[0].ID, Score: 8},
			{CriterionID: fx.form.Criteria[1].ID, Score: 12},
		},
	})
	require.Equal(t, fiber.StatusCreated, status)

	update := map[string]interface{}{
		"scores": []map[string]interface{}{
			{"criterion_id": fx.form.Criteria[0].ID, "score": 10},
			{"criterion_id": fx.form.Criteria[1].ID, "score": 15},
		},
	}
	body, err := json.Marshal(update)
	require.NoError(t, err)

	req := httptest.NewRequest("PUT", "/api/v1/evaluations/"+strconv.FormatUint(uint64(created.Data.ID), 10), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	asUser(req, fx.alice.ID, models.RoleStudent)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated envelope[dto.EvaluationResponse]
	decodeResponse(t, resp, &updated)
	require.Equal(t, 25, updated.Data.TotalScore)
}
