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

func seedProject(t *testing.T, db *gorm.DB, suffix string) models.Project {
	t.Helper()

	instructor := models.User{Email: "instructor." + suffix + "@example.com", Name: "Prof", Role: models.RoleInstructor, PasswordHash: "x"}
	require.NoError(t, db.Create(&instructor).Error)

	project := models.Project{Title: "Project " + suffix, InstructorID: instructor.ID, Status: models.ProjectStatusActive}
	require.NoError(t, db.Create(&project).Error)

	return project
}

func postForm(t *testing.T, app *fiber.App, payload dto.FormCreateRequest) (*envelope[dto.FormResponse], int) {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/v1/forms", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	asUser(req, 1, models.RoleInstructor)

	resp, err := app.Test(req)
	require.NoError(t, err)

	var result envelope[dto.FormResponse]
	decodeResponse(t, resp, &result)
	return &result, resp.StatusCode
}

func TestFormCreateAssignsCriteriaOrder(t *testing.T) {
	app, db := setupApp(t)
	project := seedProject(t, db, "formcreate")

	result, status := postForm(t, app, dto.FormCreateRequest{
		ProjectID: project.ID,
		Title:     "Sprint Review",
		MaxScore:  30,
		Criteria: []dto.FormCriterionRequest{
			{Text: "Communication", MaxPoints: 10},
			{Text: "Teamwork", MaxPoints: 15},
			{Text: "Initiative", MaxPoints: 5},
		},
	})

	require.Equal(t, fiber.StatusCreated, status)
	require.True(t, result.Success)
	require.Equal(t, 30, result.Data.MaxScore)
	require.Len(t, result.Data.Criteria, 3)
	for i, criterion := range result.Data.Criteria {
		require.Equal(t, i, criterion.OrderIndex)
	}
}

func TestFormCreateRejectsCriteriaSumMismatch(t *testing.T) {
	app, db := setupApp(t)
	project := seedProject(t, db, "formsum")

	result, status := postForm(t, app, dto.FormCreateRequest{
		ProjectID: project.ID,
		Title:     "Broken Rubric",
		MaxScore:  30,
		Criteria: []dto.FormCriterionRequest{
			{Text: "Communication", MaxPoints: 10},
			{Text: "Teamwork", MaxPoints: 15},
		},
	})

	require.Equal(t, fiber.StatusBadRequest, status)
	require.False(t, result.Success)
	require.Equal(t, "sum of criterion max_points (25) should equal form max_score (30)", result.Message)
}

func TestFormUpdateRejectsMaxScoreMismatch(t *testing.T) {
	app, db := setupApp(t)
	project := seedProject(t, db, "formupdatesum")

	created, status := postForm(t, app, dto.FormCreateRequest{
		ProjectID: project.ID,
		Title:     "Retro Rubric",
		MaxScore:  25,
		Criteria: []dto.FormCriterionRequest{
			{Text: "Communication", MaxPoints: 10},
			{Text: "Teamwork", MaxPoints: 15},
		},
	})
	require.Equal(t, fiber.StatusCreated, status)

	newMax := 40
	body, err := json.Marshal(dto.FormUpdateRequest{MaxScore: &newMax})
	require.NoError(t, err)

	formID := strconv.FormatUint(uint64(created.Data.ID), 10)
	req := httptest.NewRequest("PUT", "/api/v1/forms/"+formID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	asUser(req, 1, models.RoleInstructor)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var rejected envelope[dto.FormResponse]
	decodeResponse(t, resp, &rejected)
	require.Equal(t, "sum of criterion max_points (25) should equal form max_score (40)", rejected.Message)

	// A title-only update leaves the maximum alone and passes.
	newTitle := "Retro Rubric v2"
	body, err = json.Marshal(dto.FormUpdateRequest{Title: &newTitle})
	require.NoError(t, err)

	req = httptest.NewRequest("PUT", "/api/v1/forms/"+formID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	asUser(req, 1, models.RoleInstructor)

	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestFormDeleteGuardedWhenReferenced(t *testing.T) {
	app, db := setupApp(t)
	fx := seedEvaluationFixture(t, db, "formdelete")

	_, status := postEvaluation(t, app, fx.alice.ID, dto.EvaluationSubmitRequest{
		FormID:      fx.form.ID,
		EvaluateeID: fx.bob.ID,
		TeamID:      fx.team.ID,
		Scores:      []dto.ScoreEntry{{CriterionID: fx.form.Criteria[0].ID, Score: 5}},
	})
	require.Equal(t, fiber.StatusCreated, status)

	req := httptest.NewRequest("DELETE", "/api/v1/forms/"+strconv.FormatUint(uint64(fx.form.ID), 10), nil)
	asUser(req, 1, models.RoleInstructor)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestFormCriterionDeleteGuardedWhenScored(t *testing.T) {
	app, db := setupApp(t)
	fx := seedEvaluationFixture(t, db, "critdelete")

	_, status := postEvaluation(t, app, fx.alice.ID, dto.EvaluationSubmitRequest{
		FormID:      fx.form.ID,
		EvaluateeID: fx.bob.ID,
		TeamID:      fx.team.ID,
		Scores:      []dto.ScoreEntry{{CriterionID: fx.form.Criteria[0].ID, Score: 5}},
	})
	require.Equal(t, fiber.StatusCreated, status)

	url := "/api/v1/forms/" + strconv.FormatUint(uint64(fx.form.ID), 10) +
		"/criteria/" + strconv.FormatUint(uint64(fx.form.Criteria[0].ID), 10)
	req := httptest.NewRequest("DELETE", url, nil)
	asUser(req, 1, models.RoleInstructor)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestFormMutationsRequireInstructorRole(t *testing.T) {
	app, db := setupApp(t)
	project := seedProject(t, db, "formrbac")

	payload := dto.FormCreateRequest{
		ProjectID: project.ID,
		Title:     "Student Attempt",
		MaxScore:  10,
		Criteria:  []dto.FormCriterionRequest{{Text: "Effort", MaxPoints: 10}},
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/v1/forms", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	asUser(req, 2, models.RoleStudent)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
