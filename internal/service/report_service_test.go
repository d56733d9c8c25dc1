package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/peereval/peereval-api/internal/models"
	"github.com/peereval/peereval-api/internal/repository"
)

func uintString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

type reportFixture struct {
	db      *gorm.DB
	mini    *miniredis.Miniredis
	svc     ReportService
	project models.Project
	team    models.Team
	form    models.EvaluationForm
	alice   models.User
	bob     models.User
}

func setupReportFixture(t *testing.T, suffix string) reportFixture {
	t.Helper()

	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)

	redisClient := redis.NewClient(&redis.Options{Addr: mini.Addr()})

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

	instructor := models.User{Email: "prof." + suffix + "@report.test", Name: "Prof", Role: models.RoleInstructor, PasswordHash: "x"}
	alice := models.User{Email: "alice." + suffix + "@report.test", Name: "Alice", Role: models.RoleStudent, PasswordHash: "x"}
	bob := models.User{Email: "bob." + suffix + "@report.test", Name: "Bob", Role: models.RoleStudent, PasswordHash: "x"}
	require.NoError(t, db.Create(&instructor).Error)
	require.NoError(t, db.Create(&alice).Error)
	require.NoError(t, db.Create(&bob).Error)

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

	evaluations := []models.Evaluation{
		{
			FormID: form.ID, EvaluatorID: alice.ID, EvaluateeID: bob.ID, TeamID: team.ID, TotalScore: 20,
			Scores: []models.EvaluationScore{
				{CriterionID: form.Criteria[0].ID, Score: 8},
				{CriterionID: form.Criteria[1].ID, Score: 12},
			},
		},
		{
			FormID: form.ID, EvaluatorID: bob.ID, EvaluateeID: alice.ID, TeamID: team.ID, TotalScore: 15,
			Scores: []models.EvaluationScore{
				{CriterionID: form.Criteria[0].ID, Score: 5},
				{CriterionID: form.Criteria[1].ID, Score: 10},
			},
		},
	}
	for i := range evaluations {
		require.NoError(t, db.Create(&evaluations[i]).Error)
	}

	svc := NewReportService(
		repository.NewProjectRepository(db),
		repository.NewTeamRepository(db),
		repository.NewUserRepository(db),
		repository.NewFormRepository(db),
		repository.NewEvaluationRepository(db),
		redisClient,
		time.Minute,
		zerolog.Nop(),
	)

	return reportFixture{db: db, mini: mini, svc: svc, project: project, team: team, form: form, alice: alice, bob: bob}
}

func TestReportServiceTeamReport(t *testing.T) {
	fx := setupReportFixture(t, "team")

	report, err := fx.svc.TeamReport(context.Background(), fx.team.ID)
	require.NoError(t, err)

	require.Equal(t, fx.team.ID, report.Team.ID)
	require.Equal(t, 2, report.Statistics.TotalMembers)
	require.Equal(t, 2, report.Statistics.TotalEvaluations)
	require.InDelta(t, 17.5, report.Statistics.AverageScore, 0.001)

	require.Len(t, report.Members, 2)
	for _, member := range report.Members {
		require.Equal(t, 1, member.EvaluationsReceived)
		switch member.Member.ID {
		case fx.alice.ID:
			require.InDelta(t, 15, member.AverageScoreReceived, 0.001)
		case fx.bob.ID:
			require.InDelta(t, 20, member.AverageScoreReceived, 0.001)
		default:
			t.Fatalf("unexpected member %d", member.Member.ID)
		}
	}
}

func TestReportServiceTeamReportIsCached(t *testing.T) {
	fx := setupReportFixture(t, "cache")

	_, err := fx.svc.TeamReport(context.Background(), fx.team.ID)
	require.NoError(t, err)
	require.True(t, fx.mini.Exists("report:team:"+uintString(fx.team.ID)))

	// A new evaluation does not change the cached report until the TTL lapses.
	extra := models.Evaluation{FormID: fx.form.ID, EvaluatorID: fx.alice.ID, EvaluateeID: fx.bob.ID, TeamID: fx.team.ID, TotalScore: 25}
	require.NoError(t, fx.db.Create(&extra).Error)

	cached, err := fx.svc.TeamReport(context.Background(), fx.team.ID)
	require.NoError(t, err)
	require.Equal(t, 2, cached.Statistics.TotalEvaluations)

	fx.mini.FastForward(2 * time.Minute)

	fresh, err := fx.svc.TeamReport(context.Background(), fx.team.ID)
	require.NoError(t, err)
	require.Equal(t, 3, fresh.Statistics.TotalEvaluations)
}

func TestReportServiceProjectReport(t *testing.T) {
	fx := setupReportFixture(t, "project")

	report, err := fx.svc.ProjectReport(context.Background(), fx.project.ID)
	require.NoError(t, err)

	require.Equal(t, fx.project.ID, report.Project.ID)
	require.Equal(t, 1, report.Statistics.TotalTeams)
	require.Equal(t, 2, report.Statistics.TotalEvaluations)
	require.InDelta(t, 17.5, report.Statistics.AverageScore, 0.001)
	require.Len(t, report.Teams, 1)
}

func TestReportServiceUserReport(t *testing.T) {
	fx := setupReportFixture(t, "user")

	report, err := fx.svc.UserReport(context.Background(), fx.bob.ID)
	require.NoError(t, err)

	require.Equal(t, fx.bob.ID, report.User.ID)
	require.Equal(t, 1, report.Statistics.TeamsCount)
	require.Equal(t, 1, report.Statistics.EvaluationsReceived)
	require.Equal(t, 1, report.Statistics.EvaluationsGiven)
	require.InDelta(t, 20, report.Statistics.AverageScoreReceived, 0.001)
	require.Len(t, report.Evaluations, 1)
}

func TestReportServiceFormReport(t *testing.T) {
	fx := setupReportFixture(t, "form")

	report, err := fx.svc.FormReport(context.Background(), fx.form.ID)
	require.NoError(t, err)

	require.Equal(t, fx.form.ID, report.Form.ID)
	require.Equal(t, 2, report.Statistics.TotalEvaluations)
	require.Len(t, report.Criteria, 2)

	communication := report.Criteria[0]
	require.Equal(t, "Communication", communication.Criterion.Text)
	require.Equal(t, 2, communication.Statistics.TotalResponses)
	require.InDelta(t, 6.5, communication.Statistics.AverageScore, 0.001)
	require.Equal(t, 8, communication.Statistics.MaxScore)
	require.Equal(t, 5, communication.Statistics.MinScore)
}

func TestReportServiceUnknownIDs(t *testing.T) {
	fx := setupReportFixture(t, "missing")

	_, err := fx.svc.TeamReport(context.Background(), 99999)
	require.ErrorIs(t, err, ErrTeamNotFound)

	_, err = fx.svc.ProjectReport(context.Background(), 99999)
	require.ErrorIs(t, err, ErrProjectNotFound)

	_, err = fx.svc.UserReport(context.Background(), 99999)
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = fx.svc.FormReport(context.Background(), 99999)
	require.ErrorIs(t, err, ErrFormNotFound)
}
