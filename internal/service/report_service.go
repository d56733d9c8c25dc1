package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/peereval/peereval-api/internal/dto"
	"github.com/peereval/peereval-api/internal/models"
	"github.com/peereval/peereval-api/internal/repository"
)

// ReportService produces aggregated evaluation reports.
type ReportService interface {
	ProjectReport(ctx context.Context, projectID uint) (dto.ProjectReport, error)
	TeamReport(ctx context.Context, teamID uint) (dto.TeamReport, error)
	UserReport(ctx context.Context, userID uint) (dto.UserReport, error)
	FormReport(ctx context.Context, formID uint) (dto.FormReport, error)
}

type reportService struct {
	projects    repository.ProjectRepository
	teams       repository.TeamRepository
	users       repository.UserRepository
	forms       repository.FormRepository
	evaluations repository.EvaluationRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

// NewReportService builds the report aggregator.
func NewReportService(projects repository.ProjectRepository, teams repository.TeamRepository, users repository.UserRepository, forms repository.FormRepository, evaluations repository.EvaluationRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) ReportService {
	return &reportService{
		projects:    projects,
		teams:       teams,
		users:       users,
		forms:       forms,
		evaluations: evaluations,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "report_service").Logger(),
	}
}

func (s *reportService) ProjectReport(ctx context.Context, projectID uint) (dto.ProjectReport, error) {
	cacheKey := fmt.Sprintf("report:project:%d", projectID)
	var cached dto.ProjectReport
	if s.readCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProjectReport{}, ErrProjectNotFound
		}
		return dto.ProjectReport{}, err
	}

	teams, err := s.teams.List(ctx, repository.TeamFilter{ProjectID: &projectID})
	if err != nil {
		return dto.ProjectReport{}, err
	}

	report := dto.ProjectReport{
		Project: dto.NewProjectResponse(project),
		Teams:   make([]dto.TeamReport, 0, len(teams)),
	}

	allScores := make([]int, 0)
	for _, team := range teams {
		teamReport, scores, err := s.buildTeamReport(ctx, team)
		if err != nil {
			return dto.ProjectReport{}, err
		}
		report.Teams = append(report.Teams, teamReport)
		report.Statistics.TotalEvaluations += teamReport.Statistics.TotalEvaluations
		allScores = append(allScores, scores...)
	}

	report.Statistics.TotalTeams = len(teams)
	report.Statistics.AverageScore = average(allScores)

	s.writeCache(ctx, cacheKey, report)

	return report, nil
}

func (s *reportService) TeamReport(ctx context.Context, teamID uint) (dto.TeamReport, error) {
	cacheKey := fmt.Sprintf("report:team:%d", teamID)
	var cached dto.TeamReport
	if s.readCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeamReport{}, ErrTeamNotFound
		}
		return dto.TeamReport{}, err
	}

	report, _, err := s.buildTeamReport(ctx, team)
	if err != nil {
		return dto.TeamReport{}, err
	}

	s.writeCache(ctx, cacheKey, report)

	return report, nil
}

func (s *reportService) UserReport(ctx context.Context, userID uint) (dto.UserReport, error) {
	cacheKey := fmt.Sprintf("report:user:%d", userID)
	var cached dto.UserReport
	if s.readCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserReport{}, ErrUserNotFound
		}
		return dto.UserReport{}, err
	}

	teams, err := s.teams.ListByMember(ctx, userID)
	if err != nil {
		return dto.UserReport{}, err
	}

	received, err := s.evaluations.List(ctx, repository.EvaluationFilter{EvaluateeID: &userID})
	if err != nil {
		return dto.UserReport{}, err
	}

	given, err := s.evaluations.List(ctx, repository.EvaluationFilter{EvaluatorID: &userID})
	if err != nil {
		return dto.UserReport{}, err
	}

	teamReports := make([]dto.UserTeamReport, 0, len(teams))
	for _, team := range teams {
		scores := make([]int, 0)
		count := 0
		for _, evaluation := range received {
			if evaluation.TeamID == team.ID {
				count++
				scores = append(scores, evaluation.TotalScore)
			}
		}
		teamReports = append(teamReports, dto.UserTeamReport{
			Team:             dto.NewTeamLite(team),
			EvaluationsCount: count,
			AverageScore:     average(scores),
		})
	}

	receivedScores := make([]int, 0, len(received))
	for _, evaluation := range received {
		receivedScores = append(receivedScores, evaluation.TotalScore)
	}

	report := dto.UserReport{
		User:  dto.NewUserResponse(user),
		Teams: teamReports,
		Statistics: dto.UserStatistics{
			TeamsCount:           len(teams),
			EvaluationsReceived:  len(received),
			EvaluationsGiven:     len(given),
			AverageScoreReceived: average(receivedScores),
		},
		Evaluations: dto.NewEvaluationResponseSlice(received),
	}

	s.writeCache(ctx, cacheKey, report)

	return report, nil
}

func (s *reportService) FormReport(ctx context.Context, formID uint) (dto.FormReport, error) {
	cacheKey := fmt.Sprintf("report:form:%d", formID)
	var cached dto.FormReport
	if s.readCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	form, err := s.forms.GetByID(ctx, formID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FormReport{}, ErrFormNotFound
		}
		return dto.FormReport{}, err
	}

	evaluations, err := s.evaluations.List(ctx, repository.EvaluationFilter{FormID: &formID})
	if err != nil {
		return dto.FormReport{}, err
	}

	scoresByCriterion := make(map[uint][]int)
	for _, evaluation := range evaluations {
		for _, score := range evaluation.Scores {
			scoresByCriterion[score.CriterionID] = append(scoresByCriterion[score.CriterionID], score.Score)
		}
	}

	criteria := make([]dto.CriterionReport, 0, len(form.Criteria))
	for _, criterion := range form.Criteria {
		scores := scoresByCriterion[criterion.ID]
		stats := dto.CriterionStatistics{
			TotalResponses: len(scores),
			AverageScore:   average(scores),
		}
		if len(scores) > 0 {
			stats.MaxScore = scores[0]
			stats.MinScore = scores[0]
			for _, score := range scores[1:] {
				if score > stats.MaxScore {
					stats.MaxScore = score
				}
				if score < stats.MinScore {
					stats.MinScore = score
				}
			}
		}
		criteria = append(criteria, dto.CriterionReport{
			Criterion:  dto.NewCriterionResponse(criterion),
			Statistics: stats,
		})
	}

	report := dto.FormReport{
		Form:       dto.NewFormResponse(form),
		Criteria:   criteria,
		Statistics: dto.FormStatistics{TotalEvaluations: len(evaluations)},
	}

	s.writeCache(ctx, cacheKey, report)

	return report, nil
}

func (s *reportService) buildTeamReport(ctx context.Context, team models.Team) (dto.TeamReport, []int, error) {
	teamID := team.ID
	evaluations, err := s.evaluations.List(ctx, repository.EvaluationFilter{TeamID: &teamID})
	if err != nil {
		return dto.TeamReport{}, nil, err
	}

	members := make([]dto.MemberReport, 0, len(team.Members))
	allScores := make([]int, 0, len(evaluations))

	for _, member := range team.Members {
		scores := make([]int, 0)
		for _, evaluation := range evaluations {
			if evaluation.EvaluateeID == member.ID {
				scores = append(scores, evaluation.TotalScore)
			}
		}
		allScores = append(allScores, scores...)
		members = append(members, dto.MemberReport{
			Member:               dto.NewUserLite(member),
			EvaluationsReceived:  len(scores),
			AverageScoreReceived: average(scores),
		})
	}

	report := dto.TeamReport{
		Team:    dto.NewTeamLite(team),
		Members: members,
		Statistics: dto.TeamStatistics{
			TotalMembers:     len(team.Members),
			TotalEvaluations: len(evaluations),
			AverageScore:     average(allScores),
		},
	}

	return report, allScores, nil
}

func (s *reportService) readCache(ctx context.Context, key string, target interface{}) bool {
	if s.cache == nil {
		return false
	}

	payload, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("failed to read report cache")
		}
		return false
	}

	if err := json.Unmarshal([]byte(payload), target); err != nil {
		return false
	}

	s.logger.Debug().Str("key", key).Msg("report cache hit")
	return true
}

func (s *reportService) writeCache(ctx context.Context, key string, report interface{}) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to store report cache")
	}
}

func average(scores []int) float64 {
	if len(scores) == 0 {
		return 0
	}

	sum := 0
	for _, score := range scores {
		sum += score
	}

	return math.Round(float64(sum)/float64(len(scores))*100) / 100
}
