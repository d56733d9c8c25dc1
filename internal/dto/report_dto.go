package dto

// MemberReport aggregates the evaluations one team member received.
type MemberReport struct {
	Member               UserLite `json:"member"`
	EvaluationsReceived  int      `json:"evaluations_received"`
	AverageScoreReceived float64  `json:"average_score_received"`
}

// TeamStatistics summarizes evaluation activity within one team.
type TeamStatistics struct {
	TotalMembers     int     `json:"total_members"`
	TotalEvaluations int     `json:"total_evaluations"`
	AverageScore     float64 `json:"average_score"`
}

// TeamReport is the full evaluation rollup for one team.
type TeamReport struct {
	Team       TeamLite       `json:"team"`
	Members    []MemberReport `json:"members"`
	Statistics TeamStatistics `json:"statistics"`
}

// ProjectStatistics summarizes evaluation activity across a project.
type ProjectStatistics struct {
	TotalTeams       int     `json:"total_teams"`
	TotalEvaluations int     `json:"total_evaluations"`
	AverageScore     float64 `json:"average_score"`
}

// ProjectReport rolls up every team of a project.
type ProjectReport struct {
	Project    ProjectResponse   `json:"project"`
	Teams      []TeamReport      `json:"teams"`
	Statistics ProjectStatistics `json:"statistics"`
}

// UserTeamReport summarizes evaluations a user received within one team.
type UserTeamReport struct {
	Team             TeamLite `json:"team"`
	EvaluationsCount int      `json:"evaluations_count"`
	AverageScore     float64  `json:"average_score"`
}

// UserStatistics summarizes a user's overall evaluation activity.
type UserStatistics struct {
	TeamsCount           int     `json:"teams_count"`
	EvaluationsReceived  int     `json:"evaluations_received"`
	EvaluationsGiven     int     `json:"evaluations_given"`
	AverageScoreReceived float64 `json:"average_score_received"`
}

// UserReport is the cross-team evaluation report for one user.
type UserReport struct {
	User        UserResponse         `json:"user"`
	Teams       []UserTeamReport     `json:"teams"`
	Statistics  UserStatistics       `json:"statistics"`
	Evaluations []EvaluationResponse `json:"evaluations"`
}

// CriterionStatistics summarizes the scores recorded against one criterion.
type CriterionStatistics struct {
	TotalResponses int     `json:"total_responses"`
	AverageScore   float64 `json:"average_score"`
	MaxScore       int     `json:"max_score"`
	MinScore       int     `json:"min_score"`
}

// CriterionReport pairs a criterion with its score statistics.
type CriterionReport struct {
	Criterion  CriterionResponse   `json:"criterion"`
	Statistics CriterionStatistics `json:"statistics"`
}

// FormStatistics summarizes usage of one evaluation form.
type FormStatistics struct {
	TotalEvaluations int `json:"total_evaluations"`
}

// FormReport is the per-criterion statistical report for one form.
type FormReport struct {
	Form       FormResponse      `json:"form"`
	Criteria   []CriterionReport `json:"criteria_analysis"`
	Statistics FormStatistics    `json:"statistics"`
}
