// Package scoring implements the evaluation rubric arithmetic: validating
// that a form's criteria sum to its declared maximum, collecting per-criterion
// scores into an ordered, bounded result, and assembling a complete
// evaluation from its parts. It has no knowledge of transport or persistence.
package scoring

import (
	"errors"
	"fmt"
	"sort"

	"github.com/peereval/peereval-api/internal/models"
)

// Assembly failures surfaced before any score arithmetic runs.
var (
	ErrFormRequired       = errors.New("an evaluation form must be selected")
	ErrTeamRequired       = errors.New("a team must be selected")
	ErrEvaluateeRequired  = errors.New("an evaluatee must be selected")
	ErrSelfEvaluation     = errors.New("cannot evaluate yourself")
	ErrEvaluatorNotMember = errors.New("evaluator is not a member of this team")
	ErrEvaluateeNotMember = errors.New("evaluatee is not a member of this team")
)

// CriteriaSumError reports an authoring-time mismatch between the sum of
// criterion point maxima and the form's declared maximum score.
type CriteriaSumError struct {
	Sum    int
	Target int
}

func (e *CriteriaSumError) Error() string {
	return fmt.Sprintf("sum of criterion max_points (%d) should equal form max_score (%d)", e.Sum, e.Target)
}

// ScoreRangeError reports an entered score outside [0, criterion max].
type ScoreRangeError struct {
	CriterionID uint
	Score       int
	MaxPoints   int
}

func (e *ScoreRangeError) Error() string {
	return fmt.Sprintf("score %d for criterion %d is outside the range 0-%d", e.Score, e.CriterionID, e.MaxPoints)
}

// UnknownCriterionError reports a submitted score whose criterion does not
// belong to the referenced form.
type UnknownCriterionError struct {
	CriterionID uint
}

func (e *UnknownCriterionError) Error() string {
	return fmt.Sprintf("criterion %d does not belong to this form", e.CriterionID)
}

// ValidateCriteriaSum checks that the criterion point maxima add up to
// exactly maxScore. An empty criteria list sums to zero and therefore never
// passes for a positive target.
func ValidateCriteriaSum(criteria []models.FormCriterion, maxScore int) error {
	sum := 0
	for _, criterion := range criteria {
		sum += criterion.MaxPoints
	}
	if sum != maxScore {
		return &CriteriaSumError{Sum: sum, Target: maxScore}
	}
	return nil
}

// ComputeTotal sums the entered score for every criterion of the form,
// defaulting absent entries to zero. It is pure: the result depends only on
// the inputs and calling it twice yields the same value.
func ComputeTotal(criteria []models.FormCriterion, entered map[uint]int) int {
	total := 0
	for _, criterion := range criteria {
		total += entered[criterion.ID]
	}
	return total
}

// CollectScores produces one score entry per form criterion, in criteria
// order, together with the total. Absent entries default to zero. Every score
// must lie within [0, criterion max], and every entered criterion must belong
// to the form.
func CollectScores(criteria []models.FormCriterion, entered map[uint]int) ([]models.EvaluationScore, int, error) {
	known := make(map[uint]struct{}, len(criteria))
	scores := make([]models.EvaluationScore, 0, len(criteria))
	total := 0

	for _, criterion := range criteria {
		known[criterion.ID] = struct{}{}
		score := entered[criterion.ID]
		if score < 0 || score > criterion.MaxPoints {
			return nil, 0, &ScoreRangeError{CriterionID: criterion.ID, Score: score, MaxPoints: criterion.MaxPoints}
		}
		scores = append(scores, models.EvaluationScore{CriterionID: criterion.ID, Score: score})
		total += score
	}

	// Report stray criterion ids deterministically.
	strays := make([]uint, 0)
	for id := range entered {
		if _, ok := known[id]; !ok {
			strays = append(strays, id)
		}
	}
	if len(strays) > 0 {
		sort.Slice(strays, func(i, j int) bool { return strays[i] < strays[j] })
		return nil, 0, &UnknownCriterionError{CriterionID: strays[0]}
	}

	return scores, total, nil
}

// Assembly carries everything needed to build one evaluation submission.
type Assembly struct {
	Form        models.EvaluationForm
	Team        models.Team
	EvaluatorID uint
	EvaluateeID uint
	Entered     map[uint]int
	Comments    string
}

// Assemble validates the selection constraints and packages an evaluation
// ready for persistence. The total score is always recomputed here; a total
// supplied by a client is never trusted.
func Assemble(a Assembly) (models.Evaluation, error) {
	switch {
	case a.Form.ID == 0:
		return models.Evaluation{}, ErrFormRequired
	case a.Team.ID == 0:
		return models.Evaluation{}, ErrTeamRequired
	case a.EvaluateeID == 0:
		return models.Evaluation{}, ErrEvaluateeRequired
	case a.EvaluatorID == a.EvaluateeID:
		return models.Evaluation{}, ErrSelfEvaluation
	case !a.Team.HasMember(a.EvaluatorID):
		return models.Evaluation{}, ErrEvaluatorNotMember
	case !a.Team.HasMember(a.EvaluateeID):
		return models.Evaluation{}, ErrEvaluateeNotMember
	}

	scores, total, err := CollectScores(a.Form.Criteria, a.Entered)
	if err != nil {
		return models.Evaluation{}, err
	}

	return models.Evaluation{
		FormID:      a.Form.ID,
		EvaluatorID: a.EvaluatorID,
		EvaluateeID: a.EvaluateeID,
		TeamID:      a.Team.ID,
		TotalScore:  total,
		Comments:    a.Comments,
		Scores:      scores,
	}, nil
}
