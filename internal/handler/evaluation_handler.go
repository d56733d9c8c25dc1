package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/peereval/peereval-api/internal/dto"
	"github.com/peereval/peereval-api/internal/observability"
	"github.com/peereval/peereval-api/internal/repository"
	"github.com/peereval/peereval-api/internal/scoring"
	"github.com/peereval/peereval-api/internal/service"
	"github.com/peereval/peereval-api/internal/utils"
)

// EvaluationHandler wires peer evaluation HTTP routes.
type EvaluationHandler struct {
	service service.EvaluationService
	logger  zerolog.Logger
}

// NewEvaluationHandler constructs the handler.
func NewEvaluationHandler(service service.EvaluationService, logger zerolog.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		service: service,
		logger:  logger.With().Str("component", "evaluation_handler").Logger(),
	}
}

// Register attaches evaluation endpoints to the router group.
func (h *EvaluationHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", h.submit)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *EvaluationHandler) list(c *fiber.Ctx) error {
	var query dto.EvaluationFilter
	if err := c.QueryParser(&query); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	evaluations, err := h.service.List(c.Context(), repository.EvaluationFilter{
		FormID:      query.FormID,
		TeamID:      query.TeamID,
		EvaluatorID: query.EvaluatorID,
		EvaluateeID: query.EvaluateeID,
	})
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "evaluations retrieved", evaluations)
}

func (h *EvaluationHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	evaluation, err := h.service.Get(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "evaluation retrieved", evaluation)
}

func (h *EvaluationHandler) submit(c *fiber.Ctx) error {
	var payload dto.EvaluationSubmitRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	evaluatorID := userIDFromContext(c)
	if evaluatorID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	evaluation, err := h.service.Submit(c.UserContext(), evaluatorID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	observability.EvaluationsSubmitted().Inc()

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "evaluation submitted", evaluation)
}

func (h *EvaluationHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.EvaluationUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	evaluation, err := h.service.Update(c.Context(), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "evaluation updated", evaluation)
}

func (h *EvaluationHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "evaluation deleted", fiber.Map{"id": id})
}

func (h *EvaluationHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	var rangeErr *scoring.ScoreRangeError
	var unknownErr *scoring.UnknownCriterionError
	switch {
	case errors.Is(err, service.ErrEvaluationNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrFormNotFound):
		return h.reject(c, fiber.StatusNotFound, "form_not_found", err)
	case errors.Is(err, service.ErrTeamNotFound):
		return h.reject(c, fiber.StatusNotFound, "team_not_found", err)
	case errors.Is(err, service.ErrDuplicateEvaluation):
		return h.reject(c, fiber.StatusConflict, "duplicate", err)
	case errors.Is(err, scoring.ErrSelfEvaluation):
		return h.reject(c, fiber.StatusBadRequest, "self_evaluation", err)
	case errors.Is(err, scoring.ErrEvaluatorNotMember):
		return h.reject(c, fiber.StatusBadRequest, "evaluator_not_member", err)
	case errors.Is(err, scoring.ErrEvaluateeNotMember):
		return h.reject(c, fiber.StatusBadRequest, "evaluatee_not_member", err)
	case errors.Is(err, scoring.ErrFormRequired),
		errors.Is(err, scoring.ErrTeamRequired),
		errors.Is(err, scoring.ErrEvaluateeRequired):
		return h.reject(c, fiber.StatusBadRequest, "missing_selection", err)
	case errors.As(err, &rangeErr):
		return h.reject(c, fiber.StatusBadRequest, "score_out_of_range", err)
	case errors.As(err, &unknownErr):
		return h.reject(c, fiber.StatusBadRequest, "unknown_criterion", err)
	case errors.As(err, &validationErrors):
		return h.reject(c, fiber.StatusBadRequest, "invalid_payload", err)
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

func (h *EvaluationHandler) reject(c *fiber.Ctx, status int, reason string, err error) error {
	observability.EvaluationsRejected().WithLabelValues(reason).Inc()
	return utils.SendError(c, status, err.Error())
}
