package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/peereval/peereval-api/internal/dto"
	"github.com/peereval/peereval-api/internal/repository"
	"github.com/peereval/peereval-api/internal/scoring"
	"github.com/peereval/peereval-api/internal/service"
	"github.com/peereval/peereval-api/internal/utils"
)

// FormHandler wires evaluation form HTTP routes.
type FormHandler struct {
	service service.FormService
	logger  zerolog.Logger
}

// NewFormHandler constructs the handler.
func NewFormHandler(service service.FormService, logger zerolog.Logger) *FormHandler {
	return &FormHandler{
		service: service,
		logger:  logger.With().Str("component", "form_handler").Logger(),
	}
}

// Register attaches form endpoints to the router group.
func (h *FormHandler) Register(router fiber.Router, instructorOnly fiber.Handler) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", instructorOnly, h.create)
	router.Put("/:id", instructorOnly, h.update)
	router.Delete("/:id", instructorOnly, h.delete)
	router.Post("/:id/criteria", instructorOnly, h.addCriterion)
	router.Put("/:id/criteria/:criterionId", instructorOnly, h.updateCriterion)
	router.Delete("/:id/criteria/:criterionId", instructorOnly, h.deleteCriterion)
}

func (h *FormHandler) list(c *fiber.Ctx) error {
	filter := repository.FormFilter{}

	projectID, err := parseQueryUint(c, "project_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	filter.ProjectID = projectID

	forms, err := h.service.List(c.Context(), filter)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "forms retrieved", forms)
}

func (h *FormHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	form, err := h.service.Get(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "form retrieved", form)
}

func (h *FormHandler) create(c *fiber.Ctx) error {
	var payload dto.FormCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	form, err := h.service.Create(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "form created", form)
}

func (h *FormHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.FormUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	form, err := h.service.Update(c.Context(), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "form updated", form)
}

func (h *FormHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "form deleted", fiber.Map{"id": id})
}

func (h *FormHandler) addCriterion(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.FormCriterionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	criterion, err := h.service.AddCriterion(c.Context(), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "criterion added", criterion)
}

func (h *FormHandler) updateCriterion(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	criterionID, err := parseUintParam(c, "criterionId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.CriterionUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	criterion, err := h.service.UpdateCriterion(c.Context(), id, criterionID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "criterion updated", criterion)
}

func (h *FormHandler) deleteCriterion(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	criterionID, err := parseUintParam(c, "criterionId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteCriterion(c.Context(), id, criterionID); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "criterion deleted", fiber.Map{"id": criterionID})
}

func (h *FormHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	var sumErr *scoring.CriteriaSumError
	switch {
	case errors.Is(err, service.ErrFormNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrProjectNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrCriterionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrFormInUse):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrCriterionInUse):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.As(err, &sumErr):
		return utils.SendError(c, fiber.StatusBadRequest, sumErr.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
