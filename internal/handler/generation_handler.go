package handler

import (
	"context"

	"quiz-forge/internal/adapter/renderer"
	"quiz-forge/internal/domain"
	"quiz-forge/internal/dto"
	"quiz-forge/internal/logger"
	"quiz-forge/internal/middleware"
	"quiz-forge/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// GenerationService is the controller surface used by the HTTP layer.
type GenerationService interface {
	Regenerate() (string, error)
	Cancel() bool
	Clear()
	Snapshot() service.SessionSnapshot
	UpdateQuestion(id string, patch service.QuestionPatch) (*domain.Question, error)
	DeleteQuestion(id string) error
	DuplicateQuestion(id string) (*domain.Question, error)
	MoveQuestion(id string, to int) error
}

// TriggerService decides when inputs turn into a generation run.
type TriggerService interface {
	InputChanged(in domain.GenerationInputs) bool
	TriggerNow(in domain.GenerationInputs) (string, error)
	SetAutoMode(ctx context.Context, enabled bool) error
	AutoMode() bool
	Pending() bool
}

// ViewSource exposes the polled presentation state.
type ViewSource interface {
	State() renderer.ViewState
}

// GenerationHandler handles generation and session HTTP requests
type GenerationHandler struct {
	generation GenerationService
	trigger    TriggerService
	view       ViewSource
	exporter   domain.Exporter
}

// NewGenerationHandler creates a new GenerationHandler instance
func NewGenerationHandler(generation GenerationService, trigger TriggerService, view ViewSource, exporter domain.Exporter) *GenerationHandler {
	return &GenerationHandler{
		generation: generation,
		trigger:    trigger,
		view:       view,
		exporter:   exporter,
	}
}

// Generate godoc
// @Summary Generate questions
// @Description Starts a generation run for the given inputs, superseding any live run
// @Tags generation
// @Accept json
// @Produce json
// @Param request body dto.GenerateRequest true "Source material and parameters"
// @Success 202 {object} dto.GenerateResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /generate [post]
func (h *GenerationHandler) Generate(c *fiber.Ctx) error {
	req := middleware.Body[dto.GenerateRequest](c)
	in, err := req.ToInputs()
	if err != nil {
		return err
	}

	id, err := h.trigger.TriggerNow(in)
	if err != nil {
		return err
	}
	logger.Get().Info("Generation started", zap.String("request_id", id), zap.Int("count", in.Count))
	return c.Status(fiber.StatusAccepted).JSON(dto.GenerateResponse{RequestID: id})
}

// Regenerate godoc
// @Summary Regenerate questions
// @Description Reruns generation with the inputs of the last run
// @Tags generation
// @Produce json
// @Success 202 {object} dto.GenerateResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /regenerate [post]
func (h *GenerationHandler) Regenerate(c *fiber.Ctx) error {
	id, err := h.generation.Regenerate()
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(dto.GenerateResponse{RequestID: id})
}

// Cancel godoc
// @Summary Cancel generation
// @Description Cancels the live generation run, if any
// @Tags generation
// @Produce json
// @Success 200 {object} dto.CancelResponse
// @Router /generate [delete]
func (h *GenerationHandler) Cancel(c *fiber.Ctx) error {
	return c.JSON(dto.CancelResponse{Cancelled: h.generation.Cancel()})
}

// InputsChanged godoc
// @Summary Report an input edit
// @Description In automatic mode, schedules a debounced generation for the edited inputs
// @Tags generation
// @Accept json
// @Produce json
// @Param request body dto.GenerateRequest true "Current inputs"
// @Success 202 {object} dto.InputsResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /inputs [post]
func (h *GenerationHandler) InputsChanged(c *fiber.Ctx) error {
	req := middleware.Body[dto.GenerateRequest](c)
	in, err := req.ToInputs()
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(dto.InputsResponse{Scheduled: h.trigger.InputChanged(in)})
}

// GetSession godoc
// @Summary Get session
// @Description Returns the current questions and view state
// @Tags session
// @Produce json
// @Success 200 {object} dto.SessionResponse
// @Router /session [get]
func (h *GenerationHandler) GetSession(c *fiber.Ctx) error {
	snap := h.generation.Snapshot()
	state := h.view.State()

	questions := snap.Questions
	if questions == nil {
		questions = []*domain.Question{}
	}
	return c.JSON(dto.SessionResponse{
		Questions: questions,
		Language:  snap.Language,
		LastError: snap.LastError,
		View: dto.ViewResponse{
			Status:         string(state.Status),
			RequestID:      state.RequestID,
			Progress:       state.Progress,
			Error:          state.Error,
			LanguagePrompt: state.Prompt,
		},
		AutoGenerate:   h.trigger.AutoMode(),
		TriggerPending: h.trigger.Pending(),
	})
}

// ClearSession godoc
// @Summary Clear session
// @Description Cancels the live run and removes all questions
// @Tags session
// @Success 204
// @Router /session [delete]
func (h *GenerationHandler) ClearSession(c *fiber.Ctx) error {
	h.generation.Clear()
	return c.SendStatus(fiber.StatusNoContent)
}

// ExportSession godoc
// @Summary Export questions
// @Description Exports the current questions in the requested layout
// @Tags session
// @Produce json
// @Param target query string false "Export layout" default(json)
// @Success 200 {file} file
// @Failure 400 {object} middleware.ErrorResponse
// @Router /session/export [get]
func (h *GenerationHandler) ExportSession(c *fiber.Ctx) error {
	target := c.Query("target", "json")
	out, err := h.exporter.Export(c.UserContext(), target, h.generation.Snapshot().Questions)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="questions.`+target+`"`)
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Send(out)
}

// UpdateQuestion godoc
// @Summary Edit a question
// @Description Overwrites the given fields of a question. Cancels any live run.
// @Tags questions
// @Accept json
// @Produce json
// @Param id path string true "Question ID"
// @Param request body dto.QuestionPatchRequest true "Fields to change"
// @Success 200 {object} domain.Question
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /questions/{id} [patch]
func (h *GenerationHandler) UpdateQuestion(c *fiber.Ctx) error {
	req := middleware.Body[dto.QuestionPatchRequest](c)
	q, err := h.generation.UpdateQuestion(c.Params("id"), req.ToPatch())
	if err != nil {
		return err
	}
	return c.JSON(q)
}

// DeleteQuestion godoc
// @Summary Delete a question
// @Tags questions
// @Param id path string true "Question ID"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Router /questions/{id} [delete]
func (h *GenerationHandler) DeleteQuestion(c *fiber.Ctx) error {
	if err := h.generation.DeleteQuestion(c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DuplicateQuestion godoc
// @Summary Duplicate a question
// @Description Inserts a copy with a new ID right after the original
// @Tags questions
// @Produce json
// @Param id path string true "Question ID"
// @Success 201 {object} domain.Question
// @Failure 404 {object} middleware.ErrorResponse
// @Router /questions/{id}/duplicate [post]
func (h *GenerationHandler) DuplicateQuestion(c *fiber.Ctx) error {
	q, err := h.generation.DuplicateQuestion(c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(q)
}

// MoveQuestion godoc
// @Summary Reorder a question
// @Tags questions
// @Accept json
// @Param id path string true "Question ID"
// @Param request body dto.MoveQuestionRequest true "New position"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Router /questions/{id}/move [post]
func (h *GenerationHandler) MoveQuestion(c *fiber.Ctx) error {
	req := middleware.Body[dto.MoveQuestionRequest](c)
	if err := h.generation.MoveQuestion(c.Params("id"), *req.Index); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
