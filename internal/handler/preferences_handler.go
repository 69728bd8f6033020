package handler

import (
	"quiz-forge/internal/domain"
	"quiz-forge/internal/dto"
	"quiz-forge/internal/logger"
	"quiz-forge/internal/middleware"
	"quiz-forge/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// LanguagePromptService answers the pending output-language prompt.
type LanguagePromptService interface {
	Resolve(promptID string, choice service.LanguageChoice) error
	Abandon() bool
}

// PreferencesHandler handles language prompt answers and user preferences
type PreferencesHandler struct {
	gate    LanguagePromptService
	trigger TriggerService
	prefs   domain.PreferenceStore
}

// NewPreferencesHandler creates a new PreferencesHandler instance
func NewPreferencesHandler(gate LanguagePromptService, trigger TriggerService, prefs domain.PreferenceStore) *PreferencesHandler {
	return &PreferencesHandler{gate: gate, trigger: trigger, prefs: prefs}
}

// ChooseLanguage godoc
// @Summary Answer the language prompt
// @Description Picks the default or alternate output language for a foreign-language source
// @Tags language
// @Accept json
// @Param request body dto.LanguageChoiceRequest true "Choice"
// @Success 204
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /language-choice [post]
func (h *PreferencesHandler) ChooseLanguage(c *fiber.Ctx) error {
	req := middleware.Body[dto.LanguageChoiceRequest](c)
	if err := h.gate.Resolve(req.PromptID, service.LanguageChoice(req.Choice)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DismissLanguagePrompt godoc
// @Summary Dismiss the language prompt
// @Description Closes the prompt without a choice, which cancels the waiting run
// @Tags language
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Router /language-choice [delete]
func (h *PreferencesHandler) DismissLanguagePrompt(c *fiber.Ctx) error {
	if !h.gate.Abandon() {
		return domain.NewNotFoundError("no pending language prompt")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetAutoGenerate godoc
// @Summary Get trigger mode
// @Tags preferences
// @Produce json
// @Success 200 {object} dto.AutoGenerateResponse
// @Router /preferences/auto-generate [get]
func (h *PreferencesHandler) GetAutoGenerate(c *fiber.Ctx) error {
	return c.JSON(dto.AutoGenerateResponse{Enabled: h.trigger.AutoMode()})
}

// SetAutoGenerate godoc
// @Summary Set trigger mode
// @Description Switching to manual mode drops any pending automatic run
// @Tags preferences
// @Accept json
// @Produce json
// @Param request body dto.AutoGenerateRequest true "Mode"
// @Success 200 {object} dto.AutoGenerateResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /preferences/auto-generate [put]
func (h *PreferencesHandler) SetAutoGenerate(c *fiber.Ctx) error {
	req := middleware.Body[dto.AutoGenerateRequest](c)
	if err := h.trigger.SetAutoMode(c.UserContext(), *req.Enabled); err != nil {
		return err
	}
	return c.JSON(dto.AutoGenerateResponse{Enabled: h.trigger.AutoMode()})
}

// SetOutputLanguage godoc
// @Summary Set output language
// @Description Stores the language used when no prompt is needed
// @Tags preferences
// @Accept json
// @Param request body dto.OutputLanguageRequest true "Language tag"
// @Success 204
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /preferences/language [put]
func (h *PreferencesHandler) SetOutputLanguage(c *fiber.Ctx) error {
	req := middleware.Body[dto.OutputLanguageRequest](c)
	if err := h.prefs.Set(c.UserContext(), domain.PrefOutputLanguage, req.Language); err != nil {
		logger.Get().Error("Failed to store output language", zap.Error(err))
		return domain.NewInternalError("failed to store output language", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Health godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /healthz [get]
func Health(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{Status: "ok"})
}
