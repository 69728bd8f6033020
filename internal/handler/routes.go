package handler

import (
	"quiz-forge/internal/dto"
	"quiz-forge/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the API under /api and the liveness probe at /healthz.
func RegisterRoutes(app *fiber.App, gen *GenerationHandler, prefs *PreferencesHandler, vm *middleware.ValidationMiddleware) {
	app.Get("/healthz", Health)

	api := app.Group("/api")

	api.Post("/generate", middleware.ValidateBody[dto.GenerateRequest](vm), gen.Generate)
	api.Delete("/generate", gen.Cancel)
	api.Post("/regenerate", gen.Regenerate)
	api.Post("/inputs", middleware.ValidateBody[dto.GenerateRequest](vm), gen.InputsChanged)

	api.Get("/session", gen.GetSession)
	api.Delete("/session", gen.ClearSession)
	api.Get("/session/export", gen.ExportSession)

	questionID := vm.ValidateParam("id", "required,ulid")
	api.Patch("/questions/:id", questionID, middleware.ValidateBody[dto.QuestionPatchRequest](vm), gen.UpdateQuestion)
	api.Delete("/questions/:id", questionID, gen.DeleteQuestion)
	api.Post("/questions/:id/duplicate", questionID, gen.DuplicateQuestion)
	api.Post("/questions/:id/move", questionID, middleware.ValidateBody[dto.MoveQuestionRequest](vm), gen.MoveQuestion)

	api.Post("/language-choice", middleware.ValidateBody[dto.LanguageChoiceRequest](vm), prefs.ChooseLanguage)
	api.Delete("/language-choice", prefs.DismissLanguagePrompt)

	api.Get("/preferences/auto-generate", prefs.GetAutoGenerate)
	api.Put("/preferences/auto-generate", middleware.ValidateBody[dto.AutoGenerateRequest](vm), prefs.SetAutoGenerate)
	api.Put("/preferences/language", middleware.ValidateBody[dto.OutputLanguageRequest](vm), prefs.SetOutputLanguage)
}
