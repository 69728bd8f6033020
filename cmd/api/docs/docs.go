// Package docs registers the OpenAPI description served at /swagger. Regenerate with `swag init -g cmd/api/main.go -o cmd/api/docs`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {"name": "API Support"},
        "license": {"name": "Apache 2.0", "url": "http://www.apache.org/licenses/LICENSE-2.0.html"},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/generate": {
            "post": {
                "tags": ["generation"],
                "summary": "Generate questions",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.GenerateRequest"}}],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/dto.GenerateResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/middleware.ValidationErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["generation"],
                "summary": "Cancel generation",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.CancelResponse"}}}
            }
        },
        "/regenerate": {
            "post": {
                "tags": ["generation"],
                "summary": "Regenerate questions",
                "produces": ["application/json"],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/dto.GenerateResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/session": {
            "get": {
                "tags": ["session"],
                "summary": "Get session",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SessionResponse"}}}
            },
            "delete": {
                "tags": ["session"],
                "summary": "Clear session",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/language-choice": {
            "post": {
                "tags": ["language"],
                "summary": "Answer the language prompt",
                "consumes": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.LanguageChoiceRequest"}}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.ImagePayload": {
            "type": "object",
            "properties": {"mime_type": {"type": "string"}, "data": {"type": "string"}}
        },
        "dto.GenerateRequest": {
            "type": "object",
            "properties": {
                "text": {"type": "string"},
                "images": {"type": "array", "items": {"$ref": "#/definitions/dto.ImagePayload"}},
                "count": {"type": "integer"},
                "type": {"type": "string", "enum": ["multiple_choice", "true_false", "mixed"]},
                "difficulty": {"type": "string", "enum": ["easy", "medium", "hard"]},
                "style": {"type": "string", "enum": ["standard", "competency"]}
            }
        },
        "dto.GenerateResponse": {
            "type": "object",
            "properties": {"request_id": {"type": "string"}}
        },
        "dto.CancelResponse": {
            "type": "object",
            "properties": {"cancelled": {"type": "boolean"}}
        },
        "dto.SessionResponse": {
            "type": "object",
            "properties": {
                "questions": {"type": "array", "items": {"type": "object"}},
                "language": {"type": "string"},
                "last_error": {"type": "string"},
                "view": {"type": "object"},
                "auto_generate": {"type": "boolean"},
                "trigger_pending": {"type": "boolean"}
            }
        },
        "dto.LanguageChoiceRequest": {
            "type": "object",
            "properties": {"prompt_id": {"type": "string"}, "choice": {"type": "string", "enum": ["default", "alternate"]}}
        },
        "middleware.ErrorResponse": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "message": {"type": "string"}, "status": {"type": "integer"}, "details": {"type": "object"}}
        },
        "middleware.ValidationErrorResponse": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "message": {"type": "string"}, "status": {"type": "integer"}, "errors": {"type": "array", "items": {"type": "object"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8090",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "Quiz Forge API",
	Description:      "Generates, edits and exports quiz questions from source material.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
