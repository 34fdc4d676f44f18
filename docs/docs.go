// Package docs registers the OpenAPI description served under /swagger/*.
// Path details are taken from the swag annotations on the HTTP handlers; run
// `swag init -g cmd/server/main.go` to regenerate the full schema.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "auth", "description": "Registration, login and admin bootstrap"},
        {"name": "events", "description": "Event management"},
        {"name": "attendees", "description": "Event registrations"}
    ],
    "paths": {
        "/api/auth/register": {"post": {"tags": ["auth"], "summary": "Register a new user", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}},
        "/api/auth/login": {"post": {"tags": ["auth"], "summary": "Login", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "429": {"description": "Too Many Requests"}}}},
        "/api/auth/register-first-admin": {"post": {"tags": ["auth"], "summary": "Bootstrap the first admin", "parameters": [{"type": "string", "name": "token", "in": "query", "required": true}], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "403": {"description": "Forbidden"}}}},
        "/api/auth/register-admin": {"post": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Register an additional admin", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}}},
        "/api/auth/me": {"get": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Current principal", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/api/events": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "List all events", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Create an event", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/api/events/my-registered": {"get": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "List events the caller is registered for", "responses": {"200": {"description": "OK"}}}},
        "/api/events/creator/{creatorId}": {"get": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "List events created by a user", "parameters": [{"type": "integer", "name": "creatorId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/api/events/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Get an event", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Update an event", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Delete an event", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}
        },
        "/api/attendees/register/{eventId}": {"post": {"security": [{"BearerAuth": []}], "tags": ["attendees"], "summary": "Register the caller for an event", "parameters": [{"type": "integer", "name": "eventId", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}}},
        "/api/attendees/cancel/{attendeeId}": {"delete": {"security": [{"BearerAuth": []}], "tags": ["attendees"], "summary": "Cancel a registration", "parameters": [{"type": "integer", "name": "attendeeId", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}}},
        "/api/attendees/event/{eventId}": {"get": {"security": [{"BearerAuth": []}], "tags": ["attendees"], "summary": "List the attendees of an event", "parameters": [{"type": "integer", "name": "eventId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Event Management API",
	Description:      "Events, attendees and token-based authentication with role and ownership checks.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
