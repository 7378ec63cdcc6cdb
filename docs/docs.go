// Package docs registers the OpenAPI document of the notes API with swag
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
    "paths": {
        "/api/notes": {
            "post": {
                "description": "Visible notes of the author, most recently updated first, optionally filtered by tag and search text",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Notes"],
                "summary": "List notes",
                "parameters": [
                    {"description": "Author and optional filters", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.ListNotesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.NoteDTO"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/notes/create": {
            "post": {
                "description": "Title and tags are derived from the content",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Notes"],
                "summary": "Create note",
                "parameters": [
                    {"description": "Note content and author", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateNoteRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.NoteSummaryResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/notes/export": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["Notes"],
                "summary": "Export notes",
                "parameters": [
                    {"description": "Author", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.ExportNotesRequest"}}
                ],
                "responses": {
                    "200": {"description": "Excel file", "schema": {"type": "string"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/notes/{id}": {
            "put": {
                "description": "Replaces title, content and tags. Unknown ids are accepted and change nothing.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Notes"],
                "summary": "Update note",
                "parameters": [
                    {"type": "integer", "description": "Note ID", "name": "id", "in": "path", "required": true},
                    {"description": "New content and author", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.UpdateNoteRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.NoteSummaryResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["Notes"],
                "summary": "Delete note",
                "parameters": [
                    {"type": "integer", "description": "Note ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.MessageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/tags": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Tags"],
                "summary": "List tags",
                "parameters": [
                    {"description": "Author", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.ListTagsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.TagDTO"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/addNote": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Ingestion"],
                "summary": "Add note (query)",
                "parameters": [
                    {"type": "string", "description": "Note content", "name": "note", "in": "query", "required": true},
                    {"type": "string", "description": "Author", "name": "author", "in": "query"},
                    {"type": "string", "description": "Bearer token", "name": "Authorization", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.AddNoteResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "403": {"description": "Unauthorised", "schema": {"type": "string"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["Ingestion"],
                "summary": "Add note (body)",
                "parameters": [
                    {"description": "Note content and author", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.AddNoteRequest"}},
                    {"type": "string", "description": "Bearer token", "name": "Authorization", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.AddNoteResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "403": {"description": "Unauthorised", "schema": {"type": "string"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/cron": {
            "get": {
                "produces": ["text/plain"],
                "tags": ["System"],
                "summary": "Cron ping",
                "responses": {
                    "200": {"description": "okay", "schema": {"type": "string"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["System"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.APIResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {},
                "error": {}
            }
        },
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "dto.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "dto.ListNotesRequest": {
            "type": "object",
            "properties": {
                "tag": {"type": "string", "maxLength": 100},
                "search": {"type": "string", "maxLength": 255},
                "author": {"type": "string", "maxLength": 155}
            }
        },
        "dto.CreateNoteRequest": {
            "type": "object",
            "properties": {
                "content": {"type": "string"},
                "author": {"type": "string", "maxLength": 155}
            }
        },
        "dto.UpdateNoteRequest": {
            "type": "object",
            "properties": {
                "content": {"type": "string"},
                "author": {"type": "string", "maxLength": 155}
            }
        },
        "dto.AddNoteRequest": {
            "type": "object",
            "properties": {
                "note": {"type": "string"},
                "author": {"type": "string", "maxLength": 155}
            }
        },
        "dto.ExportNotesRequest": {
            "type": "object",
            "properties": {
                "author": {"type": "string", "maxLength": 155}
            }
        },
        "dto.ListTagsRequest": {
            "type": "object",
            "properties": {
                "author": {"type": "string", "maxLength": 155}
            }
        },
        "dto.NoteDTO": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "content": {"type": "string"},
                "is_favorite": {"type": "boolean"},
                "is_archived": {"type": "boolean"},
                "is_processed": {"type": "boolean"},
                "blocked": {"type": "string"},
                "author": {"type": "string"},
                "shared_with": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"},
                "tags": {"type": "array", "items": {"type": "string"}}
            }
        },
        "dto.NoteSummaryResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "content": {"type": "string"},
                "tags": {"type": "array", "items": {"type": "string"}}
            }
        },
        "dto.AddNoteResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "note": {"type": "string"},
                "tags": {"type": "array", "items": {"type": "string"}}
            }
        },
        "dto.TagDTO": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "color": {"type": "string"},
                "created_at": {"type": "string"},
                "note_count": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "bkm-notes API",
	Description:      "Hashtag-organised notes with a token-protected ingestion endpoint",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
