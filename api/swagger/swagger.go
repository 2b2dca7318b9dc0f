package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Planner API",
        "description": "Weekly timetable and homework planner backend",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Homework", "description": "Homework registration, lifecycle and export"},
        {"name": "Timetable", "description": "Weekly grid editing, import and export"},
        {"name": "Subjects", "description": "Subject list"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/api/v1/homework": {
            "get": {
                "tags": ["Homework"],
                "summary": "List homework with derived days-until-due",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "q", "in": "query", "type": "string"},
                    {"name": "sort", "in": "query", "type": "string", "enum": ["due_asc", "due_desc", "created_desc"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Homework"],
                "summary": "Register a homework",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddHomeworkRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/homework/upcoming": {
            "get": {
                "tags": ["Homework"],
                "summary": "Homework due within the highlight window",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/homework/export": {
            "get": {
                "tags": ["Homework"],
                "summary": "Download the filtered homework list",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "encoding", "in": "query", "type": "string", "enum": ["utf8bom", "sjis"]},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "q", "in": "query", "type": "string"},
                    {"name": "sort", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/api/v1/homework/{id}/status": {
            "patch": {
                "tags": ["Homework"],
                "summary": "Change status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/homework/{id}/done": {
            "post": {
                "tags": ["Homework"],
                "summary": "Mark as done",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/homework/{id}": {
            "delete": {
                "tags": ["Homework"],
                "summary": "Delete a homework",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/timetable": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Current grid",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Timetable"],
                "summary": "Replace and persist the full grid",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Timetable"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/timetable/cell": {
            "patch": {
                "tags": ["Timetable"],
                "summary": "Update one slot in memory",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetCellRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/timetable/reset": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Blank every cell and persist",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/timetable/import": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Replace the grid from an uploaded JSON document",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Payload is not a weekday mapping"}
                }
            }
        },
        "/api/v1/timetable/export": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Download the grid as re-importable JSON",
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/api/v1/subjects": {
            "get": {
                "tags": ["Subjects"],
                "summary": "Current subject list",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Subjects"],
                "summary": "Register a new subject",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterSubjectRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "Homework": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "subject": {"type": "string"},
                "content": {"type": "string"},
                "due": {"type": "string", "example": "2024-01-15"},
                "status": {"type": "string", "enum": ["未着手", "作業中", "完了"]},
                "submit_method": {"type": "string", "enum": ["Teams", "Google Classroom", "手渡し", "その他"]},
                "submit_method_detail": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "AddHomeworkRequest": {
            "type": "object",
            "required": ["subject", "content"],
            "properties": {
                "subject": {"type": "string"},
                "content": {"type": "string"},
                "due": {"type": "string", "example": "2024-01-15"},
                "status": {"type": "string"},
                "submit_method": {"type": "string"},
                "submit_method_detail": {"type": "string"}
            }
        },
        "SetStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["未着手", "作業中", "完了"]}
            }
        },
        "SetCellRequest": {
            "type": "object",
            "required": ["day", "period"],
            "properties": {
                "day": {"type": "string", "enum": ["月", "火", "水", "木", "金"]},
                "period": {"type": "integer", "minimum": 0, "maximum": 3},
                "value": {"type": "string"}
            }
        },
        "RegisterSubjectRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"}
            }
        },
        "Timetable": {
            "type": "object",
            "additionalProperties": {
                "type": "array",
                "items": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
