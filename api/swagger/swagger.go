package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Schedule Grid API",
        "description": "Weekly schedule grid with conflict detection and placement suggestions",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [
        {"BearerAuth": []}
    ],
    "tags": [
        {"name": "Grid", "description": "Weekly grid, moves and conflict checks"},
        {"name": "Rooms", "description": "Room catalogue of a unit"}
    ],
    "paths": {
        "/units/{unitId}/grid": {
            "get": {
                "tags": ["Grid"],
                "summary": "Weekly grid of a unit",
                "parameters": [
                    {"name": "unitId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unit not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/units/{unitId}/grid/export": {
            "get": {
                "tags": ["Grid"],
                "summary": "Download the weekly grid",
                "produces": ["text/csv", "application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "text/calendar", "image/png"],
                "parameters": [
                    {"name": "unitId", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf", "xlsx", "ics", "png"], "default": "csv"}
                ],
                "responses": {
                    "200": {"description": "Rendered document", "schema": {"type": "file"}},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/units/{unitId}/grid/check": {
            "post": {
                "tags": ["Grid"],
                "summary": "Check an unsaved slot",
                "parameters": [
                    {"name": "unitId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SlotRequest"}}
                ],
                "responses": {
                    "200": {"description": "Conflicts and suggestions", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/units/{unitId}/grid/slots": {
            "post": {
                "tags": ["Grid"],
                "summary": "Create a slot",
                "parameters": [
                    {"name": "unitId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SlotRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Blocking conflicts, listed in meta.conflicts", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Warnings not acknowledged", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Record store rejected the write", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/units/{unitId}/grid/slots/{slotId}": {
            "delete": {
                "tags": ["Grid"],
                "summary": "Deactivate a slot",
                "parameters": [
                    {"name": "unitId", "in": "path", "required": true, "type": "string"},
                    {"name": "slotId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deactivated"},
                    "404": {"description": "Slot not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/units/{unitId}/grid/slots/{slotId}/propose": {
            "post": {
                "tags": ["Grid"],
                "summary": "Evaluate a move without saving it",
                "parameters": [
                    {"name": "unitId", "in": "path", "required": true, "type": "string"},
                    {"name": "slotId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MoveRequest"}}
                ],
                "responses": {
                    "200": {"description": "Conflicts and suggestions", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid placement", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/units/{unitId}/grid/slots/{slotId}/move": {
            "post": {
                "tags": ["Grid"],
                "summary": "Confirm a move",
                "parameters": [
                    {"name": "unitId", "in": "path", "required": true, "type": "string"},
                    {"name": "slotId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ConfirmMoveRequest"}}
                ],
                "responses": {
                    "200": {"description": "Moved; the reloaded grid is returned", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Blocking conflicts or stale version", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Warnings not acknowledged", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Record store rejected the write", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/units/{unitId}/grid/slots/{slotId}/students": {
            "put": {
                "tags": ["Grid"],
                "summary": "Replace the students of a slot",
                "parameters": [
                    {"name": "unitId", "in": "path", "required": true, "type": "string"},
                    {"name": "slotId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentsRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Warnings not acknowledged", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/units/{unitId}/rooms": {
            "get": {
                "tags": ["Rooms"],
                "summary": "List rooms of a unit",
                "parameters": [
                    {"name": "unitId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Rooms"],
                "summary": "Create a room",
                "parameters": [
                    {"name": "unitId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RoomRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "MoveRequest": {
            "type": "object",
            "properties": {
                "day_of_week": {"type": "string", "example": "MONDAY"},
                "start_time": {"type": "string", "example": "09:30"},
                "room_id": {"type": "string"},
                "limit": {"type": "integer", "minimum": 1, "maximum": 50}
            },
            "required": ["day_of_week", "start_time"]
        },
        "ConfirmMoveRequest": {
            "type": "object",
            "properties": {
                "day_of_week": {"type": "string", "example": "MONDAY"},
                "start_time": {"type": "string", "example": "09:30"},
                "room_id": {"type": "string"},
                "acknowledge_warnings": {"type": "boolean"},
                "expected_version": {"type": "integer", "minimum": 1}
            },
            "required": ["day_of_week", "start_time"]
        },
        "SlotRequest": {
            "type": "object",
            "properties": {
                "teacher_id": {"type": "string"},
                "room_id": {"type": "string"},
                "course_id": {"type": "string"},
                "day_of_week": {"type": "string"},
                "start_time": {"type": "string"},
                "duration_minutes": {"type": "integer", "minimum": 5, "maximum": 720},
                "student_ids": {"type": "array", "items": {"type": "string"}},
                "acknowledge_warnings": {"type": "boolean"},
                "limit": {"type": "integer"}
            },
            "required": ["teacher_id", "day_of_week", "start_time"]
        },
        "StudentsRequest": {
            "type": "object",
            "properties": {
                "student_ids": {"type": "array", "items": {"type": "string"}},
                "acknowledge_warnings": {"type": "boolean"}
            }
        },
        "RoomRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "capacity": {"type": "integer"},
                "allowed_course_ids": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["name"]
        },
        "Conflict": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "enum": ["TEACHER_DOUBLE_BOOKED", "ROOM_DOUBLE_BOOKED", "ROOM_CAPACITY_EXCEEDED", "ROOM_COURSE_INCOMPATIBLE"]},
                "severity": {"type": "string", "enum": ["ERROR", "WARNING"]},
                "detail": {"type": "string"},
                "slot_ids": {"type": "array", "items": {"type": "string"}},
                "room_id": {"type": "string"},
                "overlap_start": {"type": "string"},
                "overlap_end": {"type": "string"}
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
                "meta": {
                    "type": "object",
                    "properties": {
                        "conflicts": {"type": "array", "items": {"$ref": "#/definitions/Conflict"}},
                        "cache_hit": {"type": "boolean"},
                        "processing_time_ms": {"type": "integer"}
                    }
                }
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
