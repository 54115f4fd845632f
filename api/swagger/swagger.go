package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMA Conflict API",
        "description": "Conflict detection and resolution engine for class scheduling",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Conflicts", "description": "Detection, validation and triage"},
        {"name": "Resolutions", "description": "Suggestions, application and auto-resolution"}
    ],
    "paths": {
        "/schedules/{id}/conflicts": {
            "get": {
                "tags": ["Conflicts"],
                "summary": "List stored active conflicts",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/{id}/conflicts/count": {
            "get": {
                "tags": ["Conflicts"],
                "summary": "Count stored active conflicts",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/{id}/conflicts/priority": {
            "get": {
                "tags": ["Conflicts"],
                "summary": "List active conflicts ranked by priority",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/{id}/conflicts/detect": {
            "post": {
                "tags": ["Conflicts"],
                "summary": "Run a full detection pass without persisting",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Missing schedule id", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/{id}/conflicts/refresh": {
            "post": {
                "tags": ["Conflicts"],
                "summary": "Replace the stored conflict set with a fresh pass",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/{id}/conflicts/check-slot": {
            "post": {
                "tags": ["Conflicts"],
                "summary": "Evaluate a candidate slot against the schedule",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "slot", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ScheduleSlot"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/{id}/validate": {
            "get": {
                "tags": ["Conflicts"],
                "summary": "Run a validation pass with severity tallies",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/{id}/auto-resolve": {
            "post": {
                "tags": ["Resolutions"],
                "summary": "Auto-resolve a schedule's active conflicts",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "type", "in": "query", "type": "string", "description": "Restrict to one conflict type"},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AutoResolveRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/conflicts/{id}/suggestions": {
            "get": {
                "tags": ["Resolutions"],
                "summary": "Generate resolution suggestions for a conflict",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/conflicts/{id}/swaps": {
            "get": {
                "tags": ["Resolutions"],
                "summary": "Suggest swapping the two slots of a pairwise conflict",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/conflicts/{id}/resolve": {
            "post": {
                "tags": ["Resolutions"],
                "summary": "Apply a chosen resolution suggestion",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ApplyResolutionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/conflicts/{id}/mark-resolved": {
            "post": {
                "tags": ["Resolutions"],
                "summary": "Mark a conflict resolved administratively",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StatusNoteRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/conflicts/{id}/ignore": {
            "post": {
                "tags": ["Resolutions"],
                "summary": "Park a conflict without resolving it",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StatusNoteRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/conflicts/{id}/unignore": {
            "post": {
                "tags": ["Resolutions"],
                "summary": "Return an ignored conflict to the active set",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/resolutions/impact": {
            "post": {
                "tags": ["Resolutions"],
                "summary": "Summarise what applying a suggestion would touch",
                "parameters": [
                    {"name": "suggestion", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ResolutionSuggestion"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/resolutions/{type}/success-rate": {
            "get": {
                "tags": ["Resolutions"],
                "summary": "Default success percentage for a resolution type",
                "parameters": [
                    {"name": "type", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "ScheduleSlot": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "schedule_id": {"type": "string"},
                "day_of_week": {"type": "string", "example": "MONDAY"},
                "start_time": {"type": "string", "example": "09:00"},
                "end_time": {"type": "string", "example": "10:00"},
                "period_number": {"type": "integer"},
                "teacher_id": {"type": "string"},
                "room_id": {"type": "string"},
                "course_id": {"type": "string"}
            }
        },
        "ResolutionAction": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "example": "CHANGE_ROOM"},
                "slot_id": {"type": "string"},
                "second_slot_id": {"type": "string"},
                "new_room_id": {"type": "string"},
                "new_teacher_id": {"type": "string"},
                "new_time": {"$ref": "#/definitions/TimeSlotOption"},
                "enrollment_id": {"type": "string"},
                "target_slot_id": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "TimeSlotOption": {
            "type": "object",
            "properties": {
                "day_of_week": {"type": "string", "example": "TUESDAY"},
                "start_time": {"type": "string", "example": "11:00"},
                "end_time": {"type": "string", "example": "12:00"}
            }
        },
        "ResolutionSuggestion": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "type": {"type": "string", "example": "CHANGE_ROOM"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "confidence": {"type": "number"},
                "requires_confirmation": {"type": "boolean"},
                "actions": {"type": "array", "items": {"$ref": "#/definitions/ResolutionAction"}}
            }
        },
        "User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "username": {"type": "string"},
                "full_name": {"type": "string"}
            }
        },
        "ApplyResolutionRequest": {
            "type": "object",
            "required": ["suggestion", "user"],
            "properties": {
                "suggestion": {"$ref": "#/definitions/ResolutionSuggestion"},
                "user": {"$ref": "#/definitions/User"}
            }
        },
        "AutoResolveRequest": {
            "type": "object",
            "required": ["user"],
            "properties": {
                "user": {"$ref": "#/definitions/User"}
            }
        },
        "StatusNoteRequest": {
            "type": "object",
            "properties": {
                "note": {"type": "string"},
                "user": {"$ref": "#/definitions/User"}
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
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
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
