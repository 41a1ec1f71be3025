package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SENA Horarios API",
        "description": "Curriculum scheduling engine for SENA fichas",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Fichas", "description": "Training cohort directory"},
        {"name": "Schedules", "description": "Batch schedule saves and conflict checks"},
        {"name": "Curriculum", "description": "Plan imports and pending accounting"},
        {"name": "Instructors", "description": "Instructor roster and quotas"},
        {"name": "Exports", "description": "Timetable downloads"}
    ],
    "paths": {
        "/fichas": {
            "get": {
                "tags": ["Fichas"],
                "summary": "List fichas en formacion",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "anio", "in": "query", "type": "integer"},
                    {"name": "trimestre", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/fichas/refresh-states": {
            "post": {
                "tags": ["Fichas"],
                "summary": "Recompute lective states",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/fichas/{id}/schedules": {
            "get": {
                "tags": ["Schedules"],
                "summary": "List schedules of a ficha",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules": {
            "get": {
                "tags": ["Schedules"],
                "summary": "List committed schedules",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Schedules"],
                "summary": "Save a quarter schedule batch",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveScheduleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Quota exceeded", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/conflict-check": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Advisory cross-ficha conflict check",
                "parameters": [
                    {"name": "instructorId", "in": "query", "required": true, "type": "string"},
                    {"name": "day", "in": "query", "required": true, "type": "string"},
                    {"name": "from", "in": "query", "required": true, "type": "string"},
                    {"name": "to", "in": "query", "required": true, "type": "string"},
                    {"name": "excludeFichaId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/curriculum/import": {
            "post": {
                "tags": ["Curriculum"],
                "summary": "Import a curriculum plan workbook",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "fichaId", "in": "formData", "required": true, "type": "string"},
                    {"name": "anio", "in": "formData", "required": true, "type": "integer"},
                    {"name": "trimestre", "in": "formData", "required": true, "type": "integer"},
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/curriculum/pending": {
            "get": {
                "tags": ["Curriculum"],
                "summary": "Pending competencies for a quarter",
                "parameters": [
                    {"name": "fichaId", "in": "query", "required": true, "type": "string"},
                    {"name": "quarter", "in": "query", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/instructors": {
            "get": {
                "tags": ["Instructors"],
                "summary": "List instructors",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/instructors/suggest": {
            "get": {
                "tags": ["Instructors"],
                "summary": "Suggest an instructor for a result text",
                "parameters": [
                    {"name": "fichaId", "in": "query", "required": true, "type": "string"},
                    {"name": "resultado", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/instructors/{id}/hours": {
            "get": {
                "tags": ["Instructors"],
                "summary": "Instructor quota usage",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/instructors/{id}/schedule": {
            "get": {
                "tags": ["Schedules"],
                "summary": "List committed assignments of an instructor",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/fichas/{id}/schedule.csv": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a ficha timetable as CSV",
                "produces": ["text/csv"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/exports/fichas/{id}/schedule.pdf": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a ficha timetable as PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/exports/instructors/{id}/schedule.csv": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download an instructor timetable as CSV",
                "produces": ["text/csv"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    },
    "definitions": {
        "AssignmentRequest": {
            "type": "object",
            "required": ["instructorId", "dia", "horaDesde", "horaHasta"],
            "properties": {
                "instructorId": {"type": "string"},
                "dia": {"type": "string"},
                "horaDesde": {"type": "string", "example": "08:00"},
                "horaHasta": {"type": "string", "example": "10:00"},
                "competencia": {"type": "string"},
                "resultado": {"type": "string"}
            }
        },
        "SaveScheduleRequest": {
            "type": "object",
            "required": ["anio", "trimestre", "asignaciones"],
            "properties": {
                "fichaId": {"type": "string", "description": "ficha uuid; fichaCodigo may be sent instead"},
                "fichaCodigo": {"type": "string"},
                "anio": {"type": "integer"},
                "trimestre": {"type": "integer"},
                "instructorLiderId": {"type": "string"},
                "asignaciones": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/AssignmentRequest"}
                }
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
