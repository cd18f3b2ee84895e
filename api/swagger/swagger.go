package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "TutorAid API",
        "description": "Students, lessons and the enrollments between them",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Students", "description": "Student records, payment and progress"},
        {"name": "Lessons", "description": "Lesson records and capacity"},
        {"name": "Enrollments", "description": "Student to lesson links"},
        {"name": "Views", "description": "Filtered views and live updates"},
        {"name": "Data", "description": "Clear and export"}
    ],
    "paths": {
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List the student view",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Students"],
                "summary": "Add a student",
                "consumes": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/StudentPayload"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid value", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate student", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{name}": {
            "put": {
                "tags": ["Students"],
                "summary": "Edit a student; absent fields are kept",
                "parameters": [
                    {"in": "path", "name": "name", "type": "string", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/StudentPayload"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown student", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Delete a student and its enrollments",
                "parameters": [{"in": "path", "name": "name", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/students/{name}/view": {
            "post": {
                "tags": ["Students"],
                "summary": "Show one student and the lessons they attend",
                "parameters": [{"in": "path", "name": "name", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/students/{name}/paid": {
            "post": {
                "tags": ["Students"],
                "summary": "Mark a student as paid",
                "parameters": [{"in": "path", "name": "name", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/students/{name}/unpaid": {
            "post": {
                "tags": ["Students"],
                "summary": "Mark a student as not paid",
                "parameters": [{"in": "path", "name": "name", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/students/{name}/progress": {
            "post": {
                "tags": ["Students"],
                "summary": "Record a progress entry",
                "parameters": [
                    {"in": "path", "name": "name", "type": "string", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/ProgressPayload"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Delete the latest progress entry",
                "parameters": [{"in": "path", "name": "name", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/lessons": {
            "get": {
                "tags": ["Lessons"],
                "summary": "List the lesson view",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Lessons"],
                "summary": "Add a lesson",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LessonPayload"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate lesson", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/lessons/{name}": {
            "put": {
                "tags": ["Lessons"],
                "summary": "Edit a lesson; capacity may not drop below enrollment",
                "parameters": [
                    {"in": "path", "name": "name", "type": "string", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LessonPayload"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Capacity exceeded", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Lessons"],
                "summary": "Delete a lesson and unenrol its students",
                "parameters": [{"in": "path", "name": "name", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/lessons/{name}/view": {
            "post": {
                "tags": ["Lessons"],
                "summary": "Show one lesson and its students",
                "parameters": [{"in": "path", "name": "name", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/enrollments": {
            "post": {
                "tags": ["Enrollments"],
                "summary": "Enrol a student in a lesson",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/EnrollmentPayload"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already enrolled or lesson full", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Enrollments"],
                "summary": "Remove a student from a lesson",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/EnrollmentPayload"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Not enrolled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/views": {
            "get": {
                "tags": ["Views"],
                "summary": "Both filtered views",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/views/reset": {
            "post": {
                "tags": ["Views"],
                "summary": "Show every student and/or lesson",
                "parameters": [{"in": "query", "name": "scope", "type": "string", "enum": ["all", "students", "lessons"]}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/views/stream": {
            "get": {
                "tags": ["Views"],
                "summary": "Server-sent events carrying the views after every change",
                "produces": ["text/event-stream"],
                "responses": {"200": {"description": "Event stream"}}
            }
        },
        "/clear": {
            "post": {
                "tags": ["Data"],
                "summary": "Delete every student and lesson",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"type": "object", "properties": {"confirm": {"type": "boolean"}}}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/exports/{collection}": {
            "get": {
                "tags": ["Data"],
                "summary": "Download a collection as CSV or PDF",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"in": "path", "name": "collection", "type": "string", "enum": ["students", "lessons"], "required": true},
                    {"in": "query", "name": "format", "type": "string", "enum": ["csv", "pdf"]},
                    {"in": "query", "name": "all", "type": "boolean"}
                ],
                "responses": {"200": {"description": "File"}}
            }
        }
    },
    "definitions": {
        "StudentPayload": {
            "type": "object",
            "properties": {
                "studentName": {"type": "string"},
                "studentPhone": {"type": "string"},
                "parentName": {"type": "string"},
                "parentPhone": {"type": "string"}
            }
        },
        "ProgressPayload": {
            "type": "object",
            "properties": {"progress": {"type": "string"}}
        },
        "LessonPayload": {
            "type": "object",
            "properties": {
                "lessonName": {"type": "string"},
                "capacity": {"type": "string"},
                "price": {"type": "string"},
                "timing": {"type": "string"}
            }
        },
        "EnrollmentPayload": {
            "type": "object",
            "properties": {
                "studentName": {"type": "string"},
                "lessonName": {"type": "string"}
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
