package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Student Information System API",
        "description": "Programs, course catalog, enrollments and academic progress.",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": ["http", "https"],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Auth", "description": "Registration and sessions"},
        {"name": "Programs", "description": "Programs, structures, requirements and tuition"},
        {"name": "Courses", "description": "Course catalog"},
        {"name": "Students", "description": "Student accounts, progress and transcripts"},
        {"name": "Enrollments", "description": "Program membership and course enrollment"},
        {"name": "Public", "description": "Admission applications and contact messages"},
        {"name": "Ops", "description": "Probes and metrics"}
    ],
    "paths": {
        "/health": {
            "get": {"tags": ["Ops"], "summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}
        },
        "/ready": {
            "get": {
                "tags": ["Ops"],
                "summary": "Readiness probe",
                "responses": {"200": {"description": "Ready"}, "503": {"description": "A dependency is degraded"}}
            }
        },
        "/metrics": {
            "get": {"tags": ["Ops"], "summary": "Prometheus exposition", "produces": ["text/plain"], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/auth/register": {
            "post": {
                "tags": ["Auth"],
                "summary": "Register a student account",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Email already registered"}}
            }
        },
        "/api/v1/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Issue an access token",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Invalid credentials"}}
            }
        },
        "/api/v1/auth/me": {
            "get": {"tags": ["Auth"], "summary": "Current session user", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/programs": {
            "get": {
                "tags": ["Programs"],
                "summary": "List programs",
                "parameters": [
                    {"in": "query", "name": "search", "type": "string"},
                    {"in": "query", "name": "active", "type": "boolean"},
                    {"in": "query", "name": "page", "type": "integer"},
                    {"in": "query", "name": "page_size", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {"tags": ["Programs"], "summary": "Create a program", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "409": {"description": "Code already exists"}}}
        },
        "/api/v1/programs/{id}": {
            "get": {"tags": ["Programs"], "summary": "Get a program", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "put": {"tags": ["Programs"], "summary": "Update a program", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Programs"], "summary": "Delete a program", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"204": {"description": "Deleted"}}}
        },
        "/api/v1/programs/{id}/structure": {
            "get": {"tags": ["Programs"], "summary": "Ordered terms and courses of a program", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["Programs"], "summary": "Replace the program structure", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Unknown course or empty term"}}},
            "delete": {"tags": ["Programs"], "summary": "Remove the program structure", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"204": {"description": "Deleted"}}}
        },
        "/api/v1/programs/{id}/requirements": {
            "get": {"tags": ["Programs"], "summary": "Admission requirements", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/programs/{id}/tuition": {
            "get": {
                "tags": ["Programs"],
                "summary": "Tuition, optionally estimated for a credit load",
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "string"},
                    {"in": "query", "name": "credits", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/courses": {
            "get": {"tags": ["Courses"], "summary": "List courses", "parameters": [{"in": "query", "name": "search", "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Courses"], "summary": "Create a course", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/api/v1/courses/catalog": {
            "get": {"tags": ["Courses"], "summary": "Full catalog, served from cache when enabled", "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/courses/{id}": {
            "get": {"tags": ["Courses"], "summary": "Get a course", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["Courses"], "summary": "Update a course", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Courses"], "summary": "Delete a course", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"204": {"description": "Deleted"}}}
        },
        "/api/v1/students": {
            "get": {"tags": ["Students"], "summary": "List students", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/students/{id}": {
            "get": {"tags": ["Students"], "summary": "Get a student", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "403": {"description": "Not your record"}}}
        },
        "/api/v1/students/{id}/progress": {
            "get": {
                "tags": ["Students"],
                "summary": "Academic progress overview and term view",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ProgressReport"}}}
            }
        },
        "/api/v1/students/{id}/transcript": {
            "get": {
                "tags": ["Students"],
                "summary": "Download a transcript",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "string"},
                    {"in": "query", "name": "format", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {"200": {"description": "File"}}
            }
        },
        "/api/v1/student-programs": {
            "post": {"tags": ["Enrollments"], "summary": "Join a program at its first term", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "409": {"description": "Already in an active program"}}}
        },
        "/api/v1/student-programs/{studentId}": {
            "get": {"tags": ["Enrollments"], "summary": "Active program of a student", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "studentId", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/enrollments": {
            "get": {"tags": ["Enrollments"], "summary": "List enrollments", "security": [{"BearerAuth": []}], "parameters": [{"in": "query", "name": "student_id", "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "post": {
                "tags": ["Enrollments"],
                "summary": "Enroll in a course of the current term",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/EnrollRequest"}}],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Already enrolled"}, "422": {"description": "Course not open for enrollment"}}
            }
        },
        "/api/v1/enrollments/{id}/grade": {
            "put": {"tags": ["Enrollments"], "summary": "Record a grade and complete the course", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/admissions": {
            "post": {"tags": ["Public"], "summary": "Submit an admission application", "responses": {"201": {"description": "Created"}}},
            "get": {"tags": ["Public"], "summary": "List applications", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/contact": {
            "post": {"tags": ["Public"], "summary": "Send a contact message", "responses": {"201": {"description": "Created"}}},
            "get": {"tags": ["Public"], "summary": "List contact messages", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "required": ["full_name", "email", "password"],
            "properties": {
                "full_name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 6},
                "phone": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "EnrollRequest": {
            "type": "object",
            "required": ["student_id", "program_id", "course_id"],
            "properties": {
                "student_id": {"type": "string"},
                "program_id": {"type": "string"},
                "course_id": {"type": "string"},
                "term": {"type": "string"}
            }
        },
        "Overview": {
            "type": "object",
            "properties": {
                "totalCredits": {"type": "integer"},
                "completedCredits": {"type": "integer"},
                "remainingCredits": {"type": "integer"},
                "gpa": {"type": "number"}
            }
        },
        "CourseView": {
            "type": "object",
            "properties": {
                "courseId": {"type": "string"},
                "code": {"type": "string"},
                "title": {"type": "string"},
                "credits": {"type": "integer"},
                "order": {"type": "integer"},
                "isEnrolled": {"type": "boolean"},
                "status": {
                    "type": "object",
                    "properties": {"label": {"type": "string"}, "category": {"type": "string"}}
                },
                "canEnroll": {"type": "boolean"}
            }
        },
        "TermView": {
            "type": "object",
            "properties": {
                "termName": {"type": "string"},
                "termNumber": {"type": "integer"},
                "temporal": {"type": "string", "enum": ["past", "current", "future"]},
                "courses": {"type": "array", "items": {"$ref": "#/definitions/CourseView"}}
            }
        },
        "ProgressReport": {
            "type": "object",
            "properties": {
                "overview": {"$ref": "#/definitions/Overview"},
                "currentTerm": {"type": "string"},
                "terms": {"type": "array", "items": {"$ref": "#/definitions/TermView"}}
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
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "item": {"type": "object"},
                "items": {"type": "array", "items": {"type": "object"}},
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
