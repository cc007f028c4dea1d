package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Edu Admin API",
        "description": "Administrative backend for course and diploma management",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Access", "description": "Credential verification"},
        {"name": "Students", "description": "Student registry"},
        {"name": "Instructors", "description": "Instructor registry"},
        {"name": "Staff", "description": "Administrative staff registry"},
        {"name": "Courses", "description": "Course and diploma catalogue"},
        {"name": "Enrollments", "description": "Student-course enrollments"},
        {"name": "Payments", "description": "Payment records and status audit"},
        {"name": "Refunds", "description": "Refund requests"},
        {"name": "Notifications", "description": "User notifications"},
        {"name": "Reports", "description": "Administrative reports"}
    ],
    "paths": {
        "/access/check": {
            "post": {
                "tags": ["Access"],
                "summary": "Verify caller credentials",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AccessCheckRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Missing secret"},
                    "403": {"description": "Unknown access level"},
                    "404": {"description": "Invalid credentials"}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "parameters": [
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Students"],
                "summary": "Register student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateStudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Students"],
                "summary": "Update student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateStudentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Delete student and dependent records",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/students/{id}/summary": {
            "get": {
                "tags": ["Students"],
                "summary": "Per-enrollment payment and occupancy summary",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Student has no enrollments"}
                }
            }
        },
        "/instructors/{id}/courses": {
            "get": {
                "tags": ["Instructors"],
                "summary": "Occupancy report for instructor courses",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Instructor not found"}
                }
            }
        },
        "/payments/{id}/status": {
            "patch": {
                "tags": ["Payments"],
                "summary": "Update payment status with audit trail",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdatePaymentStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Missing status"}
                }
            }
        },
        "/payments/by-enrollment/{enrollmentID}": {
            "get": {
                "tags": ["Payments"],
                "summary": "List payments for one enrollment",
                "parameters": [
                    {"name": "enrollmentID", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/{id}/export": {
            "get": {
                "tags": ["Reports"],
                "summary": "Export report dataset as CSV or PDF",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Document"},
                    "400": {"description": "Unsupported format"}
                }
            }
        },
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
        }
    },
    "definitions": {
        "AccessCheckRequest": {
            "type": "object",
            "properties": {
                "secret": {"type": "string"},
                "staff_code": {"type": "string"},
                "instructor_code": {"type": "string"},
                "enrollment_code": {"type": "string"}
            },
            "required": ["secret"]
        },
        "CreateStudentRequest": {
            "type": "object",
            "properties": {
                "full_name": {"type": "string"},
                "national_id": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "mobile": {"type": "string"},
                "address": {"type": "string"},
                "secret": {"type": "string"},
                "enrollment_code": {"type": "string"}
            },
            "required": ["full_name", "national_id", "email", "secret", "enrollment_code"]
        },
        "UpdateStudentRequest": {
            "type": "object",
            "properties": {
                "full_name": {"type": "string"},
                "national_id": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "mobile": {"type": "string"},
                "address": {"type": "string"},
                "secret": {"type": "string"},
                "enrollment_code": {"type": "string"},
                "status": {"type": "string", "enum": ["active", "inactive"]}
            },
            "required": ["full_name", "national_id", "email", "enrollment_code"]
        },
        "UpdatePaymentStatusRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["complete", "pending", "partial"]},
                "comment": {"type": "string"}
            },
            "required": ["status"]
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
