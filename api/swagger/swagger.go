package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Driving License Service API",
        "description": "Online portal for learning and driving license applications, renewals and contact changes",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Signup, login and logout"},
        {"name": "Licenses", "description": "Learning, driving and renewal applications"},
        {"name": "Payments", "description": "Simulated fee payment and receipts"},
        {"name": "Change Details", "description": "Contact and address changes on a driving license"},
        {"name": "Status", "description": "Application status checks"},
        {"name": "Home", "description": "Dashboard and history export"},
        {"name": "Documents", "description": "Uploaded identity documents"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "A dependency is unreachable"}
                }
            }
        },
        "/signup": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register a new user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SignupRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Username or email taken", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Session started", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "429": {"description": "Too many attempts", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Logout current session",
                "responses": {"303": {"description": "Redirect to /login"}}
            }
        },
        "/home": {
            "get": {
                "tags": ["Home"],
                "summary": "Dashboard of the signed-in user",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/history/export": {
            "get": {
                "tags": ["Home"],
                "summary": "Export application history",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File"},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/learning-license": {
            "post": {
                "tags": ["Licenses"],
                "summary": "Apply for a learning license",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "document", "in": "formData", "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Staged for payment", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/driving-license": {
            "post": {
                "tags": ["Licenses"],
                "summary": "Book a driving test",
                "responses": {
                    "201": {"description": "Staged for payment", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown learning license", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/renew-license": {
            "post": {
                "tags": ["Licenses"],
                "summary": "Renew a driving license",
                "responses": {
                    "201": {"description": "Staged for payment", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown license", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/payment/{licenseType}": {
            "get": {
                "tags": ["Payments"],
                "summary": "Payment quote",
                "parameters": [
                    {"name": "licenseType", "in": "path", "required": true, "type": "string", "enum": ["learning", "driving", "renewal"]}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Payments"],
                "summary": "Pay the fee",
                "parameters": [
                    {"name": "licenseType", "in": "path", "required": true, "type": "string", "enum": ["learning", "driving", "renewal"]},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PaymentRequest"}}
                ],
                "responses": {
                    "200": {"description": "Fulfilled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Nothing staged for payment", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/payment/receipts/{id}": {
            "get": {
                "tags": ["Payments"],
                "summary": "Payment receipt",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "PDF"}}
            }
        },
        "/change-details": {
            "post": {
                "tags": ["Change Details"],
                "summary": "Verify a license or apply a contact change",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/change-details/{licenseNumber}/history": {
            "get": {
                "tags": ["Change Details"],
                "summary": "Change request history for a license",
                "parameters": [
                    {"name": "licenseNumber", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/application-status": {
            "post": {
                "tags": ["Status"],
                "summary": "Check application status",
                "parameters": [
                    {"name": "application_id", "in": "formData", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/documents/{applicationId}/link": {
            "get": {
                "tags": ["Documents"],
                "summary": "Signed download link for an uploaded document",
                "parameters": [
                    {"name": "applicationId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "definitions": {
        "SignupRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "confirm_password": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "PaymentRequest": {
            "type": "object",
            "properties": {
                "card_number": {"type": "string"},
                "card_holder": {"type": "string"},
                "expiry_date": {"type": "string", "example": "12/29"},
                "cvv": {"type": "string"}
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
