package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Sales Ops API",
        "description": "Sales interaction and permission approval workflows",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Authentication", "description": "Login and token claims"},
        {"name": "Interactions", "description": "Sales contact logging with opportunity and task upkeep"},
        {"name": "Permissions", "description": "Permission requests and manager decisions"},
        {"name": "Notifications", "description": "Per-user notification feed"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user claims",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/interactions": {
            "post": {
                "tags": ["Interactions"],
                "summary": "Record a sales interaction",
                "description": "Creates the client when needed, upserts the open opportunity, logs the interaction and rotates the follow-up task in one transaction.",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/RecordInteractionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "createdBy does not match the token user", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/opportunities/{id}/interactions": {
            "get": {
                "tags": ["Interactions"],
                "summary": "List interactions of an opportunity",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/permissions": {
            "post": {
                "tags": ["Permissions"],
                "summary": "Submit a permission request",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/SubmitPermissionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/SubmitPermissionResponse"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "userId does not match the token user", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "get": {
                "tags": ["Permissions"],
                "summary": "List permission requests",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "query", "name": "status", "type": "string"},
                    {"in": "query", "name": "employeeId", "type": "string"},
                    {"in": "query", "name": "dateFrom", "type": "string", "format": "date"},
                    {"in": "query", "name": "dateTo", "type": "string", "format": "date"},
                    {"in": "query", "name": "limit", "type": "integer"},
                    {"in": "query", "name": "offset", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/permissions/mine": {
            "get": {
                "tags": ["Permissions"],
                "summary": "List the caller's permission requests",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/permissions/export": {
            "get": {
                "tags": ["Permissions"],
                "summary": "Download permission requests as CSV or PDF",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"in": "query", "name": "format", "type": "string", "enum": ["csv", "pdf"]},
                    {"in": "query", "name": "status", "type": "string"},
                    {"in": "query", "name": "employeeId", "type": "string"},
                    {"in": "query", "name": "dateFrom", "type": "string", "format": "date"},
                    {"in": "query", "name": "dateTo", "type": "string", "format": "date"}
                ],
                "responses": {
                    "200": {"description": "Report file", "schema": {"type": "file"}},
                    "400": {"description": "Unknown format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/permissions/{id}": {
            "get": {
                "tags": ["Permissions"],
                "summary": "Get a permission request",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/permissions/decide": {
            "post": {
                "tags": ["Permissions"],
                "summary": "Approve or reject a permission request",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/DecidePermissionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid status", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Not a manager, or userId does not match the token user", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already decided", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/notifications": {
            "get": {
                "tags": ["Notifications"],
                "summary": "List notifications for the caller",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "query", "name": "unread", "type": "boolean"},
                    {"in": "query", "name": "limit", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "RecordInteractionRequest": {
            "type": "object",
            "properties": {
                "isNewClient": {"type": "boolean"},
                "clientName": {"type": "string"},
                "phone1": {"type": "string"},
                "phone2": {"type": "string"},
                "address": {"type": "string"},
                "clientId": {"type": "string"},
                "employeeId": {"type": "string"},
                "sourceId": {"type": "integer"},
                "adTypeId": {"type": "integer"},
                "stageId": {"type": "integer"},
                "statusId": {"type": "integer"},
                "categoryId": {"type": "integer"},
                "interestedProduct": {"type": "string"},
                "expectedValue": {"type": "number"},
                "summary": {"type": "string"},
                "guidance": {"type": "string"},
                "lostReasonId": {"type": "integer"},
                "nextFollowUpDate": {"type": "string", "format": "date"},
                "taskTypeId": {"type": "integer"},
                "createdBy": {"type": "string"}
            }
        },
        "SubmitPermissionRequest": {
            "type": "object",
            "required": ["permissionDate", "type", "reason"],
            "properties": {
                "userId": {"type": "string"},
                "permissionDate": {"type": "string", "format": "date"},
                "type": {"type": "string", "enum": ["LateIn", "EarlyOut", "Errand"]},
                "reason": {"type": "string"},
                "fromTime": {"type": "string"},
                "toTime": {"type": "string"}
            }
        },
        "SubmitPermissionResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "permissionId": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "DecidePermissionRequest": {
            "type": "object",
            "required": ["permissionId", "status"],
            "properties": {
                "permissionId": {"type": "string"},
                "status": {"type": "string", "enum": ["Approved", "Rejected"]},
                "comment": {"type": "string"},
                "userId": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "detail": {"type": "string"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"}
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
