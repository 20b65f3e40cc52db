// Package docs holds the OpenAPI description served at /swagger.
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
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in with username and password",
                "parameters": [
                    {
                        "description": "Credentials",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.TokenResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/runs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["runs"],
                "summary": "List runs",
                "parameters": [
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "per_page", "in": "query"},
                    {"type": "string", "description": "Filter, e.g. status|eq|running", "name": "query", "in": "query"},
                    {"type": "string", "description": "Ordering, e.g. start_time DESC", "name": "order", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.RunListResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["runs"],
                "summary": "Launch a panorama or debug run",
                "parameters": [
                    {
                        "description": "Run request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.CreateRunRequest"}
                    }
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/dto.AsyncResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/runs/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["runs"],
                "summary": "Get a run by database ID",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.RunResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/status/{run_id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["runs"],
                "summary": "Get a run by its run ID",
                "parameters": [
                    {"type": "string", "name": "run_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.RunResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/logs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "List all log files with their contents",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.LogListResponse"}}
                }
            }
        },
        "/logs/latest": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "Get the most recent log file",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.LogResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    },
    "definitions": {
        "dto.LoginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "dto.TokenResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "token_type": {"type": "string"},
                "expires_in": {"type": "integer"}
            }
        },
        "dto.CreateRunRequest": {
            "type": "object",
            "required": ["script"],
            "properties": {
                "script": {"type": "string", "enum": ["panorama", "debug"]},
                "robot_type": {"type": "string"},
                "robot_port": {"type": "string"},
                "robot_id": {"type": "string"},
                "step_folder": {"type": "string"},
                "photo_folder": {"type": "string"},
                "seconds_per_step": {"type": "number"},
                "fps": {"type": "integer"},
                "num_steps": {"type": "integer"},
                "interp_seconds": {"type": "number"}
            }
        },
        "dto.AsyncResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "link": {"type": "string"},
                "run_id": {"type": "string"},
                "log_file": {"type": "string"}
            }
        },
        "dto.RunResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "run_id": {"type": "string"},
                "script": {"type": "string"},
                "command": {"type": "string"},
                "pid": {"type": "integer"},
                "status": {"type": "string"},
                "return_code": {"type": "integer"},
                "log_file": {"type": "string"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "link": {"type": "string"}
            }
        },
        "dto.RunListResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/dto.RunResponse"}},
                "pagination": {"type": "object"}
            }
        },
        "dto.LogResponse": {
            "type": "object",
            "properties": {
                "filename": {"type": "string"},
                "size": {"type": "integer"},
                "mod_time": {"type": "string"},
                "content": {"type": "string"}
            }
        },
        "dto.LogListResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/dto.LogResponse"}}
            }
        },
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"},
                "code": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "LeRobot Panorama API",
	Description:      "REST API for launching and monitoring robot panorama and debug runs",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
