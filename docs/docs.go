// Package docs holds the Swagger 2.0 document served under /swagger. It is
// kept in step with the godoc annotations on the handler package by hand,
// in the layout swag init produces.
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
        "/api/v1/predict": {
            "post": {
                "description": "Encodes the profile, aligns it to the active feature schema and returns the churn label, probability and advice.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Prediction"],
                "summary": "Score a customer profile",
                "parameters": [
                    {
                        "description": "Customer profile",
                        "name": "profile",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.CustomerProfile"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.PredictResponse"}},
                    "400": {"description": "Malformed JSON", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "422": {"description": "Invalid category or out of range value", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "500": {"description": "Classifier failure", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/api/v1/schema": {
            "get": {
                "description": "Returns the columns the model is scored with and whether rows are aligned to a schema artifact.",
                "produces": ["application/json"],
                "tags": ["Prediction"],
                "summary": "Active feature schema",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.SchemaResponse"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Operations"],
                "summary": "Liveness check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.HealthResponse"}}
                }
            }
        },
        "/ws/predict": {
            "get": {
                "description": "Upgrades to a WebSocket. Every text message must be a JSON customer profile and is answered with a StreamMessage.\nInvalid profiles are answered with an error message and the connection stays open.",
                "tags": ["WebSocket"],
                "summary": "Live scoring over WebSocket",
                "responses": {
                    "101": {"description": "101 Switching Protocols", "schema": {"type": "string"}}
                }
            }
        }
    },
    "definitions": {
        "advice.Advice": {
            "type": "object",
            "properties": {
                "action": {"type": "string"},
                "headline": {"type": "string"},
                "summary": {"type": "string"}
            }
        },
        "handler.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "invalid value \"Maybe\" for field Contract"},
                "field": {"type": "string", "example": "Contract"},
                "value": {"type": "string", "example": "Maybe"}
            }
        },
        "handler.HealthResponse": {
            "type": "object",
            "properties": {
                "aligned": {"type": "boolean"},
                "columns": {"type": "integer", "example": 8},
                "status": {"type": "string", "example": "ok"}
            }
        },
        "handler.PredictResponse": {
            "type": "object",
            "properties": {
                "advice": {"$ref": "#/definitions/advice.Advice"},
                "churn_percent": {"type": "string", "example": "78.12%"},
                "label": {"type": "string", "example": "churned"},
                "prediction": {"$ref": "#/definitions/models.Prediction"}
            }
        },
        "handler.SchemaResponse": {
            "type": "object",
            "properties": {
                "aligned": {"type": "boolean"},
                "columns": {"type": "array", "items": {"type": "string"}},
                "defaulted": {"type": "array", "items": {"type": "string"}},
                "dropped": {"type": "array", "items": {"type": "string"}}
            }
        },
        "models.CustomerProfile": {
            "type": "object",
            "properties": {
                "contract": {"type": "string", "enum": ["Month-to-month", "One year", "Two year"]},
                "dependents": {"type": "string", "enum": ["No", "Yes"]},
                "gender": {"type": "string", "enum": ["Male", "Female"]},
                "internet_service": {"type": "string", "enum": ["No", "DSL", "Fiber Optic"]},
                "married": {"type": "string", "enum": ["No", "Yes"]},
                "monthly_charge": {"type": "number"},
                "satisfaction_score": {"type": "integer"},
                "senior_citizen": {"type": "string", "enum": ["No", "Yes"]},
                "tenure_in_months": {"type": "integer"},
                "total_charges": {"type": "number"}
            }
        },
        "models.Prediction": {
            "type": "object",
            "properties": {
                "aligned": {"type": "boolean"},
                "churn_probability": {"type": "number"},
                "columns": {"type": "array", "items": {"type": "string"}},
                "created_at": {"type": "string"},
                "id": {"type": "string"},
                "label": {"type": "integer", "enum": [0, 1]}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Customer Churn Prediction API",
	Description:      "Scores customer profiles for churn risk.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
