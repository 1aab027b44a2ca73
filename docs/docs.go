// Package docs registers the swagger document served at /swagger.
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
        "/v1/commodities": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Commodities"],
                "summary": "Commodity reference prices",
                "parameters": [
                    {"type": "string", "description": "Name filter", "name": "search", "in": "query"},
                    {"type": "string", "description": "name | price | priceChange", "name": "sort", "in": "query"},
                    {"type": "string", "description": "asc | desc", "name": "order", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Response"}}}
            }
        },
        "/v1/yields": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Yields"], "summary": "Market board yields", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Response"}}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Yields"], "summary": "Post an expected yield", "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/types.Response"}}, "400": {"description": "Invalid input or unknown commodity", "schema": {"$ref": "#/definitions/types.Response"}}}}
        },
        "/v1/yields/{id}": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["Yields"], "summary": "Edit a yield", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Response"}}}}
        },
        "/v1/yields/{id}/offers": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Yields"], "summary": "Offers on a yield", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Response"}}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Yields"], "summary": "Make an offer on a yield", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/types.Response"}}}}
        },
        "/v1/orders": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Orders"], "summary": "Market board orders", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Response"}}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Orders"], "summary": "Post a general buy order", "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/types.Response"}}, "400": {"description": "Invalid input or unknown commodity", "schema": {"$ref": "#/definitions/types.Response"}}}}
        },
        "/v1/deals": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Orders"], "summary": "Offers open for transport bids", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Response"}}}}
        },
        "/v1/orders/{id}/bids": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Bids"], "summary": "Transport bids on an order", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Response"}}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Bids"], "summary": "Bid to transport an order", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/types.Response"}}}}
        },
        "/v1/bids/{id}/accept": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Bids"], "summary": "Accept a transport bid", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Response"}}}}
        },
        "/v1/listings": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Listings"], "summary": "My listings", "description": "Yields, orders, offers and transport bids posted by the current user, with rating stats for every party shown.", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Response"}}}}
        },
        "/v1/transactions": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Transactions"], "summary": "My transactions", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Response"}}}}
        },
        "/v1/transactions/{id}/ratings": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Ratings"], "summary": "Rate the other party of a delivered transaction", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/types.Response"}}}}
        },
        "/v1/rating-stats": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Ratings"], "summary": "Rating summaries for several users", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Response"}}}}
        },
        "/v1/users/{id}/rating-stats": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Ratings"], "summary": "Rating summary for a user", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Response"}}}}
        },
        "/v1/users/{id}/ratings": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Ratings"], "summary": "Ratings a user received", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Response"}}}}
        },
        "/v1/profile": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Profiles"], "summary": "Current user's profile", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Response"}}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["Profiles"], "summary": "Create or update the current user's profile", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Response"}}}}
        },
        "/v1/users/{id}/profile": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Profiles"], "summary": "Another user's profile with rating stats", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Response"}}}}
        }
    },
    "definitions": {
        "types.Response": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"type": "string"},
                "success": {"type": "boolean"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the JWT.",
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
	Title:            "Musika Marketplace",
	Description:      "Produce marketplace: yields, offers, transport bids, deals and ratings.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
