package docs

import (
	"encoding/json"
	"net/http"
)

// OpenAPISpec is a trimmed OpenAPI 3.0 document describing the public API.
type OpenAPISpec struct {
	OpenAPI    string         `json:"openapi"`
	Info       Info           `json:"info"`
	Servers    []Server       `json:"servers"`
	Paths      map[string]any `json:"paths"`
	Components map[string]any `json:"components"`
}

type Info struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Version     string `json:"version"`
}

type Server struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

type obj = map[string]any

func str(extra ...string) obj {
	o := obj{"type": "string"}
	if len(extra) == 1 {
		o["format"] = extra[0]
	}
	return o
}

func num() obj     { return obj{"type": "number", "minimum": 0} }
func integer() obj { return obj{"type": "integer", "format": "int64"} }

func object(required []string, props obj) obj {
	o := obj{"type": "object", "properties": props}
	if len(required) > 0 {
		o["required"] = required
	}
	return o
}

func jsonBody(schema obj) obj {
	return obj{"application/json": obj{"schema": schema}}
}

func op(summary, tag string, secured bool, body obj, okCode, okDesc string, errCodes ...string) obj {
	responses := obj{okCode: obj{"description": okDesc}}
	for _, c := range errCodes {
		responses[c] = obj{"$ref": "#/components/responses/Error"}
	}
	o := obj{
		"summary":   summary,
		"tags":      []string{tag},
		"responses": responses,
	}
	if body != nil {
		o["requestBody"] = obj{"required": true, "content": jsonBody(body)}
	}
	if secured {
		o["security"] = []obj{{"bearerAuth": []string{}}}
		responses["401"] = obj{"$ref": "#/components/responses/Error"}
	}
	return o
}

// crud adds the five resource routes for name under /api/<path>.
func crud(paths obj, path, name string, body obj) {
	tag := name + "s"
	paths["/api/"+path] = obj{
		"get":  op("List "+tag, tag, true, nil, "200", "OK"),
		"post": op("Create "+name, tag, true, body, "201", "Created", "400"),
	}
	paths["/api/"+path+"/{id}"] = obj{
		"parameters": []obj{{"name": "id", "in": "path", "required": true, "schema": integer()}},
		"get":        op("Get "+name, tag, true, nil, "200", "OK", "400", "404"),
		"put":        op("Update "+name, tag, true, body, "200", "OK", "400", "404"),
		"delete":     op("Delete "+name, tag, true, nil, "204", "Deleted", "400", "404", "409"),
	}
}

var spec OpenAPISpec

func init() {
	password := obj{"type": "string", "minLength": 6, "maxLength": 72}

	paths := obj{
		"/healthz": obj{"get": op("Liveness", "Health", false, nil, "200", "Alive")},
		"/readyz":  obj{"get": op("Readiness", "Health", false, nil, "200", "Ready", "503")},

		"/api/auth/register": obj{"post": op("Register user", "Authentication", false,
			object([]string{"name", "email", "password"}, obj{
				"name": obj{"type": "string", "maxLength": 100}, "email": str("email"), "password": password,
			}), "201", "Token bundle", "400", "409")},
		"/api/auth/login": obj{"post": op("Log in", "Authentication", false,
			object([]string{"email", "password"}, obj{"email": str("email"), "password": str()}),
			"200", "Token bundle", "400", "401", "429")},
		"/api/auth/forgot-password": obj{"post": op("Request password reset", "Authentication", false,
			object([]string{"email"}, obj{"email": str("email")}),
			"200", "Always the same message", "400", "429")},
		"/api/auth/reset-password": obj{"post": op("Reset password with token", "Authentication", false,
			object([]string{"token", "newPassword"}, obj{"token": str(), "newPassword": password}),
			"200", "Password reset", "400")},
		"/api/auth/change-password": obj{"post": op("Change password", "Authentication", true,
			object([]string{"currentPassword", "newPassword"}, obj{"currentPassword": str(), "newPassword": password}),
			"200", "Password changed", "400", "404")},
		"/api/auth/me": obj{"get": op("Current user", "Authentication", true, nil, "200", "User", "404")},
	}

	crud(paths, "categories", "Category", object([]string{"name"}, obj{
		"name": str(), "isActive": obj{"type": "boolean", "default": true},
	}))
	crud(paths, "customers", "Customer", object([]string{"name", "email"}, obj{
		"name": str(), "email": str("email"), "mobile": obj{"type": "string", "maxLength": 20},
	}))
	crud(paths, "products", "Product", object([]string{"name", "price"}, obj{
		"name": str(), "price": num(), "description": str(),
	}))
	crud(paths, "orders", "Order", object([]string{"orderNumber", "customerId", "totalAmount"}, obj{
		"orderNumber": str(), "customerId": integer(), "totalAmount": num(),
		"status": obj{"type": "string", "default": "Pending"}, "notes": str(),
	}))

	spec = OpenAPISpec{
		OpenAPI: "3.0.3",
		Info: Info{
			Title:       "Commerce API",
			Description: "Authentication and catalog management API",
			Version:     "1.0.0",
		},
		Servers: []Server{
			{URL: "http://localhost:8080", Description: "Local development server"},
		},
		Paths: paths,
		Components: obj{
			"securitySchemes": obj{
				"bearerAuth": obj{"type": "http", "scheme": "bearer", "bearerFormat": "JWT"},
			},
			"responses": obj{
				"Error": obj{
					"description": "Error envelope",
					"content": jsonBody(object(nil, obj{
						"error": object([]string{"code", "message"}, obj{
							"code": str(), "message": str(), "request_id": str(),
							"meta": obj{"type": "object", "additionalProperties": str()},
						}),
					})),
				},
			},
		},
	}
}

// OpenAPIHandler serves GET /openapi.json.
func OpenAPIHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(spec)
}
