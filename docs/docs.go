// Package docs holds the OpenAPI description served under /swagger.
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
		"/login": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Login",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request"
					},
					"401": {
						"description": "Unauthorized"
					},
					"422": {
						"description": "Unprocessable Entity"
					}
				},
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.loginRequest"
						}
					}
				]
			}
		},
		"/register": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Register a new account",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "Bad Request"
					},
					"422": {
						"description": "Unprocessable Entity"
					}
				},
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.registerRequest"
						}
					}
				]
			}
		},
		"/logout": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Logout",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/session": {
			"get": {
				"tags": [
					"auth"
				],
				"summary": "Current session",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/profile": {
			"get": {
				"tags": [
					"profile"
				],
				"summary": "Show the signed-in profile",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"303": {
						"description": "See Other"
					}
				}
			},
			"put": {
				"tags": [
					"profile"
				],
				"summary": "Update the signed-in profile",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request"
					},
					"422": {
						"description": "Unprocessable Entity"
					}
				},
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.profileRequest"
						}
					}
				]
			}
		},
		"/dashboard": {
			"get": {
				"tags": [
					"dashboard"
				],
				"summary": "Dashboard",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"303": {
						"description": "See Other"
					},
					"503": {
						"description": "Service Unavailable"
					}
				}
			}
		},
		"/doctor/dashboard": {
			"get": {
				"tags": [
					"dashboard"
				],
				"summary": "Dashboard",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"303": {
						"description": "See Other"
					},
					"503": {
						"description": "Service Unavailable"
					}
				}
			}
		},
		"/admin/dashboard": {
			"get": {
				"tags": [
					"dashboard"
				],
				"summary": "Dashboard",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"303": {
						"description": "See Other"
					},
					"503": {
						"description": "Service Unavailable"
					}
				}
			}
		},
		"/medical-records": {
			"get": {
				"tags": [
					"medical-records"
				],
				"summary": "List medical records",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request"
					}
				},
				"parameters": [
					{
						"type": "string",
						"in": "query",
						"name": "q",
						"description": "Search text"
					},
					{
						"type": "string",
						"in": "query",
						"name": "status",
						"description": "ACTIVE, RESOLVED or ARCHIVED"
					},
					{
						"type": "string",
						"in": "query",
						"name": "from",
						"description": "First day, YYYY-MM-DD"
					},
					{
						"type": "string",
						"in": "query",
						"name": "to",
						"description": "Last day, YYYY-MM-DD"
					}
				]
			},
			"post": {
				"tags": [
					"medical-records"
				],
				"summary": "Create a medical record",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "Bad Request"
					},
					"422": {
						"description": "Unprocessable Entity"
					}
				},
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.recordRequest"
						}
					}
				]
			}
		},
		"/medical-records/{id}": {
			"put": {
				"tags": [
					"medical-records"
				],
				"summary": "Update a medical record",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request"
					},
					"404": {
						"description": "Not Found"
					},
					"422": {
						"description": "Unprocessable Entity"
					}
				},
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.recordRequest"
						}
					},
					{
						"type": "string",
						"in": "path",
						"name": "id",
						"required": true
					}
				]
			},
			"delete": {
				"tags": [
					"medical-records"
				],
				"summary": "Delete a medical record",
				"produces": [
					"application/json"
				],
				"responses": {
					"204": {
						"description": "No Content"
					},
					"404": {
						"description": "Not Found"
					}
				},
				"parameters": [
					{
						"type": "string",
						"in": "path",
						"name": "id",
						"required": true
					}
				]
			}
		},
		"/appointments": {
			"get": {
				"tags": [
					"appointments"
				],
				"summary": "List appointments",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			},
			"post": {
				"tags": [
					"appointments"
				],
				"summary": "Book an appointment",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "Bad Request"
					},
					"422": {
						"description": "Unprocessable Entity"
					}
				},
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.appointmentRequest"
						}
					}
				]
			}
		},
		"/appointments/{id}": {
			"get": {
				"tags": [
					"appointments"
				],
				"summary": "Appointment detail",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"404": {
						"description": "Not Found"
					}
				},
				"parameters": [
					{
						"type": "string",
						"in": "path",
						"name": "id",
						"required": true
					}
				]
			}
		},
		"/appointments/{id}/status": {
			"put": {
				"tags": [
					"appointments"
				],
				"summary": "Change appointment status",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request"
					},
					"422": {
						"description": "Unprocessable Entity"
					}
				},
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.statusRequest"
						}
					},
					{
						"type": "string",
						"in": "path",
						"name": "id",
						"required": true
					}
				]
			}
		},
		"/admin/doctors": {
			"get": {
				"tags": [
					"directory"
				],
				"summary": "List doctors",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/admin/patients": {
			"get": {
				"tags": [
					"directory"
				],
				"summary": "List patients",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/doctor/patients": {
			"get": {
				"tags": [
					"directory"
				],
				"summary": "List patients",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/payments": {
			"get": {
				"tags": [
					"directory"
				],
				"summary": "List payments",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/admin/payments": {
			"get": {
				"tags": [
					"directory"
				],
				"summary": "List payments",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/admin/reports": {
			"get": {
				"tags": [
					"directory"
				],
				"summary": "List reports",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/health": {
			"get": {
				"tags": [
					"health"
				],
				"summary": "Liveness probe",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/health/ready": {
			"get": {
				"tags": [
					"health"
				],
				"summary": "Readiness probe",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"503": {
						"description": "Service Unavailable"
					}
				}
			}
		}
	},
	"definitions": {
		"handler.loginRequest": {
			"type": "object",
			"properties": {
				"email": {
					"type": "string"
				},
				"password": {
					"type": "string"
				}
			},
			"required": [
				"email",
				"password"
			]
		},
		"handler.registerRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"password": {
					"type": "string"
				},
				"role": {
					"type": "string"
				}
			},
			"required": [
				"name",
				"email",
				"password"
			]
		},
		"handler.profileRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"email": {
					"type": "string"
				}
			}
		},
		"handler.recordRequest": {
			"type": "object",
			"properties": {
				"patientId": {
					"type": "string"
				},
				"patientName": {
					"type": "string"
				},
				"doctorId": {
					"type": "string"
				},
				"diagnosis": {
					"type": "string"
				},
				"treatment": {
					"type": "string"
				},
				"notes": {
					"type": "string"
				},
				"status": {
					"type": "string"
				},
				"recordDate": {
					"type": "string"
				}
			},
			"required": [
				"patientId",
				"diagnosis"
			]
		},
		"handler.appointmentRequest": {
			"type": "object",
			"properties": {
				"patientId": {
					"type": "string"
				},
				"doctorId": {
					"type": "string"
				},
				"appointmentDate": {
					"type": "string"
				},
				"reason": {
					"type": "string"
				}
			},
			"required": [
				"doctorId",
				"appointmentDate"
			]
		},
		"handler.statusRequest": {
			"type": "object",
			"properties": {
				"status": {
					"type": "string"
				}
			},
			"required": [
				"status"
			]
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Medical Portal API",
	Description:      "Session gateway and screens for the medical portal.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
