package router

import (
	"fmt"
	"net/http"
)

func registerSwaggerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
	})

	mux.HandleFunc("/swagger/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, swaggerHTML, "/swagger/openapi.json")
	})

	mux.HandleFunc("/swagger/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(openAPI))
	})
}

const swaggerHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>Bankist API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function() {
      window.ui = SwaggerUIBundle({
        url: "%s",
        dom_id: "#swagger-ui"
      });
    };
  </script>
</body>
</html>`

const openAPI = `{
  "openapi": "3.0.3",
  "info": {
    "title": "Bankist API",
    "version": "1.0.0"
  },
  "paths": {
    "/login": {
      "post": {
        "summary": "Log in with username and pin",
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {"type":"object","required":["username","pin"],"properties":{"username":{"type":"string"},"pin":{"type":"string","pattern":"^[0-9]+$"}}}
            }
          }
        },
        "responses": {
          "200": {"description": "Logged in"},
          "400": {"description": "Validation error"},
          "401": {"description": "Invalid credentials"},
          "429": {"description": "Too many attempts"}
        }
      }
    },
    "/logout": {
      "post": {
        "summary": "End the current session",
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "responses": {
          "200": {"description": "Logged out"},
          "401": {"description": "Session not found"}
        }
      }
    },
    "/session/timer": {
      "get": {
        "summary": "Remaining inactivity time",
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "responses": {
          "200": {"description": "Timer fetched"},
          "401": {"description": "Session not found"}
        }
      }
    },
    "/session/events": {
      "get": {
        "summary": "WebSocket stream of timer ticks, refreshes and logout",
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "parameters": [{"name":"token","in":"query","required":false,"schema":{"type":"string"}}],
        "responses": {
          "101": {"description": "Switching protocols"},
          "401": {"description": "Session not found"}
        }
      }
    },
    "/account": {
      "get": {
        "summary": "Current account view",
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "responses": {
          "200": {"description": "Account fetched"},
          "401": {"description": "Session not found"}
        }
      }
    },
    "/movements": {
      "get": {
        "summary": "Movement rows in display order",
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "responses": {
          "200": {"description": "Movements fetched"},
          "401": {"description": "Session not found"}
        }
      }
    },
    "/movements/sort": {
      "post": {
        "summary": "Toggle movement sort order",
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "responses": {
          "200": {"description": "Sort toggled"},
          "401": {"description": "Session not found"}
        }
      }
    },
    "/transfer": {
      "post": {
        "summary": "Transfer money to another account",
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {"type":"object","required":["to","amount"],"properties":{"to":{"type":"string"},"amount":{"type":"number"}}}
            }
          }
        },
        "responses": {
          "200": {"description": "Transfer completed"},
          "400": {"description": "Invalid amount or self transfer"},
          "401": {"description": "Session not found"},
          "404": {"description": "Recipient not found"},
          "422": {"description": "Insufficient balance"}
        }
      }
    },
    "/loan": {
      "post": {
        "summary": "Request a loan",
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {"type":"object","required":["amount"],"properties":{"amount":{"type":"number"}}}
            }
          }
        },
        "responses": {
          "202": {"description": "Loan approved, credit pending"},
          "400": {"description": "Invalid amount"},
          "401": {"description": "Session not found"},
          "422": {"description": "Loan rejected"}
        }
      }
    },
    "/close-account": {
      "post": {
        "summary": "Close the current account",
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {"type":"object","required":["username","pin"],"properties":{"username":{"type":"string"},"pin":{"type":"string"}}}
            }
          }
        },
        "responses": {
          "200": {"description": "Account closed"},
          "401": {"description": "Session not found"},
          "422": {"description": "Confirmation mismatch"}
        }
      }
    },
    "/admin/accounts": {
      "get": {
        "summary": "List directory accounts",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "responses": {
          "200": {"description": "Accounts fetched"},
          "401": {"description": "Unauthorized"}
        }
      }
    },
    "/healthz": {
      "get": {
        "summary": "Liveness probe",
        "responses": {
          "200": {"description": "OK"}
        }
      }
    }
  },
  "components": {
    "securitySchemes": {
      "BasicAuth": {
        "type": "http",
        "scheme": "basic"
      },
      "BearerAuth": {
        "type": "http",
        "scheme": "bearer",
        "bearerFormat": "JWT"
      }
    }
  }
}`
