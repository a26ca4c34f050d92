package httpx

import (
	"net/http"

	"github.com/go-chi/render"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// JSON writes a JSON response with the given status.
func JSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	render.Status(r, status)
	render.JSON(w, r, payload)
}

// Error writes the error envelope. Details carry the underlying error text
// in development only; callers pass nil outside of it.
func Error(w http.ResponseWriter, r *http.Request, status int, msg string, details any) {
	JSON(w, r, status, ErrorResponse{Error: msg, Details: details})
}
