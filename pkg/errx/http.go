package errx

import (
	"encoding/json"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// HTTPErrorResponse represents a standard HTTP error response
type HTTPErrorResponse struct {
	Success bool                   `json:"success"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Type    string                 `json:"type"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ToHTTPResponse converts an Error to an HTTPErrorResponse
func (e *Error) ToHTTPResponse() HTTPErrorResponse {
	return HTTPErrorResponse{
		Success: false,
		Code:    e.Code,
		Message: e.Message,
		Type:    string(e.Type),
		Details: e.Details,
	}
}

// WriteHTTP writes the error as a plain net/http response
func (e *Error) WriteHTTP(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.HTTPStatus)
	json.NewEncoder(w).Encode(e.ToHTTPResponse())
}

// WriteFiber renders err on a fiber context using the registered HTTP
// status. Non-errx errors become opaque internal failures so no storage or
// crypto detail ever reaches a caller.
func WriteFiber(c *fiber.Ctx, err error) error {
	var e *Error
	if !As(err, &e) {
		e = Internal("Internal server error")
	}
	return c.Status(e.HTTPStatus).JSON(fiber.Map{
		"success": false,
		"message": e.Message,
	})
}
