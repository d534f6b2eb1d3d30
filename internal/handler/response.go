package handler

import (
	"encoding/json"
	"net/http"

	"github.com/forgo/clubhouse/api/internal/model"
)

// DataResponse wraps a successful response. Every body carries a message,
// data is present only when the endpoint returns a resource.
type DataResponse struct {
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteData writes a successful data response
func WriteData(w http.ResponseWriter, status int, data interface{}, message string) {
	WriteJSON(w, status, DataResponse{Data: data, Message: message})
}

// WriteMessage writes a successful response that only carries a message
func WriteMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, DataResponse{Message: message})
}

// WriteError writes an error response using RFC 9457 Problem Details
func WriteError(w http.ResponseWriter, err *model.ProblemDetails) {
	err.WriteJSON(w)
}

// DecodeJSON decodes a JSON request body into the given struct
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
