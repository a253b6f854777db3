package middleware

import (
	"encoding/json"
	"net/http"
)

// failBody is the error envelope shared by every middleware rejection,
// matching the handler layer's {success:false, message} shape.
type failBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// reject short-circuits the request with a JSON error envelope.
// No further handler code executes after a rejection.
func reject(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(failBody{Success: false, Message: message})
}
