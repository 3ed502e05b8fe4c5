package http

import (
	"encoding/json"
	"net/http"
)

// apiResponse is the envelope every endpoint answers with.
type apiResponse struct {
	Success bool     `json:"success"`
	Data    any      `json:"data,omitempty"`
	Message string   `json:"message,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(resp)
	if err != nil {
		_, _ = w.Write([]byte(`{"success":false,"errors":["internal error"]}`))
		return
	}
	_, _ = w.Write(payload)
}

func writeSuccess(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, apiResponse{Success: true, Data: data, Message: message})
}

func writeError(w http.ResponseWriter, status int, msgs ...string) {
	writeJSON(w, status, apiResponse{Success: false, Errors: msgs})
}
