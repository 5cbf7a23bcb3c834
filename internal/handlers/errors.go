package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

// ErrorResponse is the JSON error body shared by all endpoints
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func respondWithError(w http.ResponseWriter, status int, kind, userMsg string, err error) {
	if err != nil {
		log.Printf("%s: %v", userMsg, err)
	}

	respondWithJSON(w, status, ErrorResponse{Error: kind, Message: userMsg})
}
