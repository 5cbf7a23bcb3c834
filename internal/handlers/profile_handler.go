package handlers

import (
	"net/http"

	"mathquest/internal/models"
	"mathquest/internal/service"
)

// ProfileHandler serves the demo user's profile
type ProfileHandler struct {
	lessons *service.LessonService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(lessons *service.LessonService) *ProfileHandler {
	return &ProfileHandler{lessons: lessons}
}

// GetProfile handles GET /api/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.lessons.GetProfile(models.DemoUserID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal", "Failed to load profile", err)
		return
	}
	if profile == nil {
		respondWithError(w, http.StatusNotFound, "NotFound", "User not found", nil)
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}
