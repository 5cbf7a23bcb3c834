package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"mathquest/internal/database"
	"mathquest/internal/models"
	"mathquest/internal/service"
)

// LessonHandler serves the lesson endpoints, including submissions.
// It owns the transaction around each submission: the engine never
// commits or rolls back itself.
type LessonHandler struct {
	db          *database.DB
	lessons     *service.LessonService
	submissions *service.SubmissionService
}

// NewLessonHandler creates a new lesson handler
func NewLessonHandler(db *database.DB, lessons *service.LessonService, submissions *service.SubmissionService) *LessonHandler {
	return &LessonHandler{
		db:          db,
		lessons:     lessons,
		submissions: submissions,
	}
}

// ListLessons handles GET /api/lessons
func (h *LessonHandler) ListLessons(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.lessons.ListLessons(models.DemoUserID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal", "Failed to list lessons", err)
		return
	}

	respondWithJSON(w, http.StatusOK, summaries)
}

// GetLesson handles GET /api/lessons/{id}
func (h *LessonHandler) GetLesson(w http.ResponseWriter, r *http.Request) {
	lessonID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation", "Invalid lesson id", nil)
		return
	}

	detail, err := h.lessons.GetLesson(models.DemoUserID, lessonID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal", "Failed to load lesson", err)
		return
	}
	if detail == nil {
		respondWithError(w, http.StatusNotFound, "NotFound", "Lesson not found", nil)
		return
	}

	respondWithJSON(w, http.StatusOK, detail)
}

// Submit handles POST /api/lessons/{id}/submit
func (h *LessonHandler) Submit(w http.ResponseWriter, r *http.Request) {
	lessonID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation", "Invalid lesson id", nil)
		return
	}

	var req models.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation", "Invalid request body", nil)
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		respondWithError(w, http.StatusServiceUnavailable, "Unavailable", "Database unavailable", err)
		return
	}

	result, err := h.submissions.Submit(tx, models.DemoUserID, lessonID, req)
	if err != nil {
		tx.Rollback()
		respondWithSubmitError(w, err)
		return
	}

	if err := tx.Commit(); err != nil {
		respondWithError(w, http.StatusServiceUnavailable, "Unavailable", "Failed to commit submission", err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// respondWithSubmitError maps the engine's error taxonomy to status codes
func respondWithSubmitError(w http.ResponseWriter, err error) {
	var validationErr *service.ValidationError
	var invalidProblemErr *service.InvalidProblemError
	var duplicateErr *service.DuplicateAttemptError

	switch {
	case errors.As(err, &duplicateErr):
		respondWithError(w, http.StatusConflict, "DuplicateAttempt", duplicateErr.Error(), nil)
	case errors.As(err, &invalidProblemErr):
		respondWithError(w, http.StatusUnprocessableEntity, "InvalidProblem", invalidProblemErr.Error(), nil)
	case errors.As(err, &validationErr):
		respondWithError(w, http.StatusBadRequest, "Validation", validationErr.Error(), nil)
	default:
		respondWithError(w, http.StatusServiceUnavailable, "Unavailable", "Failed to process submission", err)
	}
}
