package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"mathquest/internal/config"
	"mathquest/internal/database"
	"mathquest/internal/models"
	"mathquest/internal/repository"
	"mathquest/internal/service"
)

// setupAPI builds the full routed handler against a seeded temp database,
// mirroring the wiring in cmd/server
func setupAPI(t *testing.T) http.Handler {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := filepath.Join(t.TempDir(), "api_test.db")

	db, err := database.Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	if err := service.NewSeedService(db).EnsureDemoData(); err != nil {
		t.Fatalf("Failed to seed demo data: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)

	lessonService := service.NewLessonService(userRepo, lessonRepo, progressRepo)
	submissionService := service.NewSubmissionService(userRepo, lessonRepo, progressRepo, submissionRepo, config.DefaultXPPerCorrect)

	lessonHandler := NewLessonHandler(db, lessonService, submissionService)
	profileHandler := NewProfileHandler(lessonService)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", Health)
	mux.HandleFunc("GET /api/lessons", lessonHandler.ListLessons)
	mux.HandleFunc("GET /api/lessons/{id}", lessonHandler.GetLesson)
	mux.HandleFunc("POST /api/lessons/{id}/submit", lessonHandler.Submit)
	mux.HandleFunc("GET /api/profile", profileHandler.GetProfile)

	return CORS(mux)
}

func getJSON(t *testing.T, handler http.Handler, path string, wantStatus int, out interface{}) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != wantStatus {
		t.Fatalf("GET %s status = %d, want %d (body: %s)", path, w.Code, wantStatus, w.Body.String())
	}
	if out != nil {
		if err := json.NewDecoder(w.Body).Decode(out); err != nil {
			t.Fatalf("GET %s: failed to decode body: %v", path, err)
		}
	}
}

func postSubmit(t *testing.T, handler http.Handler, lessonID string, req models.SubmitRequest) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}

	httpReq := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/lessons/%s/submit", lessonID), bytes.NewReader(payload))
	httpReq.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httpReq)
	return w
}

// correctAnswersForLesson builds a fully correct answer set for the
// seeded arithmetic lesson by matching known option texts
func correctAnswersForLesson(t *testing.T, detail models.LessonDetail) []models.AnswerItem {
	t.Helper()

	correctTexts := map[string]string{
		"What is 2 + 3?":  "5",
		"What is 10 - 4?": "6",
		"What is 7 + 1?":  "8",
	}

	answers := make([]models.AnswerItem, 0, len(detail.Problems))
	for _, problem := range detail.Problems {
		problem := problem
		want, ok := correctTexts[problem.Prompt]
		if !ok {
			t.Fatalf("Unexpected problem prompt %q", problem.Prompt)
		}

		item := models.AnswerItem{ProblemID: &problem.ID}
		if problem.Type == models.ProblemTypeMCQ {
			for _, option := range problem.Options {
				option := option
				if option.Text == want {
					item.OptionID = &option.ID
				}
			}
			if item.OptionID == nil {
				t.Fatalf("Correct option %q not found for %q", want, problem.Prompt)
			}
		} else {
			item.Value = &want
		}
		answers = append(answers, item)
	}
	return answers
}

func TestAPIHealth(t *testing.T) {
	handler := setupAPI(t)

	var body map[string]string
	getJSON(t, handler, "/api/health", http.StatusOK, &body)
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %s", body["status"])
	}
}

func TestAPIListLessons(t *testing.T) {
	handler := setupAPI(t)

	var summaries []models.LessonSummary
	getJSON(t, handler, "/api/lessons", http.StatusOK, &summaries)

	if len(summaries) != 3 {
		t.Fatalf("Expected 3 seeded lessons, got %d", len(summaries))
	}
	if summaries[0].Title != "Basic Arithmetic" {
		t.Errorf("Expected first lesson Basic Arithmetic, got %s", summaries[0].Title)
	}
	for _, summary := range summaries {
		if summary.Progress != 0.0 {
			t.Errorf("Lesson %d progress = %v before any submission, want 0", summary.ID, summary.Progress)
		}
		if summary.TotalProblems != 3 {
			t.Errorf("Lesson %d total_problems = %d, want 3", summary.ID, summary.TotalProblems)
		}
	}
}

func TestAPIGetLesson(t *testing.T) {
	handler := setupAPI(t)

	var detail models.LessonDetail
	getJSON(t, handler, "/api/lessons/1", http.StatusOK, &detail)

	if detail.Title != "Basic Arithmetic" {
		t.Errorf("Expected Basic Arithmetic, got %s", detail.Title)
	}
	if len(detail.Problems) != 3 {
		t.Fatalf("Expected 3 problems, got %d", len(detail.Problems))
	}
	for _, problem := range detail.Problems {
		switch problem.Type {
		case models.ProblemTypeMCQ:
			if len(problem.Options) != 3 {
				t.Errorf("Problem %d has %d options, want 3", problem.ID, len(problem.Options))
			}
		case models.ProblemTypeInput:
			if len(problem.Options) != 0 {
				t.Errorf("Input problem %d should have no options", problem.ID)
			}
		default:
			t.Errorf("Unexpected problem type %q", problem.Type)
		}
	}
}

func TestAPIGetLessonAnswersNotLeaked(t *testing.T) {
	handler := setupAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/lessons/1", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	raw := w.Body.String()
	for _, leaked := range []string{"is_correct", "correct_answer"} {
		if bytes.Contains([]byte(raw), []byte(leaked)) {
			t.Errorf("Lesson detail body leaks %q: %s", leaked, raw)
		}
	}
}

func TestAPIGetLessonNotFound(t *testing.T) {
	handler := setupAPI(t)

	var body ErrorResponse
	getJSON(t, handler, "/api/lessons/999", http.StatusNotFound, &body)
	if body.Error != "NotFound" {
		t.Errorf("Expected error NotFound, got %s", body.Error)
	}
}

func TestAPIGetLessonBadID(t *testing.T) {
	handler := setupAPI(t)

	var body ErrorResponse
	getJSON(t, handler, "/api/lessons/abc", http.StatusBadRequest, &body)
	if body.Error != "Validation" {
		t.Errorf("Expected error Validation, got %s", body.Error)
	}
}

func TestAPISubmitSuccess(t *testing.T) {
	handler := setupAPI(t)

	var detail models.LessonDetail
	getJSON(t, handler, "/api/lessons/1", http.StatusOK, &detail)

	w := postSubmit(t, handler, "1", models.SubmitRequest{
		AttemptToken: uuid.NewString(),
		Answers:      correctAnswersForLesson(t, detail),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Submit status = %d, want 200 (body: %s)", w.Code, w.Body.String())
	}

	var result models.SubmissionResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode result: %v", err)
	}
	if result.CorrectCount != 3 {
		t.Errorf("correct_count = %d, want 3", result.CorrectCount)
	}
	if result.EarnedXP != 30 {
		t.Errorf("earned_xp = %d, want 30", result.EarnedXP)
	}
	if result.NewTotalXP != 30 {
		t.Errorf("new_total_xp = %d, want 30", result.NewTotalXP)
	}
	if result.Streak.Current != 1 || result.Streak.Best != 1 {
		t.Errorf("streak = %+v, want current 1 best 1", result.Streak)
	}
	if result.LessonProgress != 1.0 {
		t.Errorf("lesson_progress = %v, want 1.0", result.LessonProgress)
	}

	// Profile reflects the submission
	var profile models.Profile
	getJSON(t, handler, "/api/profile", http.StatusOK, &profile)
	if profile.TotalXP != 30 {
		t.Errorf("Profile total_xp = %d, want 30", profile.TotalXP)
	}
	if profile.Progress != 0.3333 {
		t.Errorf("Profile progress = %v, want 0.3333", profile.Progress)
	}

	// Lesson list shows full progress for the submitted lesson
	var summaries []models.LessonSummary
	getJSON(t, handler, "/api/lessons", http.StatusOK, &summaries)
	if summaries[0].Progress != 1.0 {
		t.Errorf("Lesson 1 progress = %v after full submission, want 1.0", summaries[0].Progress)
	}
}

func TestAPISubmitDuplicateToken(t *testing.T) {
	handler := setupAPI(t)

	var detail models.LessonDetail
	getJSON(t, handler, "/api/lessons/1", http.StatusOK, &detail)

	req := models.SubmitRequest{
		AttemptToken: uuid.NewString(),
		Answers:      correctAnswersForLesson(t, detail),
	}

	if w := postSubmit(t, handler, "1", req); w.Code != http.StatusOK {
		t.Fatalf("First submit status = %d, want 200 (body: %s)", w.Code, w.Body.String())
	}

	w := postSubmit(t, handler, "1", req)
	if w.Code != http.StatusConflict {
		t.Fatalf("Replayed submit status = %d, want 409 (body: %s)", w.Code, w.Body.String())
	}

	var body ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode error body: %v", err)
	}
	if body.Error != "DuplicateAttempt" {
		t.Errorf("Expected error DuplicateAttempt, got %s", body.Error)
	}

	// The replay must not have earned more XP
	var profile models.Profile
	getJSON(t, handler, "/api/profile", http.StatusOK, &profile)
	if profile.TotalXP != 30 {
		t.Errorf("Profile total_xp = %d after replay, want 30", profile.TotalXP)
	}
}

func TestAPISubmitUnknownProblem(t *testing.T) {
	handler := setupAPI(t)

	badProblem := int64(999)
	value := "42"
	w := postSubmit(t, handler, "1", models.SubmitRequest{
		AttemptToken: uuid.NewString(),
		Answers:      []models.AnswerItem{{ProblemID: &badProblem, Value: &value}},
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Submit status = %d, want 422 (body: %s)", w.Code, w.Body.String())
	}

	var body ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode error body: %v", err)
	}
	if body.Error != "InvalidProblem" {
		t.Errorf("Expected error InvalidProblem, got %s", body.Error)
	}
}

func TestAPISubmitShapeErrors(t *testing.T) {
	handler := setupAPI(t)

	problemID := int64(1)
	value := "5"

	tests := []struct {
		name string
		req  models.SubmitRequest
	}{
		{
			name: "missing attempt token",
			req:  models.SubmitRequest{Answers: []models.AnswerItem{{ProblemID: &problemID, Value: &value}}},
		},
		{
			name: "empty answers",
			req:  models.SubmitRequest{AttemptToken: uuid.NewString(), Answers: []models.AnswerItem{}},
		},
		{
			name: "answer without problem id",
			req:  models.SubmitRequest{AttemptToken: uuid.NewString(), Answers: []models.AnswerItem{{Value: &value}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postSubmit(t, handler, "1", tt.req)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("Submit status = %d, want 400 (body: %s)", w.Code, w.Body.String())
			}

			var body ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("Failed to decode error body: %v", err)
			}
			if body.Error != "Validation" {
				t.Errorf("Expected error Validation, got %s", body.Error)
			}
		})
	}
}

func TestAPISubmitMalformedBody(t *testing.T) {
	handler := setupAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/lessons/1/submit", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Submit status = %d, want 400", w.Code)
	}
}

func TestAPISubmitUnknownLesson(t *testing.T) {
	handler := setupAPI(t)

	problemID := int64(1)
	value := "5"
	w := postSubmit(t, handler, "999", models.SubmitRequest{
		AttemptToken: uuid.NewString(),
		Answers:      []models.AnswerItem{{ProblemID: &problemID, Value: &value}},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Submit status = %d, want 400 (body: %s)", w.Code, w.Body.String())
	}
}

func TestAPIProfile(t *testing.T) {
	handler := setupAPI(t)

	var profile models.Profile
	getJSON(t, handler, "/api/profile", http.StatusOK, &profile)

	if profile.UserID != models.DemoUserID {
		t.Errorf("Profile user_id = %d, want %d", profile.UserID, models.DemoUserID)
	}
	if profile.Username != "demo" {
		t.Errorf("Profile username = %s, want demo", profile.Username)
	}
	if profile.TotalXP != 0 {
		t.Errorf("Profile total_xp = %d before any submission, want 0", profile.TotalXP)
	}
	if profile.Streak.Current != 0 || profile.Streak.Best != 0 {
		t.Errorf("Profile streak = %+v before any submission, want zeros", profile.Streak)
	}
}
