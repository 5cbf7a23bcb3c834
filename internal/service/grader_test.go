package service

import (
	"errors"
	"testing"

	"mathquest/internal/models"
)

func strPtr(s string) *string { return &s }

func intPtr(n int64) *int64 { return &n }

func TestGradeMultipleChoice(t *testing.T) {
	problem := models.Problem{ID: 1, LessonID: 1, Type: models.ProblemTypeMCQ, Prompt: "What is 2 + 3?"}
	options := []models.Option{
		{ID: 10, ProblemID: 1, Text: "4", IsCorrect: false},
		{ID: 11, ProblemID: 1, Text: "5", IsCorrect: true},
		{ID: 12, ProblemID: 1, Text: "6", IsCorrect: false},
	}

	tests := []struct {
		name        string
		answer      models.AnswerItem
		wantCorrect bool
		wantErr     bool
	}{
		{
			name:        "correct option",
			answer:      models.AnswerItem{ProblemID: intPtr(1), OptionID: intPtr(11)},
			wantCorrect: true,
		},
		{
			name:        "incorrect option",
			answer:      models.AnswerItem{ProblemID: intPtr(1), OptionID: intPtr(10)},
			wantCorrect: false,
		},
		{
			name:    "missing option id",
			answer:  models.AnswerItem{ProblemID: intPtr(1)},
			wantErr: true,
		},
		{
			name:    "option from another problem",
			answer:  models.AnswerItem{ProblemID: intPtr(1), OptionID: intPtr(99)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			correct, err := Grade(problem, options, tt.answer)
			if tt.wantErr {
				var validationErr *ValidationError
				if !errors.As(err, &validationErr) {
					t.Fatalf("Grade() error = %v, want ValidationError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Grade() unexpected error: %v", err)
			}
			if correct != tt.wantCorrect {
				t.Errorf("Grade() = %v, want %v", correct, tt.wantCorrect)
			}
		})
	}
}

func TestGradeInput(t *testing.T) {
	problem := models.Problem{
		ID:                2,
		LessonID:          1,
		Type:              models.ProblemTypeInput,
		Prompt:            "What is 10 - 4?",
		CorrectAnswerText: strPtr("6"),
	}

	tests := []struct {
		name        string
		answer      models.AnswerItem
		wantCorrect bool
		wantErr     bool
	}{
		{
			name:        "exact match",
			answer:      models.AnswerItem{ProblemID: intPtr(2), Value: strPtr("6")},
			wantCorrect: true,
		},
		{
			name:        "whitespace and case insensitive",
			answer:      models.AnswerItem{ProblemID: intPtr(2), Value: strPtr("  6  ")},
			wantCorrect: true,
		},
		{
			name:        "wrong value",
			answer:      models.AnswerItem{ProblemID: intPtr(2), Value: strPtr("7")},
			wantCorrect: false,
		},
		{
			name:    "missing value",
			answer:  models.AnswerItem{ProblemID: intPtr(2)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			correct, err := Grade(problem, nil, tt.answer)
			if tt.wantErr {
				var validationErr *ValidationError
				if !errors.As(err, &validationErr) {
					t.Fatalf("Grade() error = %v, want ValidationError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Grade() unexpected error: %v", err)
			}
			if correct != tt.wantCorrect {
				t.Errorf("Grade() = %v, want %v", correct, tt.wantCorrect)
			}
		})
	}
}

func TestGradeInputCaseInsensitive(t *testing.T) {
	problem := models.Problem{
		ID:                3,
		Type:              models.ProblemTypeInput,
		CorrectAnswerText: strPtr("Twelve"),
	}

	correct, err := Grade(problem, nil, models.AnswerItem{ProblemID: intPtr(3), Value: strPtr("twelve")})
	if err != nil {
		t.Fatalf("Grade() unexpected error: %v", err)
	}
	if !correct {
		t.Error("Grade() should be case-insensitive for input answers")
	}
}

func TestGradeUnknownProblemType(t *testing.T) {
	problem := models.Problem{ID: 4, Type: "essay"}

	_, err := Grade(problem, nil, models.AnswerItem{ProblemID: intPtr(4), Value: strPtr("anything")})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("Grade() error = %v, want ValidationError for unknown type", err)
	}
}
