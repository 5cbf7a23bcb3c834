package models

// Problem type discriminators
const (
	ProblemTypeMCQ   = "mcq"
	ProblemTypeInput = "input"
)

// Lesson is a read-only unit of content
type Lesson struct {
	ID          int64
	Title       string
	Description string
	OrderIndex  int
}

// Problem belongs to a lesson. MCQ problems are graded against their
// options; input problems against CorrectAnswerText.
type Problem struct {
	ID                int64
	LessonID          int64
	Type              string
	Prompt            string
	CorrectAnswerText *string
}

// Option is a multiple-choice answer candidate
type Option struct {
	ID        int64
	ProblemID int64
	Text      string
	IsCorrect bool
}

// LessonSummary is the lesson list projection with per-user progress
type LessonSummary struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Progress      float64 `json:"progress"`
	TotalProblems int     `json:"total_problems"`
	Correct       int     `json:"correct"`
}

// OptionView deliberately omits the correctness flag
type OptionView struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// ProblemView is the client-facing problem shape. Canonical input
// answers are never serialized.
type ProblemView struct {
	ID      int64        `json:"id"`
	Type    string       `json:"type"`
	Prompt  string       `json:"prompt"`
	Options []OptionView `json:"options,omitempty"`
}

// LessonDetail is the single-lesson projection
type LessonDetail struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Progress    float64       `json:"progress"`
	Problems    []ProblemView `json:"problems"`
}
