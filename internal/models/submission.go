package models

// SubmitRequest is the decoded submission payload. Pointer fields
// distinguish "absent" from zero values so shape validation can reject
// malformed items before any grading happens.
type SubmitRequest struct {
	AttemptToken string       `json:"attempt_token"`
	Answers      []AnswerItem `json:"answers"`
}

// AnswerItem is one submitted answer. OptionID is set for mcq problems,
// Value for input problems.
type AnswerItem struct {
	ProblemID *int64  `json:"problem_id"`
	OptionID  *int64  `json:"option_id,omitempty"`
	Value     *string `json:"value,omitempty"`
}

// SubmissionRecord is the immutable audit row written once per accepted
// attempt token. The *_after fields snapshot user state immediately
// after the submission was applied.
type SubmissionRecord struct {
	ID                  int64
	AttemptToken        string
	UserID              int64
	LessonID            int64
	CorrectCount        int
	EarnedXP            int
	TotalXPAfter        int
	CurrentStreakAfter  int
	BestStreakAfter     int
	LessonProgressAfter float64
}

// SubmissionResult is returned to the client after a successful submission
type SubmissionResult struct {
	CorrectCount   int     `json:"correct_count"`
	EarnedXP       int     `json:"earned_xp"`
	NewTotalXP     int     `json:"new_total_xp"`
	Streak         Streak  `json:"streak"`
	LessonProgress float64 `json:"lesson_progress"`
}
