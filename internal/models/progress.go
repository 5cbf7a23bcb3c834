package models

// ProgressEntry records whether a user has ever answered a problem
// correctly. It is a high-water mark: once true it never reverts.
type ProgressEntry struct {
	ID        int64
	UserID    int64
	ProblemID int64
	IsCorrect bool
}

// LessonRollup is the per-(user, lesson) progress summary row
type LessonRollup struct {
	ID            int64
	UserID        int64
	LessonID      int64
	CorrectCount  int
	TotalProblems int
}
