package repository

import (
	"database/sql"

	"mathquest/internal/database"
	"mathquest/internal/models"
)

// SubmissionRepository handles the append-only submission audit records
type SubmissionRepository struct {
	db database.DBTX
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(db database.DBTX) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *SubmissionRepository) WithTx(tx database.DBTX) *SubmissionRepository {
	return &SubmissionRepository{db: tx}
}

// ExistsByAttemptToken reports whether a submission with this attempt
// token has already been recorded
func (r *SubmissionRepository) ExistsByAttemptToken(attemptToken string) (bool, error) {
	var id int64
	query := "SELECT id FROM submissions WHERE attempt_token = ?"
	err := r.db.QueryRow(query, attemptToken).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetByAttemptToken retrieves a submission record, nil when absent
func (r *SubmissionRepository) GetByAttemptToken(attemptToken string) (*models.SubmissionRecord, error) {
	query := `
		SELECT id, attempt_token, user_id, lesson_id, correct_count, earned_xp,
		       total_xp_after, current_streak_after, best_streak_after, lesson_progress_after
		FROM submissions
		WHERE attempt_token = ?
	`

	record := &models.SubmissionRecord{}
	err := r.db.QueryRow(query, attemptToken).Scan(
		&record.ID,
		&record.AttemptToken,
		&record.UserID,
		&record.LessonID,
		&record.CorrectCount,
		&record.EarnedXP,
		&record.TotalXPAfter,
		&record.CurrentStreakAfter,
		&record.BestStreakAfter,
		&record.LessonProgressAfter,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return record, nil
}

// Insert writes a new submission record. The unique constraint on
// attempt_token is the authoritative duplicate guard; callers must
// check the returned error with Dialect.IsUniqueViolation.
func (r *SubmissionRepository) Insert(record *models.SubmissionRecord) error {
	query := `
		INSERT INTO submissions (
			attempt_token, user_id, lesson_id, correct_count, earned_xp,
			total_xp_after, current_streak_after, best_streak_after, lesson_progress_after
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	id, err := r.db.ExecReturningID(query,
		record.AttemptToken,
		record.UserID,
		record.LessonID,
		record.CorrectCount,
		record.EarnedXP,
		record.TotalXPAfter,
		record.CurrentStreakAfter,
		record.BestStreakAfter,
		record.LessonProgressAfter,
	)
	if err != nil {
		return err
	}

	record.ID = id
	return nil
}

// CountByUser returns the number of recorded submissions for a user
func (r *SubmissionRepository) CountByUser(userID int64) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM submissions WHERE user_id = ?", userID).Scan(&count)
	return count, err
}
