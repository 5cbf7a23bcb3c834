package repository

import (
	"database/sql"

	"mathquest/internal/database"
	"mathquest/internal/models"
)

// ProgressRepository handles the per-problem progress ledger and the
// per-lesson progress rollup
type ProgressRepository struct {
	db database.DBTX
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db database.DBTX) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *ProgressRepository) WithTx(tx database.DBTX) *ProgressRepository {
	return &ProgressRepository{db: tx}
}

// Get retrieves the ledger entry for (user, problem), nil when absent
func (r *ProgressRepository) Get(userID, problemID int64) (*models.ProgressEntry, error) {
	query := `
		SELECT id, user_id, problem_id, is_correct
		FROM user_problem_progress
		WHERE user_id = ? AND problem_id = ?
	`

	entry := &models.ProgressEntry{}
	err := r.db.QueryRow(query, userID, problemID).Scan(&entry.ID, &entry.UserID, &entry.ProblemID, &entry.IsCorrect)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// MarkCorrect upserts the ledger entry for (user, problem) to correct.
// The entry is monotone: an existing correct entry is left untouched.
func (r *ProgressRepository) MarkCorrect(userID, problemID int64) error {
	entry, err := r.Get(userID, problemID)
	if err != nil {
		return err
	}

	if entry == nil {
		query := "INSERT INTO user_problem_progress (user_id, problem_id, is_correct) VALUES (?, ?, " +
			r.db.GetDialect().BoolValue(true) + ")"
		_, err := r.db.Exec(query, userID, problemID)
		return err
	}

	if entry.IsCorrect {
		return nil
	}

	query := "UPDATE user_problem_progress SET is_correct = " +
		r.db.GetDialect().BoolValue(true) + " WHERE id = ?"
	_, err = r.db.Exec(query, entry.ID)
	return err
}

// CountCorrectForLesson counts ledger entries marked correct among a
// lesson's problems
func (r *ProgressRepository) CountCorrectForLesson(userID, lessonID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM user_problem_progress upp
		JOIN problems p ON p.id = upp.problem_id
		WHERE upp.user_id = ? AND p.lesson_id = ? AND upp.is_correct = ` +
		r.db.GetDialect().BoolValue(true)

	var count int
	err := r.db.QueryRow(query, userID, lessonID).Scan(&count)
	return count, err
}

// CountCorrectTotal counts all ledger entries marked correct for a user
func (r *ProgressRepository) CountCorrectTotal(userID int64) (int, error) {
	query := "SELECT COUNT(*) FROM user_problem_progress WHERE user_id = ? AND is_correct = " +
		r.db.GetDialect().BoolValue(true)

	var count int
	err := r.db.QueryRow(query, userID).Scan(&count)
	return count, err
}

// UpsertLessonRollup writes the per-(user, lesson) progress summary row
func (r *ProgressRepository) UpsertLessonRollup(userID, lessonID int64, correctCount, totalProblems int) error {
	var id int64
	query := "SELECT id FROM user_progress WHERE user_id = ? AND lesson_id = ?"
	err := r.db.QueryRow(query, userID, lessonID).Scan(&id)

	if err == sql.ErrNoRows {
		query = `
			INSERT INTO user_progress (user_id, lesson_id, correct_count, total_problems)
			VALUES (?, ?, ?, ?)
		`
		_, err = r.db.Exec(query, userID, lessonID, correctCount, totalProblems)
		return err
	}
	if err != nil {
		return err
	}

	query = "UPDATE user_progress SET correct_count = ?, total_problems = ? WHERE id = ?"
	_, err = r.db.Exec(query, correctCount, totalProblems, id)
	return err
}
