package repository

import (
	"database/sql"

	"mathquest/internal/database"
	"mathquest/internal/models"
)

// LessonRepository handles lesson, problem and option database operations
type LessonRepository struct {
	db database.DBTX
}

// NewLessonRepository creates a new lesson repository
func NewLessonRepository(db database.DBTX) *LessonRepository {
	return &LessonRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *LessonRepository) WithTx(tx database.DBTX) *LessonRepository {
	return &LessonRepository{db: tx}
}

// List retrieves all lessons in display order
func (r *LessonRepository) List() ([]models.Lesson, error) {
	query := `
		SELECT id, title, description, order_index
		FROM lessons
		ORDER BY order_index ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lessons []models.Lesson
	for rows.Next() {
		var lesson models.Lesson
		if err := rows.Scan(&lesson.ID, &lesson.Title, &lesson.Description, &lesson.OrderIndex); err != nil {
			return nil, err
		}
		lessons = append(lessons, lesson)
	}

	return lessons, rows.Err()
}

// GetByID retrieves a lesson by ID, returning nil when not found
func (r *LessonRepository) GetByID(lessonID int64) (*models.Lesson, error) {
	query := "SELECT id, title, description, order_index FROM lessons WHERE id = ?"

	lesson := &models.Lesson{}
	err := r.db.QueryRow(query, lessonID).Scan(&lesson.ID, &lesson.Title, &lesson.Description, &lesson.OrderIndex)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return lesson, nil
}

// ProblemsByLesson retrieves all problems for a lesson ordered by ID
func (r *LessonRepository) ProblemsByLesson(lessonID int64) ([]models.Problem, error) {
	query := `
		SELECT id, lesson_id, type, prompt, correct_answer_text
		FROM problems
		WHERE lesson_id = ?
		ORDER BY id ASC
	`

	rows, err := r.db.Query(query, lessonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var problems []models.Problem
	for rows.Next() {
		var problem models.Problem
		var answer sql.NullString

		if err := rows.Scan(&problem.ID, &problem.LessonID, &problem.Type, &problem.Prompt, &answer); err != nil {
			return nil, err
		}
		if answer.Valid {
			problem.CorrectAnswerText = &answer.String
		}
		problems = append(problems, problem)
	}

	return problems, rows.Err()
}

// OptionsByProblem retrieves the options for a problem ordered by ID
func (r *LessonRepository) OptionsByProblem(problemID int64) ([]models.Option, error) {
	query := `
		SELECT id, problem_id, text, is_correct
		FROM problem_options
		WHERE problem_id = ?
		ORDER BY id ASC
	`

	rows, err := r.db.Query(query, problemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var options []models.Option
	for rows.Next() {
		var option models.Option
		if err := rows.Scan(&option.ID, &option.ProblemID, &option.Text, &option.IsCorrect); err != nil {
			return nil, err
		}
		options = append(options, option)
	}

	return options, rows.Err()
}

// CountProblems returns the number of problems in a lesson
func (r *LessonRepository) CountProblems(lessonID int64) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM problems WHERE lesson_id = ?", lessonID).Scan(&count)
	return count, err
}

// CountAllProblems returns the total number of problems across all lessons
func (r *LessonRepository) CountAllProblems() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM problems").Scan(&count)
	return count, err
}

// CountLessons returns the number of lessons
func (r *LessonRepository) CountLessons() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM lessons").Scan(&count)
	return count, err
}

// CreateLesson inserts a lesson and returns its ID
func (r *LessonRepository) CreateLesson(title, description string, orderIndex int) (int64, error) {
	query := "INSERT INTO lessons (title, description, order_index) VALUES (?, ?, ?)"
	return r.db.ExecReturningID(query, title, description, orderIndex)
}

// CreateProblem inserts a problem and returns its ID
func (r *LessonRepository) CreateProblem(lessonID int64, problemType, prompt string, correctAnswerText *string) (int64, error) {
	query := "INSERT INTO problems (lesson_id, type, prompt, correct_answer_text) VALUES (?, ?, ?, ?)"

	var answer interface{}
	if correctAnswerText != nil {
		answer = *correctAnswerText
	}

	return r.db.ExecReturningID(query, lessonID, problemType, prompt, answer)
}

// CreateOption inserts an option for a problem
func (r *LessonRepository) CreateOption(problemID int64, text string, isCorrect bool) error {
	query := "INSERT INTO problem_options (problem_id, text, is_correct) VALUES (?, ?, ?)"
	_, err := r.db.Exec(query, problemID, text, isCorrect)
	return err
}
