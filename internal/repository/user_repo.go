package repository

import (
	"database/sql"
	"time"

	"mathquest/internal/database"
	"mathquest/internal/models"
)

const activityDateLayout = "2006-01-02"

// UserRepository handles user database operations
type UserRepository struct {
	db database.DBTX
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *UserRepository) WithTx(tx database.DBTX) *UserRepository {
	return &UserRepository{db: tx}
}

const userColumns = "id, username, total_xp, current_streak, best_streak, last_activity_utc_date"

// GetByID retrieves a user by ID, returning nil when not found
func (r *UserRepository) GetByID(userID int64) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE id = ?"
	return r.scanUser(r.db.QueryRow(query, userID))
}

// GetByIDForUpdate retrieves a user by ID, taking a row lock where the
// dialect supports one. The submission engine uses this to serialize
// concurrent XP/streak updates for the same user.
func (r *UserRepository) GetByIDForUpdate(userID int64) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE id = ?" + r.db.GetDialect().SelectForUpdate()
	return r.scanUser(r.db.QueryRow(query, userID))
}

func (r *UserRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var lastActivity sql.NullString

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.TotalXP,
		&user.CurrentStreak,
		&user.BestStreak,
		&lastActivity,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if lastActivity.Valid && lastActivity.String != "" {
		date, err := time.ParseInLocation(activityDateLayout, lastActivity.String, time.UTC)
		if err != nil {
			return nil, err
		}
		user.LastActivityUTCDate = &date
	}

	return user, nil
}

// UpdateProgressStats writes back the XP and streak fields
func (r *UserRepository) UpdateProgressStats(user *models.User) error {
	query := `
		UPDATE users
		SET total_xp = ?, current_streak = ?, best_streak = ?, last_activity_utc_date = ?
		WHERE id = ?
	`

	var lastActivity interface{}
	if user.LastActivityUTCDate != nil {
		lastActivity = user.LastActivityUTCDate.Format(activityDateLayout)
	}

	_, err := r.db.Exec(query, user.TotalXP, user.CurrentStreak, user.BestStreak, lastActivity, user.ID)
	return err
}

// CreateWithID inserts a user with an explicit ID. Used by seeding to
// provision the fixed demo user.
func (r *UserRepository) CreateWithID(userID int64, username string) error {
	query := `
		INSERT INTO users (id, username, total_xp, current_streak, best_streak)
		VALUES (?, ?, 0, 0, 0)
	`
	_, err := r.db.Exec(query, userID, username)
	return err
}
