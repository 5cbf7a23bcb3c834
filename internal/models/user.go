package models

import "time"

// DemoUserID is the single implicit user the API serves
const DemoUserID int64 = 1

// User is the learner account. XP and streak fields are mutated only by
// the submission engine; best_streak never drops below current_streak.
type User struct {
	ID                  int64
	Username            string
	TotalXP             int
	CurrentStreak       int
	BestStreak          int
	LastActivityUTCDate *time.Time
}

// Profile is the API projection of a user with global progress
type Profile struct {
	UserID   int64   `json:"user_id"`
	Username string  `json:"username"`
	TotalXP  int     `json:"total_xp"`
	Streak   Streak  `json:"streak"`
	Progress float64 `json:"progress"`
}

// Streak is the current/best pair returned by the API
type Streak struct {
	Current int `json:"current"`
	Best    int `json:"best"`
}
