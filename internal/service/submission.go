package service

import (
	"fmt"
	"math"
	"time"

	"mathquest/internal/database"
	"mathquest/internal/models"
	"mathquest/internal/repository"
)

// SubmissionService is the submission engine: it validates a payload,
// enforces attempt-token idempotency, grades each answer, updates the
// progress ledger, XP and streak, and writes the audit record. It never
// commits or rolls back — the caller owns the transaction and must roll
// back on any returned error.
type SubmissionService struct {
	users        *repository.UserRepository
	lessons      *repository.LessonRepository
	progress     *repository.ProgressRepository
	submissions  *repository.SubmissionRepository
	xpPerCorrect int
	now          func() time.Time
}

// NewSubmissionService creates a new submission service. xpPerCorrect
// must be a positive integer (config guarantees this).
func NewSubmissionService(
	users *repository.UserRepository,
	lessons *repository.LessonRepository,
	progress *repository.ProgressRepository,
	submissions *repository.SubmissionRepository,
	xpPerCorrect int,
) *SubmissionService {
	return &SubmissionService{
		users:        users,
		lessons:      lessons,
		progress:     progress,
		submissions:  submissions,
		xpPerCorrect: xpPerCorrect,
		now:          time.Now,
	}
}

// CompletionRatio divides correct by total, guarding the empty set
func CompletionRatio(correct, total int) float64 {
	if total == 0 {
		return 0.0
	}
	return float64(correct) / float64(total)
}

// round4 rounds a ratio to 4 decimal places for responses and snapshots
func round4(ratio float64) float64 {
	return math.Round(ratio*10000) / 10000
}

// Submit processes one graded submission inside the caller's transaction.
// Errors are *ValidationError, *InvalidProblemError, *DuplicateAttemptError,
// or an infrastructure error; in every error case no state must be kept,
// so the caller rolls the transaction back.
func (s *SubmissionService) Submit(tx database.DBTX, userID, lessonID int64, req models.SubmitRequest) (*models.SubmissionResult, error) {
	users := s.users.WithTx(tx)
	lessons := s.lessons.WithTx(tx)
	progress := s.progress.WithTx(tx)
	submissions := s.submissions.WithTx(tx)

	// Shape validation
	if req.AttemptToken == "" {
		return nil, validationErrorf("attempt_token is required")
	}
	if len(req.Answers) == 0 {
		return nil, validationErrorf("answers must be non-empty")
	}

	// Idempotency fast path. The unique constraint on attempt_token
	// remains the authoritative guard at insert time below.
	exists, err := submissions.ExistsByAttemptToken(req.AttemptToken)
	if err != nil {
		return nil, fmt.Errorf("failed to check attempt token: %w", err)
	}
	if exists {
		return nil, &DuplicateAttemptError{AttemptToken: req.AttemptToken}
	}

	// Referential validation
	lesson, err := lessons.GetByID(lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lesson: %w", err)
	}
	if lesson == nil {
		return nil, validationErrorf("lesson not found")
	}

	// Locking the user row serializes concurrent submissions for the
	// same user, so the XP/streak read-modify-write cannot lose updates
	user, err := users.GetByIDForUpdate(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, validationErrorf("user not found")
	}

	problems, err := lessons.ProblemsByLesson(lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to load problems: %w", err)
	}
	if len(problems) == 0 {
		return nil, validationErrorf("lesson has no problems")
	}

	problemByID := make(map[int64]models.Problem, len(problems))
	for _, problem := range problems {
		problemByID[problem.ID] = problem
	}

	// Grade answers in submitted order. The first invalid answer aborts
	// the whole submission; no partial credit survives the rollback.
	correctCount := 0
	for _, answer := range req.Answers {
		if answer.ProblemID == nil {
			return nil, validationErrorf("problem_id must be an integer")
		}

		problem, ok := problemByID[*answer.ProblemID]
		if !ok {
			return nil, &InvalidProblemError{ProblemID: *answer.ProblemID}
		}

		var options []models.Option
		if problem.Type == models.ProblemTypeMCQ {
			options, err = lessons.OptionsByProblem(problem.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to load options: %w", err)
			}
		}

		isCorrect, err := Grade(problem, options, answer)
		if err != nil {
			return nil, err
		}

		if isCorrect {
			correctCount++
			if err := progress.MarkCorrect(userID, problem.ID); err != nil {
				return nil, fmt.Errorf("failed to record progress: %w", err)
			}
		}
	}

	// XP
	earnedXP := correctCount * s.xpPerCorrect
	user.TotalXP += earnedXP

	// Streak. "Today" is resolved once so one submission cannot span a
	// day boundary.
	today := UTCDate(s.now())
	newStreak, advanced, _ := NextStreak(user.LastActivityUTCDate, user.CurrentStreak, today)
	if advanced {
		user.CurrentStreak = newStreak
		if user.CurrentStreak > user.BestStreak {
			user.BestStreak = user.CurrentStreak
		}
		user.LastActivityUTCDate = &today
	}

	if err := users.UpdateProgressStats(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	// Lesson progress over all problems in the lesson, not just the
	// ones answered in this submission
	correctInLesson, err := progress.CountCorrectForLesson(userID, lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to count lesson progress: %w", err)
	}
	lessonProgress := CompletionRatio(correctInLesson, len(problems))

	if err := progress.UpsertLessonRollup(userID, lessonID, correctInLesson, len(problems)); err != nil {
		return nil, fmt.Errorf("failed to update lesson rollup: %w", err)
	}

	// Persist the audit record. A unique violation here means another
	// request with the same token won the race.
	record := &models.SubmissionRecord{
		AttemptToken:        req.AttemptToken,
		UserID:              userID,
		LessonID:            lessonID,
		CorrectCount:        correctCount,
		EarnedXP:            earnedXP,
		TotalXPAfter:        user.TotalXP,
		CurrentStreakAfter:  user.CurrentStreak,
		BestStreakAfter:     user.BestStreak,
		LessonProgressAfter: round4(lessonProgress),
	}
	if err := submissions.Insert(record); err != nil {
		if tx.GetDialect().IsUniqueViolation(err) {
			return nil, &DuplicateAttemptError{AttemptToken: req.AttemptToken}
		}
		return nil, fmt.Errorf("failed to record submission: %w", err)
	}

	return &models.SubmissionResult{
		CorrectCount: correctCount,
		EarnedXP:     earnedXP,
		NewTotalXP:   user.TotalXP,
		Streak: models.Streak{
			Current: user.CurrentStreak,
			Best:    user.BestStreak,
		},
		LessonProgress: round4(lessonProgress),
	}, nil
}
