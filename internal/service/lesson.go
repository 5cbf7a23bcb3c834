package service

import (
	"fmt"

	"mathquest/internal/models"
	"mathquest/internal/repository"
)

// LessonService builds the read-side projections: lesson lists and
// details with per-user progress, and the profile summary
type LessonService struct {
	users    *repository.UserRepository
	lessons  *repository.LessonRepository
	progress *repository.ProgressRepository
}

// NewLessonService creates a new lesson service
func NewLessonService(
	users *repository.UserRepository,
	lessons *repository.LessonRepository,
	progress *repository.ProgressRepository,
) *LessonService {
	return &LessonService{
		users:    users,
		lessons:  lessons,
		progress: progress,
	}
}

// ListLessons returns all lessons with the user's completion progress
func (s *LessonService) ListLessons(userID int64) ([]models.LessonSummary, error) {
	lessons, err := s.lessons.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}

	summaries := make([]models.LessonSummary, 0, len(lessons))
	for _, lesson := range lessons {
		total, err := s.lessons.CountProblems(lesson.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count problems: %w", err)
		}

		correct, err := s.progress.CountCorrectForLesson(userID, lesson.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count progress: %w", err)
		}

		summaries = append(summaries, models.LessonSummary{
			ID:            lesson.ID,
			Title:         lesson.Title,
			Description:   lesson.Description,
			Progress:      round4(CompletionRatio(correct, total)),
			TotalProblems: total,
			Correct:       correct,
		})
	}

	return summaries, nil
}

// GetLesson returns a lesson with its problems, or nil when the lesson
// does not exist. Option correctness flags and canonical input answers
// are never included.
func (s *LessonService) GetLesson(userID, lessonID int64) (*models.LessonDetail, error) {
	lesson, err := s.lessons.GetByID(lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lesson: %w", err)
	}
	if lesson == nil {
		return nil, nil
	}

	problems, err := s.lessons.ProblemsByLesson(lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to load problems: %w", err)
	}

	views := make([]models.ProblemView, 0, len(problems))
	for _, problem := range problems {
		view := models.ProblemView{
			ID:     problem.ID,
			Type:   problem.Type,
			Prompt: problem.Prompt,
		}

		if problem.Type == models.ProblemTypeMCQ {
			options, err := s.lessons.OptionsByProblem(problem.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to load options: %w", err)
			}
			for _, option := range options {
				view.Options = append(view.Options, models.OptionView{ID: option.ID, Text: option.Text})
			}
		}

		views = append(views, view)
	}

	correct, err := s.progress.CountCorrectForLesson(userID, lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to count progress: %w", err)
	}

	return &models.LessonDetail{
		ID:          lesson.ID,
		Title:       lesson.Title,
		Description: lesson.Description,
		Progress:    round4(CompletionRatio(correct, len(problems))),
		Problems:    views,
	}, nil
}

// GetProfile returns the user's profile with global completion progress,
// or nil when the user does not exist
func (s *LessonService) GetProfile(userID int64) (*models.Profile, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, nil
	}

	totalProblems, err := s.lessons.CountAllProblems()
	if err != nil {
		return nil, fmt.Errorf("failed to count problems: %w", err)
	}

	correct, err := s.progress.CountCorrectTotal(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count progress: %w", err)
	}

	return &models.Profile{
		UserID:   user.ID,
		Username: user.Username,
		TotalXP:  user.TotalXP,
		Streak: models.Streak{
			Current: user.CurrentStreak,
			Best:    user.BestStreak,
		},
		Progress: round4(CompletionRatio(correct, totalProblems)),
	}, nil
}
