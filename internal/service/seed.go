package service

import (
	"fmt"
	"log"

	"mathquest/internal/database"
	"mathquest/internal/models"
	"mathquest/internal/repository"
)

// SeedService provisions the demo user and the fixture lessons
type SeedService struct {
	db *database.DB
}

// NewSeedService creates a new seed service
func NewSeedService(db *database.DB) *SeedService {
	return &SeedService{db: db}
}

type seedOption struct {
	text      string
	isCorrect bool
}

type seedProblem struct {
	problemType string
	prompt      string
	answer      string
	options     []seedOption
}

type seedLesson struct {
	title       string
	description string
	problems    []seedProblem
}

var demoLessons = []seedLesson{
	{
		title:       "Basic Arithmetic",
		description: "Addition and subtraction warm-up",
		problems: []seedProblem{
			{problemType: models.ProblemTypeMCQ, prompt: "What is 2 + 3?", options: []seedOption{
				{text: "4"}, {text: "5", isCorrect: true}, {text: "6"},
			}},
			{problemType: models.ProblemTypeInput, prompt: "What is 10 - 4?", answer: "6"},
			{problemType: models.ProblemTypeMCQ, prompt: "What is 7 + 1?", options: []seedOption{
				{text: "9"}, {text: "8", isCorrect: true}, {text: "7"},
			}},
		},
	},
	{
		title:       "Multiplication Mastery",
		description: "Times tables practice",
		problems: []seedProblem{
			{problemType: models.ProblemTypeInput, prompt: "What is 3 x 4?", answer: "12"},
			{problemType: models.ProblemTypeMCQ, prompt: "What is 5 x 5?", options: []seedOption{
				{text: "10"}, {text: "20"}, {text: "25", isCorrect: true},
			}},
			{problemType: models.ProblemTypeInput, prompt: "What is 6 x 2?", answer: "12"},
		},
	},
	{
		title:       "Division Basics",
		description: "Simple division problems",
		problems: []seedProblem{
			{problemType: models.ProblemTypeMCQ, prompt: "What is 8 / 2?", options: []seedOption{
				{text: "2"}, {text: "4", isCorrect: true}, {text: "6"},
			}},
			{problemType: models.ProblemTypeInput, prompt: "What is 9 / 3?", answer: "3"},
			{problemType: models.ProblemTypeMCQ, prompt: "What is 12 / 4?", options: []seedOption{
				{text: "2"}, {text: "3", isCorrect: true}, {text: "4"},
			}},
		},
	},
}

// EnsureDemoData provisions the demo user and, when no lessons exist
// yet, the fixture lessons. Safe to run repeatedly.
func (s *SeedService) EnsureDemoData() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	users := repository.NewUserRepository(tx)
	lessons := repository.NewLessonRepository(tx)

	user, err := users.GetByID(models.DemoUserID)
	if err != nil {
		return fmt.Errorf("failed to look up demo user: %w", err)
	}
	if user == nil {
		if err := users.CreateWithID(models.DemoUserID, "demo"); err != nil {
			return fmt.Errorf("failed to create demo user: %w", err)
		}
		log.Println("Seeded demo user")
	}

	lessonCount, err := lessons.CountLessons()
	if err != nil {
		return fmt.Errorf("failed to count lessons: %w", err)
	}

	if lessonCount == 0 {
		for orderIndex, lessonSeed := range demoLessons {
			lessonID, err := lessons.CreateLesson(lessonSeed.title, lessonSeed.description, orderIndex+1)
			if err != nil {
				return fmt.Errorf("failed to create lesson %q: %w", lessonSeed.title, err)
			}

			for _, problemSeed := range lessonSeed.problems {
				var answer *string
				if problemSeed.problemType == models.ProblemTypeInput {
					answer = &problemSeed.answer
				}

				problemID, err := lessons.CreateProblem(lessonID, problemSeed.problemType, problemSeed.prompt, answer)
				if err != nil {
					return fmt.Errorf("failed to create problem %q: %w", problemSeed.prompt, err)
				}

				for _, optionSeed := range problemSeed.options {
					if err := lessons.CreateOption(problemID, optionSeed.text, optionSeed.isCorrect); err != nil {
						return fmt.Errorf("failed to create option %q: %w", optionSeed.text, err)
					}
				}
			}
		}
		log.Printf("Seeded %d demo lessons", len(demoLessons))
	}

	return tx.Commit()
}
