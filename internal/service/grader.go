package service

import (
	"strings"

	"mathquest/internal/models"
)

// normalizeAnswer prepares a free-text answer for comparison
func normalizeAnswer(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// Grade decides whether a submitted answer is correct for the given
// problem. For mcq problems, options must be the problem's own option
// set; referencing any other option fails validation. Grade performs no
// I/O — callers fetch the problem and its options first.
func Grade(problem models.Problem, options []models.Option, answer models.AnswerItem) (bool, error) {
	switch problem.Type {
	case models.ProblemTypeMCQ:
		if answer.OptionID == nil {
			return false, validationErrorf("option_id must be an integer for mcq problems")
		}
		for _, option := range options {
			if option.ID == *answer.OptionID {
				return option.IsCorrect, nil
			}
		}
		return false, validationErrorf("option_id %d invalid for problem %d", *answer.OptionID, problem.ID)

	case models.ProblemTypeInput:
		if answer.Value == nil {
			return false, validationErrorf("value is required for input problems")
		}
		var canonical string
		if problem.CorrectAnswerText != nil {
			canonical = *problem.CorrectAnswerText
		}
		return normalizeAnswer(*answer.Value) == normalizeAnswer(canonical), nil

	default:
		return false, validationErrorf("unknown problem type: %s", problem.Type)
	}
}
