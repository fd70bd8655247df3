package service

import (
	"context"
	"fmt"

	"github.com/karierni-denik/denik-api/internal/dto"
	"github.com/karierni-denik/denik-api/internal/models"
	"github.com/karierni-denik/denik-api/internal/repository"
)

// contentOwnerFor resolves where an assignment's gradable content lives.
// Predefined tests redirect to their template; every read and grade site
// must go through this indirection.
func contentOwnerFor(assignment models.Assignment) repository.ContentOwner {
	if assignment.Kind == models.AssignmentKindPredefinedTest && assignment.TemplateID != nil {
		return repository.ContentOwner{TemplateID: assignment.TemplateID}
	}
	id := assignment.ID
	return repository.ContentOwner{AssignmentID: &id}
}

// resolveContent loads the effective question bank for an assignment.
func resolveContent(ctx context.Context, contents repository.ContentRepository, assignment models.Assignment) (repository.ContentSet, error) {
	return contents.Load(ctx, contentOwnerFor(assignment))
}

// buildContentSet converts request payloads into the repository's content
// representation. OptionOutcomePoint.CategoryID carries the outcome index
// until the repository rewrites it to row IDs on insert.
func buildContentSet(questions []dto.QuestionPayload, outcomes []string) (repository.ContentSet, error) {
	content := repository.ContentSet{}

	for _, name := range outcomes {
		content.Categories = append(content.Categories, models.OutcomeCategory{Name: name})
	}

	for _, questionPayload := range questions {
		points := questionPayload.Points
		if points <= 0 {
			points = 1
		}
		question := models.Question{Text: questionPayload.Text, Points: points}
		for _, optionPayload := range questionPayload.Options {
			option := models.Option{Text: optionPayload.Text, IsCorrect: optionPayload.IsCorrect}
			for _, entry := range optionPayload.OutcomePoints {
				if entry.Category < 0 || entry.Category >= len(outcomes) {
					return repository.ContentSet{}, fmt.Errorf("%w: outcome point references unknown category %d", ErrInvalidOperation, entry.Category)
				}
				if entry.Points == 0 {
					continue
				}
				option.OutcomePoints = append(option.OutcomePoints, models.OptionOutcomePoint{
					CategoryID: uint(entry.Category),
					Points:     entry.Points,
				})
			}
			question.Options = append(question.Options, option)
		}
		content.Questions = append(content.Questions, question)
	}

	return content, nil
}

// selectedAnswers flattens stored submission answers into the map shape the
// grading engine consumes.
func selectedAnswers(answers []models.SubmissionAnswer) map[uint][]uint {
	selected := make(map[uint][]uint, len(answers))
	for _, answer := range answers {
		selected[answer.QuestionID] = append(selected[answer.QuestionID], answer.OptionID)
	}
	return selected
}
