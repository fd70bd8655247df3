// Package grading computes results for test and outcome submissions. All
// functions are pure: they operate on the resolved question set and the
// student's selected option IDs and return full per-question or per-category
// breakdowns so result views can be reconstructed after submission.
package grading

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/karierni-denik/denik-api/internal/models"
)

// QuestionScore is the scored breakdown for a single test question.
type QuestionScore struct {
	QuestionID uint    `json:"question_id"`
	Correct    int     `json:"correct"`
	Incorrect  int     `json:"incorrect"`
	Score      float64 `json:"score"`
	Max        float64 `json:"max"`
}

// TestReport is the full result of grading a test submission.
type TestReport struct {
	Questions []QuestionScore `json:"questions"`
	Total     float64         `json:"total"`
	Max       float64         `json:"max"`
}

// Percent returns the rounded overall percentage, 0 when nothing is gradable.
func (r TestReport) Percent() int {
	if r.Max <= 0 {
		return 0
	}
	return int(math.Round(r.Total / r.Max * 100))
}

// Display renders the compact result string stored on the submission,
// e.g. "50% (1/2)".
func (r TestReport) Display() string {
	return fmt.Sprintf("%d%% (%s/%s)", r.Percent(), trimFloat(r.Total), trimFloat(r.Max))
}

// CategoryScore is the accumulated point total for one outcome category.
type CategoryScore struct {
	CategoryID uint   `json:"category_id"`
	Name       string `json:"name"`
	Points     int    `json:"points"`
}

// OutcomeReport is the full result of grading an outcome submission.
// Categories appear in declaration order, including zero-score ones.
type OutcomeReport struct {
	Categories []CategoryScore `json:"categories"`
	Winner     string          `json:"winner"`
	WinnerID   uint            `json:"winner_id"`
}

// Display returns the winning category name.
func (r OutcomeReport) Display() string {
	return r.Winner
}

// GradeTest scores a standard test. selected maps question ID to the option
// IDs the student picked. Per question the score is
// max(0, (correct − incorrect) / max(1, correctCount)) × points; selections
// that do not belong to the question are ignored.
func GradeTest(questions []models.Question, selected map[uint][]uint) TestReport {
	report := TestReport{Questions: make([]QuestionScore, 0, len(questions))}

	for _, question := range sortedByPosition(questions) {
		correctIDs := make(map[uint]bool, len(question.Options))
		memberIDs := make(map[uint]bool, len(question.Options))
		correctCount := 0
		for _, option := range question.Options {
			memberIDs[option.ID] = true
			if option.IsCorrect {
				correctIDs[option.ID] = true
				correctCount++
			}
		}

		score := QuestionScore{QuestionID: question.ID, Max: question.Points}
		for _, optionID := range dedupe(selected[question.ID]) {
			if !memberIDs[optionID] {
				continue
			}
			if correctIDs[optionID] {
				score.Correct++
			} else {
				score.Incorrect++
			}
		}

		// Zero correct options degrades the denominator to 1 so any
		// incorrect pick fully penalizes the question.
		denominator := correctCount
		if denominator < 1 {
			denominator = 1
		}

		fraction := float64(score.Correct-score.Incorrect) / float64(denominator)
		if fraction < 0 {
			fraction = 0
		}
		score.Score = fraction * question.Points

		report.Questions = append(report.Questions, score)
		report.Total += score.Score
		report.Max += question.Points
	}

	return report
}

// GradeOutcome accumulates per-category points for every selected option and
// picks the category with the strictly highest total. Ties resolve to the
// category declared first.
func GradeOutcome(categories []models.OutcomeCategory, questions []models.Question, selected map[uint][]uint) OutcomeReport {
	ordered := make([]models.OutcomeCategory, len(categories))
	copy(ordered, categories)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})

	totals := make(map[uint]int, len(ordered))
	names := make(map[uint]string, len(ordered))
	for _, category := range ordered {
		totals[category.ID] = 0
		names[category.ID] = category.Name
	}

	for _, question := range questions {
		chosen := make(map[uint]bool, len(selected[question.ID]))
		for _, optionID := range selected[question.ID] {
			chosen[optionID] = true
		}
		for _, option := range question.Options {
			if !chosen[option.ID] {
				continue
			}
			for _, entry := range option.OutcomePoints {
				if _, known := totals[entry.CategoryID]; known {
					totals[entry.CategoryID] += entry.Points
				}
			}
		}
	}

	report := OutcomeReport{Categories: make([]CategoryScore, 0, len(ordered))}
	best := math.MinInt
	for _, category := range ordered {
		points := totals[category.ID]
		report.Categories = append(report.Categories, CategoryScore{
			CategoryID: category.ID,
			Name:       category.Name,
			Points:     points,
		})
		if points > best {
			best = points
			report.Winner = category.Name
			report.WinnerID = category.ID
		}
	}

	return report
}

func sortedByPosition(questions []models.Question) []models.Question {
	ordered := make([]models.Question, len(questions))
	copy(ordered, questions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})
	return ordered
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	result := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			result = append(result, id)
		}
	}
	return result
}

func trimFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
