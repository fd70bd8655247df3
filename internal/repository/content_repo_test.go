package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/karierni-denik/denik-api/internal/models"
)

func TestContentRepositoryReplaceAndLoad(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepository(db)

	owner := createAccount(t, db, models.RoleTeacher, "owner@example.com")
	template := models.Template{OwnerID: owner.ID, Name: "Career quiz", Kind: models.TemplateKindOutcome}
	require.NoError(t, db.Create(&template).Error)

	ownerRef := ContentOwner{TemplateID: &template.ID}
	content := ContentSet{
		Categories: []models.OutcomeCategory{{Name: "Technical"}, {Name: "Creative"}},
		Questions: []models.Question{
			{
				Text:   "Pick one",
				Points: 1,
				Options: []models.Option{
					{
						Text: "Robots",
						// CategoryID carries the index into Categories until insert.
						OutcomePoints: []models.OptionOutcomePoint{{CategoryID: 0, Points: 3}},
					},
					{
						Text:          "Painting",
						OutcomePoints: []models.OptionOutcomePoint{{CategoryID: 1, Points: 2}},
					},
				},
			},
		},
	}

	require.NoError(t, repo.Replace(context.Background(), ownerRef, content))

	loaded, err := repo.Load(context.Background(), ownerRef)
	require.NoError(t, err)
	require.Len(t, loaded.Questions, 1)
	require.Len(t, loaded.Questions[0].Options, 2)
	require.Len(t, loaded.Categories, 2)
	require.Equal(t, "Technical", loaded.Categories[0].Name)

	robots := loaded.Questions[0].Options[0]
	require.Len(t, robots.OutcomePoints, 1)
	require.Equal(t, loaded.Categories[0].ID, robots.OutcomePoints[0].CategoryID)
	require.Equal(t, 3, robots.OutcomePoints[0].Points)
}

func TestContentRepositoryReplaceIsDestructive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepository(db)

	owner := createAccount(t, db, models.RoleTeacher, "owner@example.com")
	class := models.ClassSection{OwnerID: owner.ID, Subject: "Math", JoinCode: "MATH999"}
	require.NoError(t, db.Create(&class).Error)
	assignment := models.Assignment{ClassID: class.ID, Title: "Test", Kind: models.AssignmentKindTest}
	require.NoError(t, db.Create(&assignment).Error)

	ownerRef := ContentOwner{AssignmentID: &assignment.ID}

	first := ContentSet{Questions: []models.Question{
		{Text: "Old question", Points: 1, Options: []models.Option{{Text: "a", IsCorrect: true}, {Text: "b"}}},
	}}
	require.NoError(t, repo.Replace(context.Background(), ownerRef, first))

	second := ContentSet{Questions: []models.Question{
		{Text: "New question", Points: 2, Options: []models.Option{{Text: "c", IsCorrect: true}}},
	}}
	require.NoError(t, repo.Replace(context.Background(), ownerRef, second))

	loaded, err := repo.Load(context.Background(), ownerRef)
	require.NoError(t, err)
	require.Len(t, loaded.Questions, 1)
	require.Equal(t, "New question", loaded.Questions[0].Text)
	require.Len(t, loaded.Questions[0].Options, 1)

	var orphanOptions int64
	require.NoError(t, db.Model(&models.Option{}).Count(&orphanOptions).Error)
	require.Equal(t, int64(1), orphanOptions)
}

func TestContentRepositorySkipsZeroOutcomePoints(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepository(db)

	owner := createAccount(t, db, models.RoleTeacher, "owner@example.com")
	template := models.Template{OwnerID: owner.ID, Name: "Quiz", Kind: models.TemplateKindOutcome}
	require.NoError(t, db.Create(&template).Error)

	ownerRef := ContentOwner{TemplateID: &template.ID}
	content := ContentSet{
		Categories: []models.OutcomeCategory{{Name: "Only"}},
		Questions: []models.Question{{
			Text:   "Q",
			Points: 1,
			Options: []models.Option{{
				Text:          "O",
				OutcomePoints: []models.OptionOutcomePoint{{CategoryID: 0, Points: 0}},
			}},
		}},
	}
	require.NoError(t, repo.Replace(context.Background(), ownerRef, content))

	var stored int64
	require.NoError(t, db.Model(&models.OptionOutcomePoint{}).Count(&stored).Error)
	require.Zero(t, stored, "zero-point entries must not be stored")
}

func TestContentRepositoryRejectsAmbiguousOwner(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepository(db)

	_, err := repo.Load(context.Background(), ContentOwner{})
	require.Error(t, err)

	id := uint(1)
	_, err = repo.Load(context.Background(), ContentOwner{AssignmentID: &id, TemplateID: &id})
	require.Error(t, err)
}
