package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/karierni-denik/denik-api/internal/models"
)

func TestClassRepositoryMembership(t *testing.T) {
	db := setupTestDB(t)
	repo := NewClassRepository(db)

	owner := createAccount(t, db, models.RoleTeacher, "owner@example.com")
	coTeacher := createAccount(t, db, models.RoleTeacher, "co@example.com")
	student := createAccount(t, db, models.RoleStudent, "student@example.com")

	class := models.ClassSection{OwnerID: owner.ID, Subject: "Physics", JoinCode: "PHYS123"}
	require.NoError(t, repo.Create(context.Background(), &class))

	require.NoError(t, repo.AddTeacher(context.Background(), class.ID, coTeacher.ID))
	require.NoError(t, repo.Enroll(context.Background(), class.ID, student.ID))

	for _, teacherID := range []uint{owner.ID, coTeacher.ID} {
		ok, err := repo.IsTeacher(context.Background(), class.ID, teacherID)
		require.NoError(t, err)
		require.True(t, ok)
	}

	ok, err := repo.IsTeacher(context.Background(), class.ID, student.ID)
	require.NoError(t, err)
	require.False(t, ok)

	enrolled, err := repo.IsEnrolled(context.Background(), class.ID, student.ID)
	require.NoError(t, err)
	require.True(t, enrolled)

	classes, err := repo.ListOwnedOrCoTaught(context.Background(), coTeacher.ID)
	require.NoError(t, err)
	require.Len(t, classes, 1)

	classes, err = repo.ListEnrolled(context.Background(), student.ID)
	require.NoError(t, err)
	require.Len(t, classes, 1)
}

func TestClassRepositoryJoinCodeLookup(t *testing.T) {
	db := setupTestDB(t)
	repo := NewClassRepository(db)
	owner := createAccount(t, db, models.RoleTeacher, "owner@example.com")

	class := models.ClassSection{OwnerID: owner.ID, Subject: "Chemistry", JoinCode: "CHEM777"}
	require.NoError(t, repo.Create(context.Background(), &class))

	exists, err := repo.JoinCodeExists(context.Background(), "CHEM777")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = repo.JoinCodeExists(context.Background(), "NOPE000")
	require.NoError(t, err)
	require.False(t, exists)

	found, err := repo.GetByJoinCode(context.Background(), "CHEM777")
	require.NoError(t, err)
	require.Equal(t, class.ID, found.ID)
}

func TestClassRepositoryDeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	repo := NewClassRepository(db)

	owner := createAccount(t, db, models.RoleTeacher, "owner@example.com")
	student := createAccount(t, db, models.RoleStudent, "student@example.com")

	class := models.ClassSection{OwnerID: owner.ID, Subject: "Biology", JoinCode: "BIO4567"}
	require.NoError(t, repo.Create(context.Background(), &class))
	require.NoError(t, repo.Enroll(context.Background(), class.ID, student.ID))

	assignment := models.Assignment{ClassID: class.ID, Title: "Quiz", Kind: models.AssignmentKindOutcome}
	require.NoError(t, db.Create(&assignment).Error)

	question := models.Question{AssignmentID: &assignment.ID, Text: "Q1", Points: 1}
	require.NoError(t, db.Create(&question).Error)
	option := models.Option{QuestionID: question.ID, Text: "O1"}
	require.NoError(t, db.Create(&option).Error)
	category := models.OutcomeCategory{AssignmentID: &assignment.ID, Name: "A"}
	require.NoError(t, db.Create(&category).Error)
	point := models.OptionOutcomePoint{OptionID: option.ID, CategoryID: category.ID, Points: 3}
	require.NoError(t, db.Create(&point).Error)

	submission := models.Submission{
		AssignmentID: assignment.ID,
		StudentID:    student.ID,
		SubmittedAt:  time.Now(),
		Status:       models.SubmissionStatusGraded,
	}
	require.NoError(t, db.Create(&submission).Error)
	require.NoError(t, db.Create(&models.SubmissionAnswer{SubmissionID: submission.ID, QuestionID: question.ID, OptionID: option.ID}).Error)
	require.NoError(t, db.Create(&models.SubmissionAttachment{SubmissionID: submission.ID, Name: "n", URL: "u"}).Error)

	require.NoError(t, repo.Delete(context.Background(), class.ID))

	// Nothing beneath the class may survive.
	for name, model := range map[string]interface{}{
		"assignments":            &models.Assignment{},
		"questions":              &models.Question{},
		"options":                &models.Option{},
		"outcome_categories":     &models.OutcomeCategory{},
		"option_outcome_points":  &models.OptionOutcomePoint{},
		"submissions":            &models.Submission{},
		"submission_answers":     &models.SubmissionAnswer{},
		"submission_attachments": &models.SubmissionAttachment{},
		"class_enrollments":      &models.ClassEnrollment{},
	} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		require.Zero(t, count, "expected no orphaned %s", name)
	}

	_, err := repo.GetByID(context.Background(), class.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
