package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/karierni-denik/denik-api/internal/models"
)

func submissionFixture(t *testing.T, db *gorm.DB) (models.Account, models.Assignment) {
	t.Helper()
	teacher := createAccount(t, db, models.RoleTeacher, "teacher@example.com")
	student := createAccount(t, db, models.RoleStudent, "student@example.com")

	class := models.ClassSection{OwnerID: teacher.ID, Subject: "Math", JoinCode: "ABC1234"}
	require.NoError(t, db.Create(&class).Error)

	assignment := models.Assignment{ClassID: class.ID, Title: "Quiz", Kind: models.AssignmentKindTest}
	require.NoError(t, db.Create(&assignment).Error)

	return student, assignment
}

func TestSubmissionUpsertKeepsSingleRow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	student, assignment := submissionFixture(t, db)

	first := models.Submission{
		AssignmentID: assignment.ID,
		StudentID:    student.ID,
		SubmittedAt:  time.Now(),
		Status:       models.SubmissionStatusGraded,
	}
	answers := []models.SubmissionAnswer{{QuestionID: 1, OptionID: 11}}
	require.NoError(t, repo.Upsert(context.Background(), &first, answers, nil))

	second := models.Submission{
		AssignmentID: assignment.ID,
		StudentID:    student.ID,
		SubmittedAt:  time.Now(),
		Status:       models.SubmissionStatusGraded,
	}
	replacement := []models.SubmissionAnswer{
		{QuestionID: 1, OptionID: 12},
		{QuestionID: 2, OptionID: 21},
	}
	require.NoError(t, repo.Upsert(context.Background(), &second, replacement, nil))
	require.Equal(t, first.ID, second.ID, "upsert must reuse the existing row")

	var count int64
	require.NoError(t, db.Model(&models.Submission{}).
		Where("assignment_id = ? AND student_id = ?", assignment.ID, student.ID).
		Count(&count).Error)
	require.Equal(t, int64(1), count)

	stored, err := repo.GetByAssignmentAndStudent(context.Background(), assignment.ID, student.ID)
	require.NoError(t, err)
	require.Len(t, stored.Answers, 2, "prior answers must be replaced, not appended")
	require.Equal(t, uint(12), stored.Answers[0].OptionID)
}

func TestSubmissionUpsertReplacesAttachments(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	student, assignment := submissionFixture(t, db)

	submission := models.Submission{
		AssignmentID: assignment.ID,
		StudentID:    student.ID,
		SubmittedAt:  time.Now(),
		Status:       models.SubmissionStatusSubmitted,
	}
	attachments := []models.SubmissionAttachment{{Name: "essay", URL: "https://drive.example/a", Kind: "file"}}
	require.NoError(t, repo.Upsert(context.Background(), &submission, nil, attachments))

	resubmit := models.Submission{
		AssignmentID: assignment.ID,
		StudentID:    student.ID,
		SubmittedAt:  time.Now(),
		Status:       models.SubmissionStatusSubmitted,
	}
	require.NoError(t, repo.Upsert(context.Background(), &resubmit, nil, []models.SubmissionAttachment{
		{Name: "essay-v2", URL: "https://drive.example/b", Kind: "file"},
	}))

	stored, err := repo.GetByID(context.Background(), resubmit.ID)
	require.NoError(t, err)
	require.Len(t, stored.Attachments, 1)
	require.Equal(t, "essay-v2", stored.Attachments[0].Name)
}

func TestSubmissionDeleteRemovesChildren(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	student, assignment := submissionFixture(t, db)

	submission := models.Submission{
		AssignmentID: assignment.ID,
		StudentID:    student.ID,
		SubmittedAt:  time.Now(),
		Status:       models.SubmissionStatusSubmitted,
	}
	require.NoError(t, repo.Upsert(context.Background(), &submission,
		[]models.SubmissionAnswer{{QuestionID: 1, OptionID: 11}},
		[]models.SubmissionAttachment{{Name: "n", URL: "u"}}))

	require.NoError(t, repo.Delete(context.Background(), submission.ID))

	var answers, attachments int64
	require.NoError(t, db.Model(&models.SubmissionAnswer{}).Where("submission_id = ?", submission.ID).Count(&answers).Error)
	require.NoError(t, db.Model(&models.SubmissionAttachment{}).Where("submission_id = ?", submission.ID).Count(&attachments).Error)
	require.Zero(t, answers)
	require.Zero(t, attachments)

	_, err := repo.GetByID(context.Background(), submission.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
