package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/karierni-denik/denik-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Account{},
		&models.ClassSection{},
		&models.ClassTeacher{},
		&models.ClassEnrollment{},
		&models.Assignment{},
		&models.Template{},
		&models.Question{},
		&models.Option{},
		&models.OutcomeCategory{},
		&models.OptionOutcomePoint{},
		&models.Submission{},
		&models.SubmissionAnswer{},
		&models.SubmissionAttachment{},
	))
	return db
}

func createAccount(t *testing.T, db *gorm.DB, role, email string) models.Account {
	t.Helper()
	account := models.Account{
		ExternalID: "ext-" + email,
		Email:      email,
		Name:       email,
		Role:       role,
	}
	require.NoError(t, db.Create(&account).Error)
	return account
}
