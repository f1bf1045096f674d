package services

import (
	"testing"

	"trainerbot/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Task{}, &models.Attempt{}))

	return db
}

func createTask(t *testing.T, db *gorm.DB, question, answer, difficulty string, points int) *models.Task {
	t.Helper()

	task := models.Task{
		Question:      question,
		CorrectAnswer: answer,
		Difficulty:    difficulty,
		Points:        points,
	}
	require.NoError(t, db.Create(&task).Error)

	return &task
}
