package services

import (
	"testing"

	"trainerbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitAnswerCorrect(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	answers := NewAnswerService(db)

	task := createTask(t, db, "2 + 2 ?", "4", models.DifficultyEasy, 1)
	user, err := users.GetOrCreateUser(42, "alice")
	require.NoError(t, err)

	result, err := answers.SubmitAnswer(user.TelegramID, task.ID, "4", nil)
	require.NoError(t, err)
	assert.True(t, result.Correct)
	assert.Equal(t, 1, result.Points)
	assert.Equal(t, 1, result.NewScore)

	stored, err := users.GetByTelegramID(42)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Score)

	var attempt models.Attempt
	require.NoError(t, db.First(&attempt).Error)
	assert.Equal(t, user.ID, attempt.UserID)
	assert.Equal(t, task.ID, attempt.TaskID)
	assert.Equal(t, "4", attempt.UserAnswer)
	assert.True(t, attempt.IsCorrect)
	assert.False(t, attempt.CreatedAt.IsZero())
}

func TestSubmitAnswerIncorrectRevealsAnswer(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	answers := NewAnswerService(db)

	task := createTask(t, db, "2 + 2 ?", "4", models.DifficultyEasy, 1)
	user, err := users.GetOrCreateUser(42, "alice")
	require.NoError(t, err)

	result, err := answers.SubmitAnswer(user.TelegramID, task.ID, "5", nil)
	require.NoError(t, err)
	assert.False(t, result.Correct)
	assert.Equal(t, "4", result.CorrectAnswer)
	assert.Equal(t, 0, result.NewScore)

	stored, err := users.GetByTelegramID(42)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Score)

	var attempt models.Attempt
	require.NoError(t, db.First(&attempt).Error)
	assert.Equal(t, "5", attempt.UserAnswer)
	assert.False(t, attempt.IsCorrect)
}

func TestSubmitAnswerTrimsAndIgnoresCase(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	answers := NewAnswerService(db)

	task := createTask(t, db, "Capital of France?", "Paris", models.DifficultyMedium, 2)
	_, err := users.GetOrCreateUser(42, "alice")
	require.NoError(t, err)

	result, err := answers.SubmitAnswer(42, task.ID, "  pArIs  ", nil)
	require.NoError(t, err)
	assert.True(t, result.Correct)
}

func TestRepeatedCorrectAnswersDoubleCount(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	answers := NewAnswerService(db)

	task := createTask(t, db, "10 * 10 ?", "100", models.DifficultyHard, 3)
	_, err := users.GetOrCreateUser(42, "alice")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		result, err := answers.SubmitAnswer(42, task.ID, "100", nil)
		require.NoError(t, err)
		assert.True(t, result.Correct)
	}

	stored, err := users.GetByTelegramID(42)
	require.NoError(t, err)
	assert.Equal(t, 6, stored.Score)
}

// Score must equal the summed points of all correct attempts, counted per
// attempt rather than per task.
func TestScoreMatchesCorrectAttempts(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	answers := NewAnswerService(db)

	easy := createTask(t, db, "e", "a", models.DifficultyEasy, 1)
	hard := createTask(t, db, "h", "b", models.DifficultyHard, 3)
	_, err := users.GetOrCreateUser(42, "alice")
	require.NoError(t, err)

	submissions := []struct {
		taskID uint
		answer string
	}{
		{easy.ID, "a"},
		{easy.ID, "wrong"},
		{hard.ID, "b"},
		{hard.ID, "b"},
	}
	for _, s := range submissions {
		_, err := answers.SubmitAnswer(42, s.taskID, s.answer, nil)
		require.NoError(t, err)
	}

	var attempts []models.Attempt
	require.NoError(t, db.Find(&attempts).Error)

	expected := 0
	for _, a := range attempts {
		if a.IsCorrect {
			var task models.Task
			require.NoError(t, db.First(&task, a.TaskID).Error)
			expected += task.Points
		}
	}

	stored, err := users.GetByTelegramID(42)
	require.NoError(t, err)
	assert.Equal(t, expected, stored.Score)
	assert.Equal(t, 7, stored.Score)
}

func TestSubmitAnswerUnknownUser(t *testing.T) {
	db := newTestDB(t)
	answers := NewAnswerService(db)

	task := createTask(t, db, "q", "a", models.DifficultyEasy, 1)

	_, err := answers.SubmitAnswer(404, task.ID, "a", nil)
	assert.ErrorIs(t, err, ErrUserNotFound)

	var count int64
	require.NoError(t, db.Model(&models.Attempt{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestSubmitAnswerUnknownTask(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	answers := NewAnswerService(db)

	_, err := users.GetOrCreateUser(42, "alice")
	require.NoError(t, err)

	_, err = answers.SubmitAnswer(42, 999, "a", nil)
	assert.Error(t, err)
}
