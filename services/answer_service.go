package services

import (
	"errors"
	"strings"

	"trainerbot/models"

	"gorm.io/gorm"
)

type AnswerService struct {
	db *gorm.DB
}

func NewAnswerService(db *gorm.DB) *AnswerService {
	return &AnswerService{db: db}
}

type AnswerResult struct {
	Correct       bool   `json:"correct"`
	Points        int    `json:"points"`
	CorrectAnswer string `json:"correct_answer"`
	NewScore      int    `json:"new_score"`
}

// SubmitAnswer records one attempt for the posed task and, when the answer is
// correct, adds the task's points to the user's score. Attempt and score
// change land in a single transaction. A correct answer to a task already
// solved earlier counts again.
func (s *AnswerService) SubmitAnswer(telegramID int64, taskID uint, text string, hub *Hub) (*AnswerResult, error) {
	var task models.Task
	if err := s.db.First(&task, taskID).Error; err != nil {
		return nil, err
	}

	isCorrect := answersMatch(text, task.CorrectAnswer)

	// Start transaction; the user lookup happens inside it so the score
	// update cannot race a concurrent attempt for the same user.
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var user models.User
	if err := tx.Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	attempt := models.Attempt{
		UserID:     user.ID,
		TaskID:     task.ID,
		UserAnswer: text,
		IsCorrect:  isCorrect,
	}
	if err := tx.Create(&attempt).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if isCorrect {
		user.Score += task.Points
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).
			Update("score", user.Score).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	if hub != nil && isCorrect {
		name := user.Username
		if name == "" {
			name = NoUsernamePlaceholder
		}
		hub.Broadcast("score_update", map[string]interface{}{
			"username": name,
			"score":    user.Score,
			"points":   task.Points,
		})
	}

	return &AnswerResult{
		Correct:       isCorrect,
		Points:        task.Points,
		CorrectAnswer: task.CorrectAnswer,
		NewScore:      user.Score,
	}, nil
}

// answersMatch compares submissions case-insensitively with surrounding
// whitespace trimmed.
func answersMatch(submitted, correct string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(correct))
}
