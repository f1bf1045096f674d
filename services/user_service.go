package services

import (
	"errors"

	"trainerbot/models"

	"gorm.io/gorm"
)

// ErrUserNotFound signals a lookup for a user that should already exist.
// Normal flow registers users on first contact, so hitting this is an
// invariant violation, not a recoverable condition.
var ErrUserNotFound = errors.New("user not found")

// NoUsernamePlaceholder is shown on the leaderboard for users that have no
// Telegram username.
const NoUsernamePlaceholder = "Без имени"

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

type UserStats struct {
	Score           int `json:"score"`
	TotalAttempts   int `json:"total_attempts"`
	CorrectAttempts int `json:"correct_attempts"`
}

type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// GetOrCreateUser registers the user on first contact. Score starts at zero
// and the registration timestamp is set once by the database.
func (s *UserService) GetOrCreateUser(telegramID int64, username string) (*models.User, error) {
	var user models.User
	err := s.db.Where("telegram_id = ?", telegramID).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = models.User{
		TelegramID: telegramID,
		Username:   username,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *UserService) GetByTelegramID(telegramID int64) (*models.User, error) {
	var user models.User
	if err := s.db.Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Stats derives total and correct attempt counts from the user's attempts.
func (s *UserService) Stats(telegramID int64) (*UserStats, error) {
	user, err := s.GetByTelegramID(telegramID)
	if err != nil {
		return nil, err
	}

	var attempts []models.Attempt
	if err := s.db.Where("user_id = ?", user.ID).Find(&attempts).Error; err != nil {
		return nil, err
	}

	stats := &UserStats{Score: user.Score, TotalAttempts: len(attempts)}
	for _, a := range attempts {
		if a.IsCorrect {
			stats.CorrectAttempts++
		}
	}

	return stats, nil
}

// Leaderboard returns at most limit users ordered by score descending. Ties
// keep the storage order.
func (s *UserService) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	var users []models.User
	if err := s.db.Order("score DESC").Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for i, u := range users {
		name := u.Username
		if name == "" {
			name = NoUsernamePlaceholder
		}
		entries = append(entries, LeaderboardEntry{
			Rank:     i + 1,
			Username: name,
			Score:    u.Score,
		})
	}

	return entries, nil
}
