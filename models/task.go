package models

// Difficulty tiers a task can belong to.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Difficulties lists the valid tiers in menu order.
var Difficulties = []string{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ValidDifficulty reports whether s names a known tier.
func ValidDifficulty(s string) bool {
	for _, d := range Difficulties {
		if s == d {
			return true
		}
	}
	return false
}

type Task struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	Question      string `json:"question" gorm:"not null"`
	CorrectAnswer string `json:"correct_answer" gorm:"not null"`
	Difficulty    string `json:"difficulty" gorm:"not null;index"`
	Points        int    `json:"points" gorm:"not null"`

	// Relationships
	Attempts []Attempt `json:"attempts,omitempty" gorm:"foreignKey:TaskID"`
}
