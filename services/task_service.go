package services

import (
	"errors"
	"fmt"
	"math/rand"

	"trainerbot/models"

	"gorm.io/gorm"
)

// ErrNoTasks signals that the requested difficulty tier has no tasks.
var ErrNoTasks = errors.New("no tasks for this difficulty")

type TaskService struct {
	db *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db}
}

type CreateTaskRequest struct {
	Question      string `json:"question" binding:"required"`
	CorrectAnswer string `json:"correct_answer" binding:"required"`
	Difficulty    string `json:"difficulty" binding:"required"`
	Points        int    `json:"points" binding:"required,min=1"`
}

// Seed inserts the starter tasks on first run. A non-empty tasks table means
// seeding already happened and the call is a no-op.
func (s *TaskService) Seed() error {
	var count int64
	if err := s.db.Model(&models.Task{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	seed := []models.Task{
		{Question: "2 + 2 ?", CorrectAnswer: "4", Difficulty: models.DifficultyEasy, Points: 1},
		{Question: "Столица Франции?", CorrectAnswer: "Париж", Difficulty: models.DifficultyMedium, Points: 2},
		{Question: "10 * 10 ?", CorrectAnswer: "100", Difficulty: models.DifficultyHard, Points: 3},
	}

	return s.db.Create(&seed).Error
}

// PickTask selects a task of the given difficulty uniformly at random.
func (s *TaskService) PickTask(difficulty string) (*models.Task, error) {
	tasks, err := s.TasksByDifficulty(difficulty)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, ErrNoTasks
	}

	task := tasks[rand.Intn(len(tasks))]
	return &task, nil
}

func (s *TaskService) TasksByDifficulty(difficulty string) ([]models.Task, error) {
	var tasks []models.Task
	if err := s.db.Where("difficulty = ?", difficulty).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *TaskService) GetTask(id uint) (*models.Task, error) {
	var task models.Task
	if err := s.db.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) ListTasks() ([]models.Task, error) {
	var tasks []models.Task
	if err := s.db.Order("id").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask adds a task through the admin API.
func (s *TaskService) CreateTask(req *CreateTaskRequest) (*models.Task, error) {
	if !models.ValidDifficulty(req.Difficulty) {
		return nil, fmt.Errorf("unknown difficulty %q", req.Difficulty)
	}

	task := models.Task{
		Question:      req.Question,
		CorrectAnswer: req.CorrectAnswer,
		Difficulty:    req.Difficulty,
		Points:        req.Points,
	}
	if err := s.db.Create(&task).Error; err != nil {
		return nil, err
	}

	return &task, nil
}
