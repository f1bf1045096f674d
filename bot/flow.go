package bot

import (
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"trainerbot/services"
)

// Reply texts.
const (
	MsgWelcome          = "Добро пожаловать в тренажёр программирования!"
	MsgChooseDifficulty = "Выберите уровень сложности:"
	MsgNoTasks          = "Нет задач этого уровня."
	MsgLostTask         = "Кажется, я потерял вашу задачу. Начнём заново."
	MsgUnknownCommand   = "Неизвестная команда"
	MsgFailure          = "Что-то пошло не так. Попробуйте ещё раз."
)

// Reply is one outbound message, optionally replacing the reply keyboard.
type Reply struct {
	Text     string
	Keyboard *tgbotapi.ReplyKeyboardMarkup
}

// Flow is the conversation state machine. It turns one inbound message into
// one reply, reading and advancing the user's session as a side effect. It
// performs no sending itself, the transport layer does that.
type Flow struct {
	users    *services.UserService
	tasks    *services.TaskService
	answers  *services.AnswerService
	sessions services.SessionStore
	hub      *services.Hub
}

func NewFlow(
	users *services.UserService,
	tasks *services.TaskService,
	answers *services.AnswerService,
	sessions services.SessionStore,
	hub *services.Hub,
) *Flow {
	return &Flow{
		users:    users,
		tasks:    tasks,
		answers:  answers,
		sessions: sessions,
		hub:      hub,
	}
}

// Handle dispatches one inbound message. Match order mirrors the handler
// registration order of the bot: /start and the get-task button fire in any
// state, then the session state handlers, then the stateless queries.
func (f *Flow) Handle(telegramID int64, username, text string) (Reply, error) {
	switch text {
	case "/start":
		return f.handleStart(telegramID, username)
	case BtnGetTask:
		return f.handleTaskRequest(telegramID)
	}

	session, err := f.sessions.Get(telegramID)
	if err != nil {
		return f.failure(err)
	}

	switch session.State {
	case services.StateChoosingDifficulty:
		return f.handleDifficulty(telegramID, text)
	case services.StateWaitingForAnswer:
		return f.handleAnswer(telegramID, session, text)
	}

	switch text {
	case BtnStats:
		return f.handleStats(telegramID)
	case BtnRating:
		return f.handleLeaderboard()
	}

	return Reply{Text: MsgUnknownCommand}, nil
}

func (f *Flow) handleStart(telegramID int64, username string) (Reply, error) {
	if _, err := f.users.GetOrCreateUser(telegramID, username); err != nil {
		return f.failure(err)
	}
	return Reply{Text: MsgWelcome, Keyboard: MainKeyboard()}, nil
}

func (f *Flow) handleTaskRequest(telegramID int64) (Reply, error) {
	err := f.sessions.Set(telegramID, services.Session{State: services.StateChoosingDifficulty})
	if err != nil {
		return f.failure(err)
	}
	return Reply{Text: MsgChooseDifficulty, Keyboard: DifficultyKeyboard()}, nil
}

func (f *Flow) handleDifficulty(telegramID int64, text string) (Reply, error) {
	difficulty := strings.ToLower(strings.TrimSpace(text))

	task, err := f.tasks.PickTask(difficulty)
	if errors.Is(err, services.ErrNoTasks) {
		// No task to attach, so the session drops back to idle rather than
		// re-prompting for a tier.
		if err := f.sessions.Clear(telegramID); err != nil {
			return f.failure(err)
		}
		return Reply{Text: MsgNoTasks, Keyboard: MainKeyboard()}, nil
	}
	if err != nil {
		return f.failure(err)
	}

	err = f.sessions.Set(telegramID, services.Session{
		State:  services.StateWaitingForAnswer,
		TaskID: task.ID,
	})
	if err != nil {
		return f.failure(err)
	}

	text = fmt.Sprintf("Задача (%s, %d балл/балла):\n\n%s", difficulty, task.Points, task.Question)
	return Reply{Text: text, Keyboard: MainKeyboard()}, nil
}

func (f *Flow) handleAnswer(telegramID int64, session services.Session, text string) (Reply, error) {
	if session.TaskID == 0 {
		// WaitingForAnswer with no task attached should not happen; reset
		// instead of taking the turn down.
		if err := f.sessions.Clear(telegramID); err != nil {
			return f.failure(err)
		}
		return Reply{Text: MsgLostTask, Keyboard: MainKeyboard()}, nil
	}

	result, err := f.answers.SubmitAnswer(telegramID, session.TaskID, text, f.hub)
	if err != nil {
		return f.failure(err)
	}

	if err := f.sessions.Clear(telegramID); err != nil {
		return f.failure(err)
	}

	if result.Correct {
		return Reply{Text: fmt.Sprintf("✅ Верно! +%d баллов", result.Points)}, nil
	}
	return Reply{Text: fmt.Sprintf("❌ Неверно.\nПравильный ответ: %s", result.CorrectAnswer)}, nil
}

func (f *Flow) handleStats(telegramID int64) (Reply, error) {
	stats, err := f.users.Stats(telegramID)
	if err != nil {
		return f.failure(err)
	}

	text := fmt.Sprintf(
		"📊 Ваша статистика:\n\nБаллы: %d\nВсего попыток: %d\nПравильных: %d",
		stats.Score, stats.TotalAttempts, stats.CorrectAttempts,
	)
	return Reply{Text: text}, nil
}

func (f *Flow) handleLeaderboard() (Reply, error) {
	entries, err := f.users.Leaderboard(10)
	if err != nil {
		return f.failure(err)
	}

	var b strings.Builder
	b.WriteString("🏆 Топ пользователей:\n\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "%d. %s — %d баллов\n", e.Rank, e.Username, e.Score)
	}

	return Reply{Text: b.String()}, nil
}

// failure maps a turn-fatal error to a generic user reply; the transport
// layer logs the error itself.
func (f *Flow) failure(err error) (Reply, error) {
	return Reply{Text: MsgFailure, Keyboard: MainKeyboard()}, err
}
