package bot

import (
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot runs the Telegram long-poll loop and forwards every message to the
// conversation flow.
type Bot struct {
	api  *tgbotapi.BotAPI
	flow *Flow
}

func NewBot(token string, flow *Flow) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	return &Bot{
		api:  api,
		flow: flow,
	}, nil
}

func (b *Bot) Start() {
	log.Printf("Authorised on account: %s", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil || update.Message.From == nil {
			continue
		}

		msg := update.Message
		reply, err := b.flow.Handle(msg.From.ID, msg.From.UserName, msg.Text)
		if err != nil {
			log.Printf("Error handling message from %d: %v", msg.From.ID, err)
		}

		b.send(msg.Chat.ID, reply)
	}
}

func (b *Bot) send(chatID int64, reply Reply) {
	if reply.Text == "" {
		return
	}

	msg := tgbotapi.NewMessage(chatID, reply.Text)
	if reply.Keyboard != nil {
		msg.ReplyMarkup = *reply.Keyboard
	}

	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}
