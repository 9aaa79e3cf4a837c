package notify

import (
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramAlerter messages a configured admin chat about new bookings and
// registrations so pending requests are noticed quickly. With an empty token
// it stays disabled and every call is a no-op.
type TelegramAlerter struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramAlerter(token string, chatID int64) (*TelegramAlerter, error) {
	if token == "" || chatID == 0 {
		slog.Info("telegram alerts disabled")
		return &TelegramAlerter{}, nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramAlerter{bot: bot, chatID: chatID}, nil
}

func (a *TelegramAlerter) BookingCreated(spaceName, userName string, from, to time.Time) {
	a.send(fmt.Sprintf(
		"New booking request\nSpace: %s\nUser: %s\nPeriod: %s - %s (UTC)",
		spaceName, userName,
		from.Format("02.01.2006 15:04"), to.Format("02.01.2006 15:04"),
	))
}

func (a *TelegramAlerter) RegistrationCreated(eventName, userName string) {
	a.send(fmt.Sprintf("New event registration\nEvent: %s\nUser: %s", eventName, userName))
}

func (a *TelegramAlerter) send(text string) {
	if a == nil || a.bot == nil {
		return
	}
	msg := tgbotapi.NewMessage(a.chatID, text)
	if _, err := a.bot.Send(msg); err != nil {
		slog.Error("send telegram alert", "err", err)
	}
}
