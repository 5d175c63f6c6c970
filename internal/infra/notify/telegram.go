// Package notify pushes operational alerts to a Telegram chat. The product UI
// is HTTP; this channel exists so ops hears about new shops and data faults
// without watching logs.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID int64
	log    *slog.Logger
}

func NewTelegram(token string, chatID int64, log *slog.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram init: %w", err)
	}
	return &Telegram{api: api, chatID: chatID, log: log}, nil
}

func (t *Telegram) ShopCreated(_ context.Context, name, code string) {
	t.send(fmt.Sprintf("New shop: %s (%s)", name, code))
}

func (t *Telegram) RoleIntegrityFault(_ context.Context, identityID string) {
	t.send(fmt.Sprintf("⚠️ Identity %s exists as both owner and customer — needs manual cleanup", identityID))
}

func (t *Telegram) send(text string) {
	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.api.Send(msg); err != nil {
		t.log.Error("ops alert send failed", "err", err)
	}
}

// Noop is used when no ops chat is configured.
type Noop struct{}

func (Noop) ShopCreated(context.Context, string, string) {}

func (Noop) RoleIntegrityFault(context.Context, string) {}
