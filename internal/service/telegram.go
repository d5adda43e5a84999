package service

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramSender delivers reminders as bot messages to one chat.
type TelegramSender struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramSender(token string, chatID int64) (*TelegramSender, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram sender not configured (missing TELEGRAM_BOT_TOKEN)")
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	slog.Info("telegram bot authorized", "account", bot.Self.UserName)

	return &TelegramSender{bot: bot, chatID: chatID}, nil
}

func (s *TelegramSender) Send(ctx context.Context, title, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(s.chatID, formatTelegramReminder(title, body))
	_, err := s.bot.Send(msg)
	if err != nil {
		return fmt.Errorf("failed to send telegram reminder: %w", err)
	}
	return nil
}

func formatTelegramReminder(title, body string) string {
	if body == "" {
		return title
	}
	return title + "\n" + body
}
