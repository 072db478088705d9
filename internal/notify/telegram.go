// Package notify пересылает отчет во внешние каналы.
package notify

import (
	"context"
	"fmt"
	"time"

	tgbot "github.com/go-telegram/bot"

	"github.com/region23/apero/internal/config"
)

// Sender отправляет текст отчета
type Sender interface {
	Send(ctx context.Context, text string) error
}

// TelegramSender отправляет отчет в чат Telegram
type TelegramSender struct {
	bot     *tgbot.Bot
	chatID  int64
	timeout time.Duration
}

// NewTelegramSender создает отправителя по конфигурации.
// getMe не вызывается: бот нужен только для одной отправки.
func NewTelegramSender(cfg config.TelegramConfig) (*TelegramSender, error) {
	opts := []tgbot.Option{tgbot.WithSkipGetMe()}
	if cfg.ServerURL != "" {
		opts = append(opts, tgbot.WithServerURL(cfg.ServerURL))
	}

	b, err := tgbot.New(cfg.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	return &TelegramSender{
		bot:     b,
		chatID:  cfg.ChatID,
		timeout: cfg.Timeout,
	}, nil
}

// Send отправляет сообщение в настроенный чат
func (s *TelegramSender) Send(ctx context.Context, text string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	params := &tgbot.SendMessageParams{
		ChatID: s.chatID,
		Text:   text,
	}

	if _, err := s.bot.SendMessage(ctx, params); err != nil {
		return fmt.Errorf("failed to send message to chat %d: %w", s.chatID, err)
	}
	return nil
}
