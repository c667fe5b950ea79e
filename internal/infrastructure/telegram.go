package infrastructure

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// TelegramClient delivers messages through the Telegram Bot API. Two
// limiters gate every send: a shared bucket for the API-wide ~30 msg/s cap
// and a per-chat bucket for the ~1 msg/s per-chat cap.
type TelegramClient struct {
	bot     *tgbotapi.BotAPI
	global  *rate.Limiter
	perChat *ChatRateLimiter
}

func NewTelegramClient(token string) (*TelegramClient, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot auth: %w", err)
	}
	return &TelegramClient{
		bot:     bot,
		global:  rate.NewLimiter(rate.Limit(25), 5),
		perChat: NewChatRateLimiter(rate.Limit(1), 2),
	}, nil
}

// BotUsername returns the authenticated bot account name.
func (t *TelegramClient) BotUsername() string {
	return t.bot.Self.UserName
}

// SendMessage sends text to a chat. Blocks on both rate limiters; a
// cancelled context aborts the wait.
func (t *TelegramClient) SendMessage(ctx context.Context, chatID int64, text string) error {
	if err := t.global.Wait(ctx); err != nil {
		return err
	}
	if err := t.perChat.Wait(ctx, chatID); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send to %d: %w", chatID, err)
	}
	return nil
}
