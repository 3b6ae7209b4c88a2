package notify

import (
	"context"
	"fmt"
	"html"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// chatSender is the part of *tgbotapi.BotAPI the notifier uses.
type chatSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Telegram struct {
	bot    chatSender
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &Telegram{bot: bot, chatID: chatID}, nil
}

func (t *Telegram) NotifyOwner(ctx context.Context, n Notification) error {
	text := fmt.Sprintf("🏥 <b>%s</b>\n\n%s",
		html.EscapeString(OwnerTitle(n)),
		html.EscapeString(OwnerContent(n)),
	)

	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = "HTML" //use HTML for bold

	return retry(ctx, 3, time.Second, func() error {
		_, err := t.bot.Send(msg)
		return err
	})
}
