package services

import (
	"context"
	"fmt"
	"html"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/homeharmony/backend/domain"
	"github.com/homeharmony/backend/usecase"
)

// MessageSender is the part of tgbotapi.BotAPI the notifier needs.
type MessageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts household events to a single group chat.
type TelegramNotifier struct {
	sender MessageSender
	chatID int64
	logger *zap.Logger
}

func NewTelegramNotifier(sender MessageSender, chatID int64, logger *zap.Logger) *TelegramNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TelegramNotifier{sender: sender, chatID: chatID, logger: logger}
}

func (n *TelegramNotifier) TaskAssigned(_ context.Context, task domain.Task, assignee domain.Member) error {
	text := fmt.Sprintf("%s <b>%s</b>, new chore for you: <b>%s</b>\nDue %s",
		html.EscapeString(assignee.Avatar),
		html.EscapeString(assignee.Name),
		html.EscapeString(task.Name),
		task.DueDate.Format("Mon 02 Jan"))
	return n.send(text)
}

func (n *TelegramNotifier) LowStock(_ context.Context, item domain.Item) error {
	unit := item.Unit
	if unit != "" {
		unit = " " + unit
	}
	text := fmt.Sprintf("🛒 Running low on <b>%s</b>: %d%s left (minimum %d)",
		html.EscapeString(item.Name), item.Quantity, html.EscapeString(unit), item.MinQuantity)
	return n.send(text)
}

func (n *TelegramNotifier) send(text string) error {
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := n.sender.Send(msg); err != nil {
		n.logger.Warn("telegram send failed", zap.Int64("chat_id", n.chatID), zap.Error(err))
		return err
	}
	return nil
}

var _ usecase.Notifier = (*TelegramNotifier)(nil)
