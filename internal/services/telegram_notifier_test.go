package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/homeharmony/backend/domain"
)

type captureSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (c *captureSender) Send(msg tgbotapi.Chattable) (tgbotapi.Message, error) {
	if m, ok := msg.(tgbotapi.MessageConfig); ok {
		c.sent = append(c.sent, m)
	}
	return tgbotapi.Message{}, c.err
}

func TestTelegramNotifierFormatsHTML(t *testing.T) {
	sender := &captureSender{}
	n := NewTelegramNotifier(sender, 42, nil)

	task := domain.Task{ID: "t1", Name: "Fix <sink>", DueDate: time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)}
	if err := n.TaskAssigned(context.Background(), task, domain.Member{ID: "a", Name: "Ann", Avatar: "🧹"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.ChatID != 42 || msg.ParseMode != tgbotapi.ModeHTML {
		t.Fatalf("unexpected message config: %+v", msg)
	}
	if !strings.Contains(msg.Text, "Fix &lt;sink&gt;") || !strings.Contains(msg.Text, "Mon 04 Mar") {
		t.Fatalf("unexpected text: %q", msg.Text)
	}

	if err := n.LowStock(context.Background(), domain.Item{Name: "Milk", Quantity: 0, MinQuantity: 2, Unit: "l"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(sender.sent[1].Text, "0 l left") {
		t.Fatalf("unexpected low stock text: %q", sender.sent[1].Text)
	}
}

func TestTelegramNotifierPropagatesErrors(t *testing.T) {
	sender := &captureSender{err: errors.New("flood wait")}
	n := NewTelegramNotifier(sender, 1, nil)
	if err := n.LowStock(context.Background(), domain.Item{Name: "Tea"}); err == nil {
		t.Fatalf("expected send error")
	}
}
