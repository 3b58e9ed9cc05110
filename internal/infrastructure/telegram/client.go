package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/homeharmony/backend/internal/config"
)

// NewBot authorizes the household bot. It returns nil without error when no
// token or chat is configured.
func NewBot(cfg config.TelegramConfig, logger *zap.Logger) (*tgbotapi.BotAPI, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}
	if logger != nil {
		logger.Info("telegram bot authorized", zap.String("username", bot.Self.UserName))
	}
	return bot, nil
}
