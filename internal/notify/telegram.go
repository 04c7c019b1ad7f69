package notify

import (
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/jhunter/agent/internal/agent"
	"github.com/jhunter/agent/internal/jobs"
)

// Telegram sends run summaries to a configured chat.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

func NewTelegram(token string, chatID int64, logger *zap.Logger) (*Telegram, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("telegram token is required")
	}
	if chatID == 0 {
		return nil, errors.New("telegram chat id is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &Telegram{bot: bot, chatID: chatID, logger: logger}, nil
}

// SendRunSummary posts a plain-text digest of a finished workflow run.
func (t *Telegram) SendRunSummary(state *agent.State) error {
	msg := tgbotapi.NewMessage(t.chatID, formatSummary(state))
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	t.logger.Debug("run summary sent", zap.String("run_id", state.RunID))
	return nil
}

func formatSummary(state *agent.State) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Job agent run %s finished\n", state.RunID)
	fmt.Fprintf(&b, "Jobs found: %d\n", len(state.FoundJobs))
	fmt.Fprintf(&b, "Cleared for application: %d\n", len(state.Submitted))

	if len(state.Submitted) > 0 {
		b.WriteString("\n")
		for _, url := range state.Submitted {
			if listing := jobs.FindByURL(state.FoundJobs, url); listing != nil {
				fmt.Fprintf(&b, "- %s at %s\n", listing.Title, listing.Company)
			} else {
				fmt.Fprintf(&b, "- %s\n", url)
			}
		}
	}

	return strings.TrimSpace(b.String())
}
