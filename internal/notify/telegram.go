// Package notify pings the site owner on Telegram when a lead comes in.
package notify

import (
	"context"
	"fmt"
	"strings"

	"complexity-quiz-service/internal/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram sends lead summaries to a single chat.
type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegram connects to the Bot API with token and verifies it.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	return NewTelegramWithEndpoint(token, tgbotapi.APIEndpoint, chatID)
}

// NewTelegramWithEndpoint uses a custom Bot API endpoint format, e.g. "http://host/bot%s/%s".
func NewTelegramWithEndpoint(token, endpoint string, chatID int64) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}
	return &Telegram{api: api, chatID: chatID}, nil
}

func (t *Telegram) NotifyLead(_ context.Context, lead domain.LeadRecord, result domain.Result) error {
	msg := tgbotapi.NewMessage(t.chatID, FormatLead(lead, result))
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("send lead message: %w", err)
	}
	return nil
}

// FormatLead renders the plain-text lead summary.
func FormatLead(lead domain.LeadRecord, result domain.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New lead: %s\n", lead.Email)
	if lead.Name != "" {
		fmt.Fprintf(&b, "Name: %s\n", lead.Name)
	}
	if lead.Company != "" {
		fmt.Fprintf(&b, "Company: %s\n", lead.Company)
	}
	fmt.Fprintf(&b, "Score: %d (%s)\n", result.Score, result.Recommendation.Tier)
	fmt.Fprintf(&b, "Project: %s\n", result.Recommendation.ProjectSummary)
	fmt.Fprintf(&b, "Estimate: %s\n", result.Recommendation.TimelineEstimate)
	return b.String()
}
