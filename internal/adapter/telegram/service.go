// Package telegram forwards progression notifications to a Telegram
// chat. Configured via bot token + chat id; disabled silently when
// either is missing.
package telegram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"pegasis/internal/domain"
)

// NotificationService implements domain.Notifier over the Telegram Bot API.
type NotificationService struct {
	botToken   string
	chatID     string
	enabled    bool
	httpClient *http.Client
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// NewNotificationService creates the Telegram sink.
func NewNotificationService(botToken, chatID string) *NotificationService {
	return &NotificationService{
		botToken: botToken,
		chatID:   chatID,
		enabled:  botToken != "" && chatID != "",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Notify sends one progression message. Best effort: failures are
// logged, never surfaced to the engine.
func (s *NotificationService) Notify(level domain.NotifyLevel, message string) {
	if !s.enabled {
		return
	}

	emoji := "ℹ️"
	switch level {
	case domain.NotifySuccess:
		emoji = "🏆"
	case domain.NotifyError:
		emoji = "⚠️"
	}

	if err := s.sendMessage(fmt.Sprintf("%s %s", emoji, message)); err != nil {
		log.Warn().Err(err).Msg("telegram notification failed")
	}
}

func (s *NotificationService) sendMessage(text string) error {
	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.botToken)

	payload := telegramMessage{
		ChatID:    s.chatID,
		Text:      text,
		ParseMode: "Markdown",
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal telegram message: %w", err)
	}

	resp, err := s.httpClient.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram API error (status %d): %s", resp.StatusCode, string(body))
	}
	return nil
}
