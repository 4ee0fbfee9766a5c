package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultTelegramAPIBase = "https://api.telegram.org"

// Sender delivers one pre-formatted message to the staff channel.
type Sender interface {
	Send(ctx context.Context, text string) error
}

type TelegramSender struct {
	base   string
	token  string
	chatID string
	client *http.Client
}

func NewTelegramSender(base, token, chatID string) *TelegramSender {
	if base == "" {
		base = DefaultTelegramAPIBase
	}
	return &TelegramSender{
		base:   strings.TrimRight(base, "/"),
		token:  token,
		chatID: chatID,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *TelegramSender) Enabled() bool {
	return s.token != "" && s.chatID != ""
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// Send is a no-op when the bot token or chat id is missing.
func (s *TelegramSender) Send(ctx context.Context, text string) error {
	if !s.Enabled() {
		return nil
	}

	body, err := json.Marshal(sendMessageRequest{
		ChatID:    s.chatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.base, s.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram send: status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	return nil
}
