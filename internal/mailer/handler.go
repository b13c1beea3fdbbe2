// Package mailer is the consuming side of the mail topic: it decodes
// queued mail events and delivers them over SMTP.
package mailer

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/SundayYogurt/blog_service/internal/dto"
	"github.com/SundayYogurt/blog_service/internal/notify"
)

type Handler struct {
	sender notify.Sender
	logger *slog.Logger
}

func NewHandler(sender notify.Sender, logger *slog.Logger) *Handler {
	return &Handler{sender: sender, logger: logger}
}

func (h *Handler) HandleMessage(message string) error {
	var event dto.MailEvent
	if err := json.Unmarshal([]byte(message), &event); err != nil {
		return fmt.Errorf("decode mail event: %w", err)
	}
	if event.To == "" {
		return fmt.Errorf("mail event missing recipient")
	}

	if err := h.sender.Send(event.To, event.Subject, event.HTML); err != nil {
		return err
	}

	h.logger.Info("mail delivered", slog.String("to", event.To), slog.String("subject", event.Subject))
	return nil
}
