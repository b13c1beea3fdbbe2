package notify

import (
	"encoding/json"

	"github.com/SundayYogurt/blog_service/internal/dto"
)

// Publisher is what the queue producer exposes to this package.
type Publisher interface {
	PublishMessage(key, value []byte) error
}

// KafkaSender hands the message to the mail topic; the mailer worker
// (cmd/mailer) picks it up and delivers over SMTP.
type KafkaSender struct {
	producer Publisher
}

func NewKafkaSender(producer Publisher) *KafkaSender {
	return &KafkaSender{producer: producer}
}

func (k *KafkaSender) Send(to, subject, html string) error {
	payload, err := json.Marshal(dto.MailEvent{
		To:      to,
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return err
	}
	return k.producer.PublishMessage([]byte("mail.send"), payload)
}
