package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/SundayYogurt/blog_service/config"
	"github.com/SundayYogurt/blog_service/infra/queue"
	"github.com/SundayYogurt/blog_service/internal/mailer"
	"github.com/SundayYogurt/blog_service/internal/notify"
)

// The mailer worker consumes queued mail events and delivers them over
// SMTP. It only runs when the api is configured with MAIL_PROVIDER=kafka.
func main() {
	cfg := config.LoadConfig()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	sender := notify.NewSMTPSender(
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SMTPUser,
		cfg.SMTPPassword,
		cfg.MailFrom,
		cfg.MailFromName,
	)

	handler := mailer.NewHandler(sender, logger)

	consumer := queue.NewConsumer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaGroupID,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
		handler,
	)

	log.Println("Mail worker listening for events...")
	consumer.Listen()
}
