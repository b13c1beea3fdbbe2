package queue

import (
	"context"
	"crypto/tls"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

// Handler consumes one raw message from the mail topic.
type Handler interface {
	HandleMessage(message string) error
}

type Consumer struct {
	Reader      *kafka.Reader
	Handler     Handler
	ServiceName string
}

func NewConsumer(broker, topic, groupID, username, password string, handler Handler) *Consumer {
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
	if username != "" {
		dialer.TLS = &tls.Config{}
		dialer.SASLMechanism = plain.Mechanism{
			Username: username,
			Password: password,
		}
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{broker},
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 10e3,
		MaxBytes: 10e6,
		Dialer:   dialer,
	})

	return &Consumer{
		Reader:      reader,
		Handler:     handler,
		ServiceName: "Mail Service",
	}
}

func (c *Consumer) Listen() {
	for {
		msg, err := c.Reader.ReadMessage(context.Background())
		if err != nil {
			log.Printf("[%s] read error: %v\n", c.ServiceName, err)
			continue
		}

		if err := c.Handler.HandleMessage(string(msg.Value)); err != nil {
			log.Printf("[%s] handler error: %v\n", c.ServiceName, err)
		}
	}
}
