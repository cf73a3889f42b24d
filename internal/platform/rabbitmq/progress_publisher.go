package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"docuquery/internal/progress"
)

// ProgressPublisher fans ingestion progress updates out to a durable queue.
// It satisfies progress.Sink; publish failures are logged and dropped so a
// broker hiccup never fails an ingestion.
type ProgressPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewProgressPublisher(conn *amqp.Connection, queueName string) *ProgressPublisher {
	return &ProgressPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *ProgressPublisher) Report(u progress.Update) {
	if err := p.publish(context.Background(), u); err != nil {
		log.Printf("publish progress update failed: %v", err)
	}
}

func (p *ProgressPublisher) publish(ctx context.Context, u progress.Update) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		p.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue failed: %w", err)
	}

	payload, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("marshal progress payload failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish progress update failed: %w", err)
	}
	return nil
}
