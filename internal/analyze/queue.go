package analyze

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

const (
	// QueueName is the durable queue the API publishes jobs to and workers
	// consume from.
	QueueName = "analysis_jobs"
	// UpdatesExchange fans out per-user progress updates.
	UpdatesExchange = "analysis_updates"
)

func DeclareQueue(ch *amqp.Channel) error {
	_, err := ch.QueueDeclare(
		QueueName,
		true,  // durable
		false, // auto-delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	return err
}

// EnqueueJob publishes one analyze job. Each publish opens its own channel
// since amqp channels are not safe for concurrent use.
func EnqueueJob(conn *amqp.Connection, job Job) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if err := DeclareQueue(ch); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	return ch.Publish(
		"", // default exchange
		QueueName,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// AMQPPublisher sends progress updates on the updates exchange with a
// per-user routing key.
type AMQPPublisher struct {
	conn *amqp.Connection
}

func NewAMQPPublisher(conn *amqp.Connection) *AMQPPublisher {
	return &AMQPPublisher{conn: conn}
}

func (p *AMQPPublisher) Publish(update Update) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, _ := json.Marshal(update)
	routingKey := fmt.Sprintf("user.%s", update.UserKey)

	return ch.Publish(
		UpdatesExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
