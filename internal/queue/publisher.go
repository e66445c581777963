package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Publisher publishes roster domain events to RabbitMQ. Publishing is
// best-effort: failures are logged and returned so callers can ignore them
// without interrupting the mutation that triggered the event.
type Publisher struct {
	url    string
	logger *logrus.Logger
}

// NewPublisher creates a Publisher for the given AMQP URL
func NewPublisher(url string, logger *logrus.Logger) *Publisher {
	return &Publisher{url: url, logger: logger}
}

// PublishCrewSelected publishes a CrewSelectedEvent to the
// roster.crew_selected queue.
func (p *Publisher) PublishCrewSelected(ctx context.Context, event CrewSelectedEvent) error {
	return p.publish(ctx, QueueCrewSelected, event)
}

// PublishSeatsAssigned publishes a SeatsAssignedEvent to the
// roster.seats_assigned queue.
func (p *Publisher) PublishSeatsAssigned(ctx context.Context, event SeatsAssignedEvent) error {
	return p.publish(ctx, QueueSeatsAssigned, event)
}

// publish dials, declares the durable queue and publishes one persistent
// JSON message. Connections are short-lived; roster mutations are human
// paced, so per-publish dialing keeps the publisher stateless.
func (p *Publisher) publish(ctx context.Context, queueName string, event interface{}) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.logger.WithError(err).Warn("rabbitmq: dial failed")
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.logger.WithError(err).Warn("rabbitmq: channel open failed")
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		p.logger.WithError(err).Warnf("rabbitmq: queue declare failed for %s", queueName)
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		p.logger.WithError(err).Warnf("rabbitmq: publish failed for %s", queueName)
		return fmt.Errorf("rabbitmq publish: %w", err)
	}

	return nil
}
