// Package service holds outbound integrations built on top of the domain
// flow, currently the order event publisher.
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/afterclass/lesson-booking/internal/queue"
)

// OrderPublisher publishes OrderPlacedEvent messages to RabbitMQ. It dials
// per publish, which keeps the happy path free of long-lived broker state;
// order volume for this service does not justify a channel pool. Errors
// are logged and returned so callers can ignore them: a broker outage must
// never fail an already-committed order.
type OrderPublisher struct {
	URL string
}

// NewOrderPublisher returns a publisher for the given broker URL.
func NewOrderPublisher(url string) *OrderPublisher {
	return &OrderPublisher{URL: url}
}

// PublishOrderPlaced publishes the event to the order.placed queue.
// Messages are persistent so they survive broker restarts.
func (p *OrderPublisher) PublishOrderPlaced(ctx context.Context, ev queue.OrderPlacedEvent) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queue.OrderQueueName, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.OrderQueueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
