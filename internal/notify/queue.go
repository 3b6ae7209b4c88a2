package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Queue publishes owner notifications to a durable RabbitMQ queue. A Worker
// consumes them and delivers through the direct notifiers, so a notification
// survives a crash between the application commit and delivery.
type Queue struct {
	conn    *amqp.Connection
	channel publisher
	name    string
}

func DialQueue(url, name string) (*Queue, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		name,  // queue name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	log.Printf("✅ Connected to RabbitMQ, queue %q", name)
	return &Queue{conn: conn, channel: ch, name: name}, ch, nil
}

func (q *Queue) NotifyOwner(ctx context.Context, n Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return q.channel.PublishWithContext(
		ctx,
		"",     // exchange
		q.name, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    n.ApplicationNumber,
			Body:         body,
		},
	)
}

func (q *Queue) Close() error {
	if q.conn == nil {
		return nil
	}
	return q.conn.Close()
}

// Worker delivers queued notifications with manual acks: a message is acked
// only after Deliver succeeds. A first failure requeues it once; a failed
// redelivery is rejected so a channel that keeps failing cannot loop forever
// or repeat the message on channels that already succeeded. MessageId carries
// the application number for deduplication downstream.
type Worker struct {
	Deliver Notifier
}

func (w *Worker) Run(ctx context.Context, ch *amqp.Channel, queue string) error {
	msgs, err := ch.Consume(
		queue,
		"",
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	log.Printf("📥 Notify worker consuming %q", queue)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var n Notification
	if err := json.Unmarshal(d.Body, &n); err != nil {
		log.Printf("[Notify] ❌ dropping malformed message: %v", err)
		_ = d.Reject(false)
		return
	}

	if err := w.Deliver.NotifyOwner(ctx, n); err != nil {
		if d.Redelivered {
			log.Printf("[Notify] ❌ delivery for %s failed again, dropping: %v", n.ApplicationNumber, err)
			_ = d.Reject(false)
			return
		}
		log.Printf("[Notify] ⚠️ delivery for %s failed, requeueing: %v", n.ApplicationNumber, err)
		_ = d.Nack(false, true)
		return
	}

	_ = d.Ack(false)
	log.Printf("[Notify] ✅ delivered %s", n.ApplicationNumber)
}
