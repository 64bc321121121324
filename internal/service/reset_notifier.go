// Package service bridges the auth handlers and the external mail
// collaborator: reset notifications are published to RabbitMQ for the
// background consumer to deliver, with a synchronous SMTP fallback when
// the broker is unreachable.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/greenspro/auth-backend/internal/mailer"
	"github.com/greenspro/auth-backend/internal/queue"
)

// ResetNotifier dispatches password-reset notifications. FrontendURL is the
// base under which the frontend serves its reset-password page.
type ResetNotifier struct {
	FrontendURL string
	Mailer      *mailer.Mailer
}

func NewResetNotifier(frontendURL string, m *mailer.Mailer) *ResetNotifier {
	return &ResetNotifier{FrontendURL: frontendURL, Mailer: m}
}

// NotifyPasswordReset builds the reset link embedding the raw token and
// hands it to the mail pipeline. Publishing to the broker is preferred so
// the HTTP request does not wait on SMTP; when the broker is down the email
// is sent inline instead, and only a failure of both paths is reported.
func (n *ResetNotifier) NotifyPasswordReset(ctx context.Context, userID uint64, email, username, token string) error {
	link := fmt.Sprintf("%s/reset-password/%s", n.FrontendURL, token)
	ev := queue.PasswordResetRequestedEvent{
		UserID:      userID,
		Email:       email,
		Username:    username,
		ResetLink:   link,
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := publishResetRequested(ctx, ev); err != nil {
		log.Printf("reset-notifier: publish failed, sending inline: %v", err)
		return n.Mailer.SendPasswordReset(email, link)
	}
	return nil
}

// publishResetRequested publishes the event to the durable
// auth.password_reset queue. The function attempts to be robust and to
// never panic; any error is logged and returned so the caller can fall
// back to inline delivery. Messages are marked as persistent.
func publishResetRequested(ctx context.Context, ev queue.PasswordResetRequestedEvent) error {
	conn, err := amqp.Dial(queue.BrokerURL())
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

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		queue.ResetQueueName, // name
		true,                 // durable
		false,                // autoDelete
		false,                // exclusive
		false,                // noWait
		nil,                  // args
	); err != nil {
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
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",                   // default exchange
		queue.ResetQueueName, // routing key = queue name
		false,                // mandatory
		false,                // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}

	return nil
}
