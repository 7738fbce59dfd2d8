package services

import (
	"encoding/json"
	"fmt"

	"bluewud/pkg/rabbitmq"
)

// AMQPConfirmationSender publishes order confirmations to the notification
// exchange, where the email worker picks them up. The orchestrator treats
// the send as fire-and-forget, so a broker outage costs the customer an
// email, never an order.
type AMQPConfirmationSender struct {
	publisher EventPublisher
}

// NewAMQPConfirmationSender creates a confirmation sender backed by the
// message broker.
func NewAMQPConfirmationSender(publisher EventPublisher) *AMQPConfirmationSender {
	return &AMQPConfirmationSender{
		publisher: publisher,
	}
}

// SendOrderConfirmation publishes the confirmation for the email worker.
func (s *AMQPConfirmationSender) SendOrderConfirmation(email string, summary OrderConfirmation) error {
	if s.publisher == nil {
		return fmt.Errorf("event publisher is not initialized")
	}

	payload := struct {
		Email string `json:"email"`
		OrderConfirmation
	}{Email: email, OrderConfirmation: summary}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal order confirmation: %w", err)
	}
	if err := s.publisher.Publish(rabbitmq.NotificationExchange, "order.confirmation", body); err != nil {
		return fmt.Errorf("failed to publish order confirmation: %w", err)
	}
	return nil
}
