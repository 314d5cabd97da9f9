// Package events publishes listing and payment events to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/josiaO/SmartDalaliTZ/internal/logger"
)

const (
	RoutingPropertyCreated       = "property.created"
	RoutingPropertyStatusChanged = "property.status_changed"
	RoutingPropertyDeleted       = "property.deleted"
	RoutingPaymentSettled        = "payment.settled"
)

// Event is the JSON body of every published message.
type Event struct {
	Kind       string    `json:"kind"`
	PropertyID int64     `json:"propertyId,omitempty"`
	PaymentID  string    `json:"paymentId,omitempty"`
	AgentID    string    `json:"agentId,omitempty"`
	Status     string    `json:"status,omitempty"`
	At         time.Time `json:"at"`
}

type Config struct {
	URL          string
	ExchangeName string
}

// Publisher owns one connection and channel to a durable direct exchange.
type Publisher struct {
	config     Config
	mu         sync.Mutex
	connection *amqp.Connection
	channel    *amqp.Channel
}

func NewPublisher(cfg Config) (*Publisher, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("publisher: RabbitMQ URL is required")
	}
	if cfg.ExchangeName == "" {
		return nil, fmt.Errorf("publisher: exchange name is required")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("publisher: failed to dial RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("publisher: failed to open a channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.ExchangeName,
		amqp.ExchangeDirect,
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("publisher: failed to declare exchange '%s': %w", cfg.ExchangeName, err)
	}

	logger.Log.Infof("Publisher: connected, exchange '%s' declared", cfg.ExchangeName)
	return &Publisher{config: cfg, connection: conn, channel: ch}, nil
}

// Publish sends ev as a persistent JSON message. amqp channels are not safe
// for concurrent publishing, hence the mutex.
func (p *Publisher) Publish(ctx context.Context, routingKey string, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("publisher: marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel == nil || p.connection == nil || p.connection.IsClosed() {
		return fmt.Errorf("publisher: not connected or channel/connection is closed")
	}

	publishCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(publishCtx, p.config.ExchangeName, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    ev.At,
	})
	if err != nil {
		return fmt.Errorf("publisher: failed to publish %s: %w", routingKey, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			firstErr = err
		}
		p.channel = nil
	}
	if p.connection != nil {
		if err := p.connection.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		p.connection = nil
	}
	logger.Log.Info("Publisher: closed")
	return firstErr
}

// Nop drops every event. It stands in when RabbitMQ is not configured.
type Nop struct{}

func (Nop) Publish(_ context.Context, routingKey string, _ Event) error {
	logger.Log.Debugf("events disabled, dropping %s event", routingKey)
	return nil
}
