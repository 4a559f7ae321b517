package publisher

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/suchimauz/dentist-availability-filter/internal/config"
	"github.com/suchimauz/dentist-availability-filter/internal/core/ports/out"
)

// RabbitMqPublisher публикует результаты фильтра в исходящие топики.
// Сообщения помечаются persistent, доставка at-least-once
type RabbitMqPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	mu      sync.Mutex
	cfg     *config.Config
	logger  out.LoggerPort
}

func NewRabbitMqPublisher(cfg *config.Config, logger out.LoggerPort) (*RabbitMqPublisher, error) {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("rabbitmq.disabled", out.LogFields{
			"message": "RabbitMQ is disabled, publisher will not be started",
		})
		return nil, nil
	}

	conn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Error("rabbitmq.connect.failed", out.LogFields{
			"error": err.Error(),
			"url":   cfg.RabbitMQ.URL,
		})
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		logger.Error("rabbitmq.channel.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	err = channel.ExchangeDeclare(
		cfg.RabbitMQ.Exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		logger.Error("rabbitmq.exchange.failed", out.LogFields{
			"error":    err.Error(),
			"exchange": cfg.RabbitMQ.Exchange,
		})
		return nil, err
	}

	return &RabbitMqPublisher{
		conn:    conn,
		channel: channel,
		cfg:     cfg,
		logger:  logger.WithModule("RabbitMqPublisher"),
	}, nil
}

func (p *RabbitMqPublisher) Publish(ctx context.Context, topic string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("publish.marshal.failed", out.LogFields{
			"topic": topic,
			"error": err.Error(),
		})
		return err
	}

	// Канал amqp не потокобезопасен для конкурентных публикаций
	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx,
		p.cfg.RabbitMQ.Exchange,
		topic,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.NewString(),
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		p.logger.Error("publish.failed", out.LogFields{
			"topic": topic,
			"error": err.Error(),
		})
		return err
	}

	p.logger.Debug("publish.sent", out.LogFields{
		"topic": topic,
		"size":  len(body),
	})
	return nil
}

func (p *RabbitMqPublisher) Close() error {
	if p == nil || p.channel == nil {
		return nil
	}

	if err := p.channel.Close(); err != nil {
		return err
	}
	return p.conn.Close()
}
