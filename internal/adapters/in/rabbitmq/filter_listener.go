package rabbitmq

import (
	"context"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/suchimauz/dentist-availability-filter/internal/config"
	"github.com/suchimauz/dentist-availability-filter/internal/core/ports/in"
	"github.com/suchimauz/dentist-availability-filter/internal/core/ports/out"
	"github.com/suchimauz/dentist-availability-filter/internal/core/resilience"
)

// FilterListener — диспетчер входящих топиков. Каждый логический топик
// слушается отдельной очередью; обработка внутри очереди последовательная,
// разные очереди обрабатываются независимо
type FilterListener struct {
	conn    *amqp.Connection
	channel *amqp.Channel

	decisionUseCase in.DecisionUseCase
	scheduleUseCase in.ScheduleUseCase
	registryUseCase in.RegistryUseCase
	publisher       out.PublisherPort
	breaker         *resilience.CircuitBreaker

	cfg    *config.Config
	logger out.LoggerPort

	done      chan struct{}
	closeOnce sync.Once
}

func NewFilterListener(
	decisionUseCase in.DecisionUseCase,
	scheduleUseCase in.ScheduleUseCase,
	registryUseCase in.RegistryUseCase,
	publisher out.PublisherPort,
	breaker *resilience.CircuitBreaker,
	cfg *config.Config,
	logger out.LoggerPort,
) (*FilterListener, error) {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("rabbitmq.disabled", out.LogFields{
			"message": "RabbitMQ is disabled, listener will not be started",
		})
		return nil, nil
	}

	conn, channel, err := dial(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &FilterListener{
		conn:            conn,
		channel:         channel,
		decisionUseCase: decisionUseCase,
		scheduleUseCase: scheduleUseCase,
		registryUseCase: registryUseCase,
		publisher:       publisher,
		breaker:         breaker,
		cfg:             cfg,
		logger:          logger,
		done:            make(chan struct{}),
	}, nil
}

func dial(cfg *config.Config, logger out.LoggerPort) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Error("rabbitmq.connect.failed", out.LogFields{
			"error": err.Error(),
			"url":   cfg.RabbitMQ.URL,
		})
		return nil, nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		logger.Error("rabbitmq.channel.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, nil, err
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
		return nil, nil, err
	}

	return conn, channel, nil
}

func (l *FilterListener) Start(ctx context.Context) error {
	if err := l.startQueues(ctx); err != nil {
		return err
	}

	go l.watchConnection(ctx)
	return nil
}

func (l *FilterListener) startQueues(ctx context.Context) error {
	var err error
	err = l.startDentistRegistryQueue(ctx)
	if err != nil {
		return err
	}
	l.logger.Info("dentist_registry.queue.started", out.LogFields{
		"queue": l.cfg.RabbitMQ.DentistRegistryQueue,
	})
	err = l.startBookingRegistryQueue(ctx)
	if err != nil {
		return err
	}
	l.logger.Info("booking_registry.queue.started", out.LogFields{
		"queue": l.cfg.RabbitMQ.BookingRegistryQueue,
	})
	err = l.startBookingRequestQueue(ctx)
	if err != nil {
		return err
	}
	l.logger.Info("booking_request.queue.started", out.LogFields{
		"queue": l.cfg.RabbitMQ.BookingRequestQueue,
	})
	err = l.startAvailabilityQueue(ctx)
	if err != nil {
		return err
	}
	l.logger.Info("availability_request.queue.started", out.LogFields{
		"queue": l.cfg.RabbitMQ.AvailabilityQueue,
	})

	return nil
}

// startQueue объявляет очередь, привязывает ее к топику и запускает
// последовательный цикл обработки: ack после успешной обработки,
// nack с возвратом в очередь при ошибке
func (l *FilterListener) startQueue(ctx context.Context, queueName string, handler func(context.Context, amqp.Delivery) error) error {
	queue, err := l.channel.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}
	err = l.channel.QueueBind(
		queue.Name,
		queueName,
		l.cfg.RabbitMQ.Exchange,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	msgs, err := l.channel.Consume(
		queue.Name,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				if err := handler(ctx, msg); err != nil {
					msg.Nack(false, true) // requeue message
					continue
				}
				msg.Ack(false)
			}
		}
	}()

	return nil
}

func (l *FilterListener) watchConnection(ctx context.Context) {
	closed := l.conn.NotifyClose(make(chan *amqp.Error, 1))

	select {
	case <-ctx.Done():
		return
	case amqpErr := <-closed:
		// nil приходит при штатном закрытии соединения
		if amqpErr == nil {
			return
		}
		l.logger.Warn("rabbitmq.connection.lost", out.LogFields{
			"error": amqpErr.Error(),
		})
		l.reconnect(ctx)
	}
}

// reconnect пытается восстановить соединение с фиксированным интервалом.
// После потолка попытки прекращаются и компонент завершает работу:
// вечно блокирующих операций быть не должно
func (l *FilterListener) reconnect(ctx context.Context) {
	started := time.Now()
	ticker := time.NewTicker(l.cfg.RabbitMQ.ReconnectInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if time.Since(started) >= l.cfg.RabbitMQ.ReconnectCeiling {
			l.logger.Error("rabbitmq.reconnect.gave_up", out.LogFields{
				"elapsed": time.Since(started).String(),
				"ceiling": l.cfg.RabbitMQ.ReconnectCeiling.String(),
			})
			l.shutdown()
			return
		}

		l.logger.Info("rabbitmq.reconnecting", out.LogFields{})

		conn, channel, err := dial(l.cfg, l.logger)
		if err != nil {
			l.logger.Warn("rabbitmq.reconnect.failed", out.LogFields{
				"error": err.Error(),
			})
			continue
		}

		l.conn = conn
		l.channel = channel

		if err := l.startQueues(ctx); err != nil {
			l.logger.Warn("rabbitmq.resubscribe.failed", out.LogFields{
				"error": err.Error(),
			})
			channel.Close()
			conn.Close()
			continue
		}

		l.logger.Info("rabbitmq.reconnected", out.LogFields{
			"elapsed": time.Since(started).String(),
		})
		go l.watchConnection(ctx)
		return
	}
}

func (l *FilterListener) shutdown() {
	l.closeOnce.Do(func() {
		close(l.done)
	})
}

// Done закрывается, когда слушатель исчерпал попытки переподключения
// и больше не будет принимать сообщения
func (l *FilterListener) Done() <-chan struct{} {
	return l.done
}

func (l *FilterListener) Stop() error {
	if l == nil || l.channel == nil {
		return nil
	}

	if err := l.channel.Close(); err != nil {
		return err
	}
	return l.conn.Close()
}
