package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/suchimauz/dentist-availability-filter/internal/core/domain"
	"github.com/suchimauz/dentist-availability-filter/internal/core/ports/out"
	"github.com/suchimauz/dentist-availability-filter/internal/core/resilience"
)

func (l *FilterListener) startBookingRequestQueue(ctx context.Context) error {
	return l.startQueue(ctx, l.cfg.RabbitMQ.BookingRequestQueue, l.processBookingRequestMessage)
}

// processBookingRequestMessage прогоняет заявку через предохранитель
// к движку решений. На каждую валидную заявку уходит ровно один ответ:
// принято, отклонено или отклонено из-за деградации сервиса
func (l *FilterListener) processBookingRequestMessage(ctx context.Context, msg amqp.Delivery) error {
	var req domain.BookingRequest
	if err := json.Unmarshal(msg.Body, &req); err != nil {
		l.logger.Warn("booking_request.message.malformed", out.LogFields{
			"error": err.Error(),
		})
		rejected := domain.NewRejectedDecision(req, domain.RejectReasonInvalidRequest)
		return l.publisher.Publish(ctx, l.cfg.RabbitMQ.BookingResponseTopic, rejected.RejectedMessage())
	}

	var decision domain.Decision
	err := l.breaker.Execute(func() error {
		decision = l.decisionUseCase.Decide(ctx, req)
		return nil
	})

	switch {
	case errors.Is(err, resilience.ErrOpenState):
		// Цепь разомкнута: движок не вызывался, отвечаем деградацией,
		// чтобы вышестоящая логика не путала ее с занятым слотом
		l.logger.Warn("booking_request.circuit_open", out.LogFields{
			"requestId": req.RequestID,
			"state":     l.breaker.State(),
		})
		rejected := domain.NewRejectedDecision(req, domain.RejectReasonServiceDegraded)
		return l.publisher.Publish(ctx, l.cfg.RabbitMQ.BookingResponseTopic, rejected.RejectedMessage())
	case err != nil:
		// Движок упал: паника перехвачена предохранителем,
		// заявителю уходит общий отказ
		l.logger.Error("booking_request.decide.failed", out.LogFields{
			"requestId": req.RequestID,
			"error":     err.Error(),
		})
		rejected := domain.NewRejectedDecision(req, domain.RejectReasonError)
		return l.publisher.Publish(ctx, l.cfg.RabbitMQ.BookingResponseTopic, rejected.RejectedMessage())
	}

	if decision.Accepted {
		return l.publisher.Publish(ctx, l.cfg.RabbitMQ.SuccessfulBookingTopic, decision.AcceptedMessage())
	}
	return l.publisher.Publish(ctx, l.cfg.RabbitMQ.BookingResponseTopic, decision.RejectedMessage())
}
