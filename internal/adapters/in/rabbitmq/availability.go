package rabbitmq

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/suchimauz/dentist-availability-filter/internal/core/domain"
	"github.com/suchimauz/dentist-availability-filter/internal/core/json_types"
	"github.com/suchimauz/dentist-availability-filter/internal/core/ports/out"
)

type AvailabilityRequestMessage struct {
	Date json_types.Date `json:"date"`
}

type FreeSlotsMessage struct {
	Schedules []domain.Schedule `json:"schedules"`
}

func (l *FilterListener) startAvailabilityQueue(ctx context.Context) error {
	return l.startQueue(ctx, l.cfg.RabbitMQ.AvailabilityQueue, l.processAvailabilityMessage)
}

func (l *FilterListener) processAvailabilityMessage(ctx context.Context, msg amqp.Delivery) error {
	date, err := parseAvailabilityDate(msg.Body)
	if err != nil {
		l.logger.Warn("availability_request.message.malformed", out.LogFields{
			"error": err.Error(),
			"body":  string(msg.Body),
		})
		return nil
	}

	schedules := l.scheduleUseCase.GenerateAll(ctx, date)

	l.logger.Info("availability_request.schedules.generated", out.LogFields{
		"date":           date.Format("2006-01-02"),
		"schedulesCount": len(schedules),
	})

	return l.publisher.Publish(ctx, l.cfg.RabbitMQ.FreeSlotsTopic, FreeSlotsMessage{
		Schedules: schedules,
	})
}

// parseAvailabilityDate принимает дату в трех видах: объект {"date": ...},
// JSON-строка и голая строка без кавычек
func parseAvailabilityDate(body []byte) (time.Time, error) {
	var msgJson AvailabilityRequestMessage
	if err := json.Unmarshal(body, &msgJson); err == nil && !msgJson.Date.Date.IsZero() {
		return msgJson.Date.Date, nil
	}

	var str string
	if err := json.Unmarshal(body, &str); err == nil {
		return json_types.ParseDate(str)
	}

	return json_types.ParseDate(strings.TrimSpace(string(body)))
}
