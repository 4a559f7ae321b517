package rabbitmq

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/suchimauz/dentist-availability-filter/internal/core/domain"
	"github.com/suchimauz/dentist-availability-filter/internal/core/ports/out"
)

type DentistRegistryMessage struct {
	Dentists []json.RawMessage `json:"dentists"`
}

type BookingRegistryMessage struct {
	Bookings []json.RawMessage `json:"bookings"`
}

func (l *FilterListener) startDentistRegistryQueue(ctx context.Context) error {
	return l.startQueue(ctx, l.cfg.RabbitMQ.DentistRegistryQueue, l.processDentistRegistryMessage)
}

func (l *FilterListener) startBookingRegistryQueue(ctx context.Context) error {
	return l.startQueue(ctx, l.cfg.RabbitMQ.BookingRegistryQueue, l.processBookingRegistryMessage)
}

func (l *FilterListener) processDentistRegistryMessage(ctx context.Context, msg amqp.Delivery) error {
	var msgJson DentistRegistryMessage
	if err := json.Unmarshal(msg.Body, &msgJson); err != nil {
		// Нечитаемый снимок отбрасывается, предыдущий остается действующим
		l.logger.Warn("dentist_registry.message.malformed", out.LogFields{
			"error": err.Error(),
		})
		return nil
	}

	dentists := make([]domain.Dentist, 0, len(msgJson.Dentists))
	for _, raw := range msgJson.Dentists {
		var dentist domain.Dentist
		if err := json.Unmarshal(raw, &dentist); err != nil {
			// Битая запись пропускается, остальной снимок применяется
			l.logger.Warn("dentist_registry.entry.skipped", out.LogFields{
				"error": err.Error(),
				"entry": string(raw),
			})
			continue
		}
		dentists = append(dentists, dentist)
	}

	l.registryUseCase.ReplaceDentists(ctx, dentists)

	l.logger.Info("dentist_registry.message.applied", out.LogFields{
		"count":   len(dentists),
		"skipped": len(msgJson.Dentists) - len(dentists),
	})
	return nil
}

func (l *FilterListener) processBookingRegistryMessage(ctx context.Context, msg amqp.Delivery) error {
	var msgJson BookingRegistryMessage
	if err := json.Unmarshal(msg.Body, &msgJson); err != nil {
		l.logger.Warn("booking_registry.message.malformed", out.LogFields{
			"error": err.Error(),
		})
		return nil
	}

	bookings := make([]domain.Booking, 0, len(msgJson.Bookings))
	for _, raw := range msgJson.Bookings {
		var booking domain.Booking
		if err := json.Unmarshal(raw, &booking); err != nil {
			l.logger.Warn("booking_registry.entry.skipped", out.LogFields{
				"error": err.Error(),
				"entry": string(raw),
			})
			continue
		}
		// Запись с непарсибельным временем не может занять ни один слот
		if booking.Time.Date.IsZero() {
			l.logger.Warn("booking_registry.entry.skipped", out.LogFields{
				"error": "unparsable booking time",
				"entry": string(raw),
			})
			continue
		}
		bookings = append(bookings, booking)
	}

	l.registryUseCase.ReplaceBookings(ctx, bookings)

	l.logger.Info("booking_registry.message.applied", out.LogFields{
		"count":   len(bookings),
		"skipped": len(msgJson.Bookings) - len(bookings),
	})
	return nil
}
