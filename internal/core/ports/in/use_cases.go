package in

import (
	"context"
	"time"

	"github.com/suchimauz/dentist-availability-filter/internal/core/domain"
)

type DecisionUseCase interface {
	// Решение по одной заявке на запись
	Decide(ctx context.Context, req domain.BookingRequest) domain.Decision
}

type ScheduleUseCase interface {
	// Генерация расписания одного стоматолога на дату
	Generate(ctx context.Context, dentist domain.Dentist, date time.Time) (domain.Schedule, error)

	// Генерация расписаний всех известных стоматологов на дату
	GenerateAll(ctx context.Context, date time.Time) []domain.Schedule
}

type RegistryUseCase interface {
	// Замена снимков реестров целиком
	ReplaceDentists(ctx context.Context, dentists []domain.Dentist)
	ReplaceBookings(ctx context.Context, bookings []domain.Booking)
}
