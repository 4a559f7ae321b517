package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suchimauz/dentist-availability-filter/internal/adapters/out/logger"
	"github.com/suchimauz/dentist-availability-filter/internal/adapters/out/registry"
	"github.com/suchimauz/dentist-availability-filter/internal/config"
	"github.com/suchimauz/dentist-availability-filter/internal/core/domain"
	"github.com/suchimauz/dentist-availability-filter/internal/core/ports/out"
)

// 2024-05-06 — понедельник
var testMonday = time.Date(2024, time.May, 6, 0, 0, 0, 0, time.UTC)

func newTestRegistry(t *testing.T, dentists []domain.Dentist, bookings []domain.Booking) out.RegistryPort {
	t.Helper()
	log, err := logger.NewConsoleLogger("UTC")
	require.NoError(t, err)

	adapter := registry.NewRegistryAdapter(log)
	adapter.ReplaceDentists(dentists)
	adapter.ReplaceBookings(bookings)
	return adapter
}

func newTestScheduleService(t *testing.T, dentists []domain.Dentist, bookings []domain.Booking) *ScheduleService {
	t.Helper()
	log, err := logger.NewConsoleLogger("UTC")
	require.NoError(t, err)

	return NewScheduleService(newTestRegistry(t, dentists, bookings), nil, &config.Config{}, log)
}

func slotStarts(schedule domain.Schedule) []string {
	starts := make([]string, 0, len(schedule.TimeSlots))
	for _, slot := range schedule.TimeSlots {
		starts = append(starts, slot.StartTime.Time.Format("15:04"))
	}
	return starts
}

func TestGenerate_FullDaySlotCount(t *testing.T) {
	svc := newTestScheduleService(t, testDentists(), nil)

	schedule, err := svc.Generate(context.Background(), testDentists()[0], testMonday)
	require.NoError(t, err)

	// 9:00-17:00 дает 16 слотов по 30 минут; первый слот и два обеденных
	// (13:00 и 13:30) недоступны, остается 13
	starts := slotStarts(schedule)
	assert.Len(t, starts, 13)
	assert.NotContains(t, starts, "09:00")
	assert.NotContains(t, starts, "13:00")
	assert.NotContains(t, starts, "13:30")
	assert.Contains(t, starts, "09:30")
	assert.Contains(t, starts, "16:30")
}

func TestGenerate_SlotsOrderedAscending(t *testing.T) {
	svc := newTestScheduleService(t, testDentists(), nil)

	schedule, err := svc.Generate(context.Background(), testDentists()[0], testMonday)
	require.NoError(t, err)

	for i := 1; i < len(schedule.TimeSlots); i++ {
		assert.True(t, schedule.TimeSlots[i-1].StartTime.Time.Before(schedule.TimeSlots[i].StartTime.Time))
	}
}

func TestGenerate_BookingMasksSlot(t *testing.T) {
	bookings := []domain.Booking{
		{UserID: 1, RequestID: 2, DentistID: 1, Time: mustBookingTime(t, "2024-05-06 9:30")},
	}
	svc := newTestScheduleService(t, testDentists(), bookings)

	schedule, err := svc.Generate(context.Background(), testDentists()[0], testMonday)
	require.NoError(t, err)

	starts := slotStarts(schedule)
	assert.Len(t, starts, 12)
	assert.NotContains(t, starts, "09:30")
}

func TestGenerate_BookingDoesNotAffectOtherDentists(t *testing.T) {
	bookings := []domain.Booking{
		{UserID: 1, RequestID: 2, DentistID: 1, Time: mustBookingTime(t, "2024-05-06 9:30")},
	}
	svc := newTestScheduleService(t, testDentists(), bookings)

	// Стоматолог 3 работает 8:00-16:00: 16 слотов, минус первый и обед
	schedule, err := svc.Generate(context.Background(), testDentists()[1], testMonday)
	require.NoError(t, err)

	assert.Len(t, schedule.TimeSlots, 13)
}

func TestGenerate_BookingOnOtherDateIgnored(t *testing.T) {
	bookings := []domain.Booking{
		{UserID: 1, RequestID: 2, DentistID: 1, Time: mustBookingTime(t, "2024-05-07 9:30")},
	}
	svc := newTestScheduleService(t, testDentists(), bookings)

	schedule, err := svc.Generate(context.Background(), testDentists()[0], testMonday)
	require.NoError(t, err)

	assert.Contains(t, slotStarts(schedule), "09:30")
}

func TestGenerate_WeekendIsEmpty(t *testing.T) {
	svc := newTestScheduleService(t, testDentists(), nil)

	// 2024-05-05 — воскресенье
	sunday := time.Date(2024, time.May, 5, 0, 0, 0, 0, time.UTC)
	schedule, err := svc.Generate(context.Background(), testDentists()[0], sunday)
	require.NoError(t, err)

	assert.Empty(t, schedule.TimeSlots)
}

func TestGenerate_MissingWeekdayHoursIsEmpty(t *testing.T) {
	dentist := domain.Dentist{
		ID:       7,
		Dentists: 1,
		OpeningHours: domain.OpeningHours{
			Tuesday: "9:00-17:00",
		},
	}
	svc := newTestScheduleService(t, []domain.Dentist{dentist}, nil)

	schedule, err := svc.Generate(context.Background(), dentist, testMonday)
	require.NoError(t, err)

	assert.Empty(t, schedule.TimeSlots)
}

func TestGenerate_MalformedHoursFails(t *testing.T) {
	dentist := domain.Dentist{
		ID:       7,
		Dentists: 1,
		OpeningHours: domain.OpeningHours{
			Monday: "whenever",
		},
	}
	svc := newTestScheduleService(t, []domain.Dentist{dentist}, nil)

	_, err := svc.Generate(context.Background(), dentist, testMonday)
	assert.Error(t, err)
}

func TestGenerateAll_SkipsMalformedDentistOnly(t *testing.T) {
	dentists := append(testDentists(), domain.Dentist{
		ID:       7,
		Dentists: 1,
		OpeningHours: domain.OpeningHours{
			Monday: "9am till late",
		},
	})
	svc := newTestScheduleService(t, dentists, nil)

	schedules := svc.GenerateAll(context.Background(), testMonday)

	// Битые часы работы валят только одно расписание
	require.Len(t, schedules, 2)
	assert.Equal(t, int64(1), schedules[0].DentistID)
	assert.Equal(t, int64(3), schedules[1].DentistID)
}

func TestGenerateTimeSlots_DropsRemainderWindow(t *testing.T) {
	open := time.Date(2024, time.May, 6, 9, 0, 0, 0, time.UTC)
	closing := time.Date(2024, time.May, 6, 9, 45, 0, 0, time.UTC)

	slots := generateTimeSlots(open, closing)

	// Окно 45 минут вмещает только один полный слот, хвост отбрасывается
	require.Len(t, slots, 1)
	assert.Equal(t, "09:00", slots[0].StartTime.Time.Format("15:04"))
}

func TestSetBreaks_OddHoursLunchPosition(t *testing.T) {
	open := time.Date(2024, time.May, 6, 9, 0, 0, 0, time.UTC)
	closing := time.Date(2024, time.May, 6, 16, 0, 0, 0, time.UTC)

	slots := generateTimeSlots(open, closing)
	require.Len(t, slots, 14)

	setBreaks(slots)

	// 7 часов работы, обед на 9:00 + 3 часа
	unavailable := make([]string, 0)
	for _, slot := range slots {
		if !slot.Available {
			unavailable = append(unavailable, slot.StartTime.Time.Format("15:04"))
		}
	}
	assert.ElementsMatch(t, []string{"09:00", "12:00", "12:30"}, unavailable)
}
