package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/suchimauz/dentist-availability-filter/internal/core/domain"
	"github.com/suchimauz/dentist-availability-filter/internal/core/json_types"
)

// parseOpeningHours разбирает строку "H:mm-H:mm" в открытие и закрытие,
// привязанные к дате расписания
func parseOpeningHours(hours string, date time.Time) (time.Time, time.Time, error) {
	parts := strings.Split(hours, "-")
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid opening hours: %q", hours)
	}

	openClock, err := time.Parse("15:04", strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid opening time %q: %v", parts[0], err)
	}
	closeClock, err := time.Parse("15:04", strings.TrimSpace(parts[1]))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid closing time %q: %v", parts[1], err)
	}

	openTime := atDate(date, openClock)
	closeTime := atDate(date, closeClock)
	if !openTime.Before(closeTime) {
		return time.Time{}, time.Time{}, fmt.Errorf("opening hours out of order: %q", hours)
	}

	return openTime, closeTime, nil
}

func atDate(date time.Time, clock time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, date.Location())
}

// generateTimeSlots нарезает окно работы на слоты фиксированной длины.
// Окно должно делиться на длину слота нацело, неполный хвост отбрасывается
func generateTimeSlots(openTime, closeTime time.Time) []domain.TimeSlot {
	slots := make([]domain.TimeSlot, 0)

	for start := openTime; !start.Add(domain.SlotDuration).After(closeTime); start = start.Add(domain.SlotDuration) {
		slots = append(slots, domain.TimeSlot{
			StartTime: json_types.ClockTime{Time: start},
			EndTime:   json_types.ClockTime{Time: start.Add(domain.SlotDuration)},
			Available: true,
		})
	}

	return slots
}

// setBreaks помечает недоступными фиксированные перерывы.
// Обед — час в середине рабочего окна (целочисленное деление часов),
// фика — всегда первый слот дня. Позиция обеда пересчитывается от часов
// работы на каждый вызов и сдвигается при их изменении
func setBreaks(slots []domain.TimeSlot) {
	if len(slots) == 0 {
		return
	}

	start := slots[0].StartTime.Time
	end := slots[len(slots)-1].EndTime.Time

	hoursOpen := int(end.Sub(start).Hours())
	lunchStart := start.Add(time.Duration(hoursOpen/2) * time.Hour)

	for i := 0; i < len(slots)-1; i++ {
		if slots[i].StartTime.Time.Equal(lunchStart) {
			slots[i].Available = false
			slots[i+1].Available = false
			break
		}
	}

	slots[0].Available = false
}

// markBookedSlots помечает занятыми слоты, на начало которых приходится
// подтвержденная запись этого стоматолога на эту дату
func markBookedSlots(slots []domain.TimeSlot, dentistID int64, date time.Time, bookings []domain.Booking) {
	year, month, day := date.Date()

	for _, booking := range bookings {
		if booking.DentistID != dentistID || booking.Time.Date.IsZero() {
			continue
		}

		bookingYear, bookingMonth, bookingDay := booking.Time.Date.Date()
		if bookingYear != year || bookingMonth != month || bookingDay != day {
			continue
		}

		bookingStart := time.Date(year, month, day,
			booking.Time.Date.Hour(), booking.Time.Date.Minute(), 0, 0, date.Location())

		for i := range slots {
			if slots[i].StartTime.Time.Equal(bookingStart) {
				slots[i].Available = false
			}
		}
	}
}
