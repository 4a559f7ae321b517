package domain

import (
	"time"

	"github.com/suchimauz/dentist-availability-filter/internal/core/json_types"
)

// SlotDuration — фиксированная длина слота записи
const SlotDuration = 30 * time.Minute

type TimeSlot struct {
	StartTime json_types.ClockTime `json:"startTime"`
	EndTime   json_types.ClockTime `json:"endTime"`
	Available bool                 `json:"-"`
}

// Schedule — расписание одного стоматолога на одну дату.
// Наружу отдается уже отфильтрованный список свободных слотов
type Schedule struct {
	DentistID int64           `json:"dentist"`
	Date      json_types.Date `json:"date"`
	TimeSlots []TimeSlot      `json:"timeSlots"`
}
