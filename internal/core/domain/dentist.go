package domain

import "time"

type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// OpeningHours — часы работы по будням, строки вида "H:mm-H:mm".
// Выходные дни не поддерживаются: на субботу и воскресенье расписание не строится
type OpeningHours struct {
	Monday    string `json:"monday"`
	Tuesday   string `json:"tuesday"`
	Wednesday string `json:"wednesday"`
	Thursday  string `json:"thursday"`
	Friday    string `json:"friday"`
}

func (o OpeningHours) ForWeekday(weekday time.Weekday) (string, bool) {
	var hours string

	switch weekday {
	case time.Monday:
		hours = o.Monday
	case time.Tuesday:
		hours = o.Tuesday
	case time.Wednesday:
		hours = o.Wednesday
	case time.Thursday:
		hours = o.Thursday
	case time.Friday:
		hours = o.Friday
	default:
		return "", false
	}

	if hours == "" {
		return "", false
	}
	return hours, true
}

// Dentist — стоматологическая клиника. Поле Dentists — количество врачей,
// оно же вместимость одного слота времени
type Dentist struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Owner        string       `json:"owner"`
	Dentists     int64        `json:"dentists"`
	Address      string       `json:"address"`
	City         string       `json:"city"`
	Coordinate   Coordinate   `json:"coordinate"`
	OpeningHours OpeningHours `json:"openinghours"`
}
