package json_types

import (
	"encoding/json"
	"fmt"
	"time"
)

// BookingTimeLayout — формат времени записи, приходит от внешних компонентов
// в виде "yyyy-MM-dd H:mm", час может быть без ведущего нуля
const BookingTimeLayout = "2006-01-02 15:04"

// BookingDateTime хранит и исходную строку, и распарсенное время.
// Сравнение занятости слотов идет по нормализованной строке,
// поэтому исходное представление терять нельзя
type BookingDateTime struct {
	Raw  string
	Date time.Time
}

func NewBookingDateTime(raw string) (BookingDateTime, error) {
	parsed, err := time.Parse(BookingTimeLayout, raw)
	if err != nil {
		return BookingDateTime{}, fmt.Errorf("failed to parse booking time %q: %v", raw, err)
	}
	return BookingDateTime{Raw: raw, Date: parsed}, nil
}

func (t *BookingDateTime) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	parsed, err := NewBookingDateTime(str)
	if err != nil {
		// Непарсибельное время не валит десериализацию целиком:
		// валидация на границе увидит нулевую дату и отклонит заявку,
		// сохранив идентификаторы для ответа
		*t = BookingDateTime{Raw: str}
		return nil
	}

	*t = parsed
	return nil
}

func (t BookingDateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Raw)
}

// Normalized возвращает каноничное строковое представление времени записи
func (t BookingDateTime) Normalized() string {
	if t.Date.IsZero() {
		return t.Raw
	}
	return t.Date.Format(BookingTimeLayout)
}

func (t BookingDateTime) IsZero() bool {
	return t.Raw == "" && t.Date.IsZero()
}
