package json_types

import (
	"encoding/json"
	"fmt"
	"time"
)

// Date — календарная дата без времени, формат "yyyy-MM-dd"
type Date struct {
	Date time.Time
}

func ParseDate(str string) (time.Time, error) {
	parsedDate, err := time.Parse("2006-01-02", str)
	if err != nil {
		// Пробуем дату со временем, на случай если прислали полный timestamp
		parsedDate, err = time.Parse(BookingTimeLayout, str)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date: %v", err)
		}
	}

	return parsedDate, nil
}

func (t *Date) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	parsedDate, err := ParseDate(str)
	if err != nil {
		return err
	}

	*t = Date{Date: parsedDate}
	return nil
}

func (t Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Date.Format("2006-01-02"))
}
