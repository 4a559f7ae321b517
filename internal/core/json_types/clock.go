package json_types

import (
	"encoding/json"
	"fmt"
	"time"
)

// ClockTime — время без даты, формат "H:mm".
// Используется для границ слотов в расписании
type ClockTime struct {
	Time time.Time
}

func (t *ClockTime) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	parsedTime, err := time.Parse("15:04", str)
	if err != nil {
		return fmt.Errorf("failed to parse clock time: %v", err)
	}
	*t = ClockTime{Time: parsedTime}
	return nil
}

func (t ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format("15:04"))
}
