package services

import "github.com/suchimauz/dentist-availability-filter/internal/core/domain"

type TimeSlotSlice []domain.TimeSlot

// quickSort — сортировка слотов по времени начала по возрастанию
func (s TimeSlotSlice) quickSort() TimeSlotSlice {
	if len(s) < 2 {
		return s
	}

	// Выбираем опорный элемент
	pivot := s[len(s)/2]

	// Разделяем слайс на три части
	less := TimeSlotSlice{}
	equal := TimeSlotSlice{}
	greater := TimeSlotSlice{}

	for _, slot := range s {
		if slot.StartTime.Time.Before(pivot.StartTime.Time) {
			less = append(less, slot)
		} else if slot.StartTime.Time.Equal(pivot.StartTime.Time) {
			equal = append(equal, slot)
		} else {
			greater = append(greater, slot)
		}
	}

	// Рекурсивно сортируем подмассивы и объединяем их
	return append(append(less.quickSort(), equal...), greater.quickSort()...)
}
