package out

import (
	"github.com/suchimauz/dentist-availability-filter/internal/core/domain"
)

// RegistryPort — материализованное представление реестров стоматологов и записей.
// Обновление всегда заменяет снимок целиком, частичных слияний нет.
// Читатели видят либо старый, либо новый снимок, никогда — промежуточный
type RegistryPort interface {
	ReplaceDentists(dentists []domain.Dentist)
	ReplaceBookings(bookings []domain.Booking)

	Dentists() []domain.Dentist
	Bookings() []domain.Booking
	DentistByID(id int64) (domain.Dentist, bool)
}
