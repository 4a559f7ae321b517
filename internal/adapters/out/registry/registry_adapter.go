package registry

import (
	"sync"

	"github.com/suchimauz/dentist-availability-filter/internal/core/domain"
	"github.com/suchimauz/dentist-availability-filter/internal/core/ports/out"
)

// RegistryAdapter — in-memory представление реестров.
// Снимки заменяются целиком под мьютексом (copy-on-write): читатели
// получают ссылку на неизменяемый слайс и никогда не видят
// наполовину примененное обновление
type RegistryAdapter struct {
	mu       sync.RWMutex
	dentists []domain.Dentist
	bookings []domain.Booking
	logger   out.LoggerPort
}

func NewRegistryAdapter(logger out.LoggerPort) *RegistryAdapter {
	return &RegistryAdapter{
		dentists: []domain.Dentist{},
		bookings: []domain.Booking{},
		logger:   logger.WithModule("RegistryAdapter"),
	}
}

func (r *RegistryAdapter) ReplaceDentists(dentists []domain.Dentist) {
	// Копируем, чтобы снимок не зависел от слайса вызывающего
	snapshot := make([]domain.Dentist, len(dentists))
	copy(snapshot, dentists)

	r.mu.Lock()
	r.dentists = snapshot
	r.mu.Unlock()

	r.logger.Debug("registry.dentists.swapped", out.LogFields{
		"count": len(snapshot),
	})
}

func (r *RegistryAdapter) ReplaceBookings(bookings []domain.Booking) {
	snapshot := make([]domain.Booking, len(bookings))
	copy(snapshot, bookings)

	r.mu.Lock()
	r.bookings = snapshot
	r.mu.Unlock()

	r.logger.Debug("registry.bookings.swapped", out.LogFields{
		"count": len(snapshot),
	})
}

func (r *RegistryAdapter) Dentists() []domain.Dentist {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.dentists
}

func (r *RegistryAdapter) Bookings() []domain.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bookings
}

func (r *RegistryAdapter) DentistByID(id int64) (domain.Dentist, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, dentist := range r.dentists {
		if dentist.ID == id {
			return dentist, true
		}
	}
	return domain.Dentist{}, false
}
