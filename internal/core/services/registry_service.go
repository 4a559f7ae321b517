package services

import (
	"context"

	"github.com/suchimauz/dentist-availability-filter/internal/core/domain"
	"github.com/suchimauz/dentist-availability-filter/internal/core/ports/out"
)

type RegistryService struct {
	registryPort out.RegistryPort
	cachePort    out.CachePort
	logger       out.LoggerPort
}

func NewRegistryService(registryPort out.RegistryPort, cachePort out.CachePort, logger out.LoggerPort) *RegistryService {
	return &RegistryService{
		registryPort: registryPort,
		cachePort:    cachePort,
		logger:       logger.WithModule("RegistryService"),
	}
}

func (s *RegistryService) ReplaceDentists(ctx context.Context, dentists []domain.Dentist) {
	s.registryPort.ReplaceDentists(dentists)

	// Новый реестр — старые расписания недействительны
	if s.cachePort != nil {
		s.cachePort.InvalidateAll(ctx)
	}

	s.logger.Info("registry.dentists.replaced", out.LogFields{
		"count": len(dentists),
	})
}

func (s *RegistryService) ReplaceBookings(ctx context.Context, bookings []domain.Booking) {
	s.registryPort.ReplaceBookings(bookings)

	if s.cachePort != nil {
		s.cachePort.InvalidateAll(ctx)
	}

	s.logger.Info("registry.bookings.replaced", out.LogFields{
		"count": len(bookings),
	})
}
