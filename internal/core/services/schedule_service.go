package services

import (
	"context"
	"time"

	"github.com/suchimauz/dentist-availability-filter/internal/config"
	"github.com/suchimauz/dentist-availability-filter/internal/core/domain"
	"github.com/suchimauz/dentist-availability-filter/internal/core/json_types"
	"github.com/suchimauz/dentist-availability-filter/internal/core/ports/out"
)

type ScheduleService struct {
	registryPort out.RegistryPort
	cachePort    out.CachePort
	logger       out.LoggerPort
	cfg          *config.Config
}

func NewScheduleService(
	registryPort out.RegistryPort,
	cachePort out.CachePort,
	cfg *config.Config,
	logger out.LoggerPort,
) *ScheduleService {
	return &ScheduleService{
		registryPort: registryPort,
		cachePort:    cachePort,
		cfg:          cfg,
		logger:       logger.WithModule("ScheduleService"),
	}
}

// GenerateAll строит расписания всех известных стоматологов на дату.
// Ошибка разбора часов работы фатальна только для расписания этого
// стоматолога: оно пропускается, остальные генерируются дальше
func (s *ScheduleService) GenerateAll(ctx context.Context, date time.Time) []domain.Schedule {
	dentists := s.registryPort.Dentists()
	schedules := make([]domain.Schedule, 0, len(dentists))

	s.logger.Info("schedules.generate.started", out.LogFields{
		"date":          date.Format("2006-01-02"),
		"dentistsCount": len(dentists),
	})

	for _, dentist := range dentists {
		// Проверяем кэш только если он включен
		if s.cachePort != nil && s.cfg.Cache.Enabled {
			if schedule, exists := s.cachePort.GetSchedule(ctx, dentist.ID, date); exists {
				s.logger.Debug("schedules.generate.cache.hit", out.LogFields{
					"dentistId": dentist.ID,
				})
				schedules = append(schedules, schedule)
				continue
			}
		}

		schedule, err := s.Generate(ctx, dentist, date)
		if err != nil {
			s.logger.Warn("schedules.generate.dentist.skipped", out.LogFields{
				"dentistId": dentist.ID,
				"error":     err.Error(),
			})
			continue
		}

		if s.cachePort != nil && s.cfg.Cache.Enabled {
			s.cachePort.StoreSchedule(ctx, dentist.ID, date, schedule)
		}

		schedules = append(schedules, schedule)
	}

	return schedules
}

// Generate строит расписание одного стоматолога на дату.
// В выходные и дни без часов работы возвращается пустое расписание
func (s *ScheduleService) Generate(ctx context.Context, dentist domain.Dentist, date time.Time) (domain.Schedule, error) {
	schedule := domain.Schedule{
		DentistID: dentist.ID,
		Date:      json_types.Date{Date: date},
		TimeSlots: []domain.TimeSlot{},
	}

	hours, open := dentist.OpeningHours.ForWeekday(date.Weekday())
	if !open {
		return schedule, nil
	}

	openTime, closeTime, err := parseOpeningHours(hours, date)
	if err != nil {
		return domain.Schedule{}, err
	}

	slots := generateTimeSlots(openTime, closeTime)
	if len(slots) == 0 {
		return schedule, nil
	}

	setBreaks(slots)
	markBookedSlots(slots, dentist.ID, date, s.registryPort.Bookings())

	available := make([]domain.TimeSlot, 0, len(slots))
	for _, slot := range slots {
		if slot.Available {
			available = append(available, slot)
		}
	}

	schedule.TimeSlots = TimeSlotSlice(available).quickSort()
	return schedule, nil
}
