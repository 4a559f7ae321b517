package cache

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/suchimauz/dentist-availability-filter/internal/config"
	"github.com/suchimauz/dentist-availability-filter/internal/core/domain"
	"github.com/suchimauz/dentist-availability-filter/internal/core/ports/out"
)

type scheduleKey struct {
	DentistID int64
	Day       string
}

// CacheAdapter — LRU-кэш сгенерированных расписаний по ключу (стоматолог, дата).
// Инвалидируется только целиком: любое обновление реестров делает
// все закэшированные расписания недействительными
type CacheAdapter struct {
	schedules *lru.Cache[scheduleKey, domain.Schedule]
	mu        sync.RWMutex
	logger    out.LoggerPort
}

func NewCacheAdapter(cfg *config.Config, logger out.LoggerPort) (*CacheAdapter, error) {
	if !cfg.Cache.Enabled {
		logger.Info("cache.disabled", out.LogFields{
			"message": "Cache is disabled",
		})
		return nil, nil
	}

	lruSchedules, err := lru.New[scheduleKey, domain.Schedule](cfg.Cache.SchedulesSize)
	if err != nil {
		logger.Error("cache.schedules.init.failed", out.LogFields{
			"error": err.Error(),
			"size":  cfg.Cache.SchedulesSize,
		})
		return nil, err
	}

	return &CacheAdapter{
		schedules: lruSchedules,
		logger:    logger.WithModule("CacheAdapter"),
	}, nil
}

func newScheduleKey(dentistID int64, date time.Time) scheduleKey {
	return scheduleKey{
		DentistID: dentistID,
		Day:       date.Format("2006-01-02"),
	}
}

func (c *CacheAdapter) GetSchedule(ctx context.Context, dentistID int64, date time.Time) (domain.Schedule, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	schedule, exists := c.schedules.Get(newScheduleKey(dentistID, date))
	if !exists {
		c.logger.Debug("cache.schedules.get.miss", out.LogFields{
			"dentistId": dentistID,
			"date":      date.Format("2006-01-02"),
		})
		return domain.Schedule{}, false
	}

	c.logger.Debug("cache.schedules.get.hit", out.LogFields{
		"dentistId":  dentistID,
		"date":       date.Format("2006-01-02"),
		"slotsCount": len(schedule.TimeSlots),
	})
	return schedule, true
}

func (c *CacheAdapter) StoreSchedule(ctx context.Context, dentistID int64, date time.Time, schedule domain.Schedule) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Debug("cache.schedules.store", out.LogFields{
		"dentistId":  dentistID,
		"date":       date.Format("2006-01-02"),
		"slotsCount": len(schedule.TimeSlots),
	})

	c.schedules.Add(newScheduleKey(dentistID, date), schedule)
}

func (c *CacheAdapter) InvalidateAll(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.schedules.Purge()

	c.logger.Debug("cache.schedules.invalidated", out.LogFields{})
}
