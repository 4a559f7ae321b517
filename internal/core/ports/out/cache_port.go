package out

import (
	"context"
	"time"

	"github.com/suchimauz/dentist-availability-filter/internal/core/domain"
)

// CachePort — кэш сгенерированных расписаний по ключу (стоматолог, дата).
// Любая замена реестра инвалидирует кэш целиком: расписание детерминировано
// только при неизменном снимке реестров
type CachePort interface {
	GetSchedule(ctx context.Context, dentistID int64, date time.Time) (domain.Schedule, bool)
	StoreSchedule(ctx context.Context, dentistID int64, date time.Time, schedule domain.Schedule)
	InvalidateAll(ctx context.Context)
}
