package resilience

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

type State string

const (
	StateClosed   State = "CLOSED"
	StateOpen     State = "OPEN"
	StateHalfOpen State = "HALF_OPEN"
)

// ErrOpenState возвращается при разомкнутой цепи: вызов отклонен без
// обращения к защищаемому сервису. Отличим от обычного бизнес-отказа
var ErrOpenState = errors.New("circuit breaker is open")

type callOutcome int

const (
	outcomeSuccess callOutcome = iota
	outcomeFailure
	outcomeSlow
)

type Settings struct {
	// Размер скользящего окна (по количеству вызовов)
	WindowSize int
	// Минимум вызовов в окне, до которого процент отказов не оценивается
	MinimumCalls int
	// Порог процента отказов, при превышении которого цепь размыкается
	FailureRateThreshold float64
	// Вызовы дольше этого порога считаются отказами, даже успешные
	SlowCallThreshold time.Duration
	// Сколько ждать в разомкнутом состоянии до пробных вызовов
	OpenWait time.Duration
	// Сколько пробных вызовов пропустить в полуоткрытом состоянии
	HalfOpenCalls int
}

// CircuitBreaker — классический трехпозиционный автомат
// CLOSED -> OPEN -> HALF_OPEN со скользящим окном последних исходов.
// Все переходы и запись исходов защищены одним мьютексом
type CircuitBreaker struct {
	settings Settings

	mu              sync.Mutex
	state           State
	window          []callOutcome
	windowIdx       int
	windowCount     int
	openedAt        time.Time
	halfOpenAllowed int
	halfOpenDone    int
	halfOpenFailed  int

	// Подменяется в тестах
	now func() time.Time
}

func NewCircuitBreaker(settings Settings) *CircuitBreaker {
	return &CircuitBreaker{
		settings: settings,
		state:    StateClosed,
		window:   make([]callOutcome, settings.WindowSize),
		now:      time.Now,
	}
}

// Execute прогоняет вызов через автомат. При разомкнутой цепи вызов
// не выполняется и возвращается ErrOpenState. Паника внутри вызова
// перехватывается и учитывается как отказ
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if err := cb.acquire(); err != nil {
		return err
	}

	started := cb.now()
	err := runGuarded(fn)
	cb.record(err, cb.now().Sub(started))

	return err
}

func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	// Истекшее ожидание видно снаружи как полуоткрытое состояние
	if cb.state == StateOpen && cb.now().Sub(cb.openedAt) >= cb.settings.OpenWait {
		return StateHalfOpen
	}
	return cb.state
}

func runGuarded(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in guarded call: %v", r)
		}
	}()

	return fn()
}

func (cb *CircuitBreaker) acquire() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return nil
	case StateOpen:
		// После паузы пропускаем пробные вызовы
		if cb.now().Sub(cb.openedAt) >= cb.settings.OpenWait {
			cb.toHalfOpen()
			cb.halfOpenAllowed--
			return nil
		}
		return ErrOpenState
	case StateHalfOpen:
		if cb.halfOpenAllowed > 0 {
			cb.halfOpenAllowed--
			return nil
		}
		return ErrOpenState
	}

	return nil
}

func (cb *CircuitBreaker) record(err error, elapsed time.Duration) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	outcome := outcomeSuccess
	if err != nil {
		outcome = outcomeFailure
	} else if cb.settings.SlowCallThreshold > 0 && elapsed > cb.settings.SlowCallThreshold {
		outcome = outcomeSlow
	}

	switch cb.state {
	case StateClosed:
		cb.push(outcome)
		if cb.windowCount >= cb.settings.MinimumCalls && cb.failureRate() > cb.settings.FailureRateThreshold {
			cb.toOpen()
		}
	case StateHalfOpen:
		cb.halfOpenDone++
		if outcome != outcomeSuccess {
			cb.halfOpenFailed++
		}
		// Решение принимается после завершения всех пробных вызовов
		if cb.halfOpenDone >= cb.settings.HalfOpenCalls {
			rate := float64(cb.halfOpenFailed) / float64(cb.halfOpenDone) * 100
			if rate < cb.settings.FailureRateThreshold {
				cb.toClosed()
			} else {
				cb.toOpen()
			}
		}
	}
}

func (cb *CircuitBreaker) push(outcome callOutcome) {
	cb.window[cb.windowIdx] = outcome
	cb.windowIdx = (cb.windowIdx + 1) % len(cb.window)
	if cb.windowCount < len(cb.window) {
		cb.windowCount++
	}
}

func (cb *CircuitBreaker) failureRate() float64 {
	if cb.windowCount == 0 {
		return 0
	}

	failed := 0
	for i := 0; i < cb.windowCount; i++ {
		if cb.window[i] != outcomeSuccess {
			failed++
		}
	}
	return float64(failed) / float64(cb.windowCount) * 100
}

func (cb *CircuitBreaker) toOpen() {
	cb.state = StateOpen
	cb.openedAt = cb.now()
	cb.resetWindow()
}

func (cb *CircuitBreaker) toHalfOpen() {
	cb.state = StateHalfOpen
	cb.halfOpenAllowed = cb.settings.HalfOpenCalls
	cb.halfOpenDone = 0
	cb.halfOpenFailed = 0
}

func (cb *CircuitBreaker) toClosed() {
	cb.state = StateClosed
	cb.resetWindow()
}

func (cb *CircuitBreaker) resetWindow() {
	cb.windowIdx = 0
	cb.windowCount = 0
}
