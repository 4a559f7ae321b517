package services

import (
	"context"

	"github.com/suchimauz/dentist-availability-filter/internal/core/domain"
	"github.com/suchimauz/dentist-availability-filter/internal/core/ports/out"
)

type DecisionService struct {
	registryPort out.RegistryPort
	logger       out.LoggerPort
}

func NewDecisionService(registryPort out.RegistryPort, logger out.LoggerPort) *DecisionService {
	return &DecisionService{
		registryPort: registryPort,
		logger:       logger.WithModule("DecisionService"),
	}
}

// Decide принимает решение по заявке на текущем снимке реестров.
// Решение детерминировано: одна и та же заявка на неизменном снимке
// всегда дает один и тот же результат
func (s *DecisionService) Decide(ctx context.Context, req domain.BookingRequest) domain.Decision {
	dentists := s.registryPort.Dentists()
	bookings := s.registryPort.Bookings()

	decision := decide(req, dentists, bookings)

	if decision.Accepted {
		s.logger.Info("decision.accepted", out.LogFields{
			"requestId": req.RequestID,
			"dentistId": req.DentistID,
			"time":      req.Time.Raw,
		})
	} else {
		s.logger.Info("decision.rejected", out.LogFields{
			"requestId": req.RequestID,
			"dentistId": req.DentistID,
			"reason":    decision.Reason,
		})
	}

	return decision
}

func decide(req domain.BookingRequest, dentists []domain.Dentist, bookings []domain.Booking) domain.Decision {
	// Заявка с непарсибельным временем или неизвестным стоматологом
	// отклоняется сразу, дальше не обрабатывается
	if req.Time.Date.IsZero() {
		return domain.NewRejectedDecision(req, domain.RejectReasonInvalidRequest)
	}
	dentist, known := findDentist(dentists, req.DentistID)
	if !known {
		return domain.NewRejectedDecision(req, domain.RejectReasonInvalidRequest)
	}

	// Пересечение ищется только по точному совпадению нормализованной строки
	// времени, интервалы и таймзоны не учитываются
	requestTime := req.Time.Normalized()
	occupied := 0
	for _, booking := range bookings {
		if booking.DentistID == req.DentistID && booking.Time.Normalized() == requestTime {
			occupied++
		}
	}

	if occupied == 0 {
		return domain.NewAcceptedDecision(req)
	}

	// Слот уже занят: сверяем число совпадающих записей с количеством
	// врачей клиники
	if int64(occupied) < dentist.Dentists {
		return domain.NewAcceptedDecision(req)
	}

	return domain.NewRejectedDecision(req, domain.RejectReasonUnavailable)
}

func findDentist(dentists []domain.Dentist, id int64) (domain.Dentist, bool) {
	for _, dentist := range dentists {
		if dentist.ID == id {
			return dentist, true
		}
	}
	return domain.Dentist{}, false
}
