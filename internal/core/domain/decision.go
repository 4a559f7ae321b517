package domain

type RejectReason string

const (
	// Слот занят, либо запрошенный стоматолог неизвестен
	RejectReasonUnavailable RejectReason = "unavailable"
	// Заявка не прошла валидацию на границе
	RejectReasonInvalidRequest RejectReason = "invalid-request"
	// Цепь разомкнута, движок решений не вызывался
	RejectReasonServiceDegraded RejectReason = "service-degraded"
	// Движок решений упал во время обработки
	RejectReasonError RejectReason = "error"
)

// RejectedDentistSentinel подставляется в dentistid отклоненного ответа
const RejectedDentistSentinel = "none"

// Decision — единственный наблюдаемый результат движка решений.
// Промежуточных и отложенных состояний не бывает
type Decision struct {
	Accepted bool
	Request  BookingRequest
	Reason   RejectReason
}

func NewAcceptedDecision(req BookingRequest) Decision {
	return Decision{
		Accepted: true,
		Request:  req,
	}
}

func NewRejectedDecision(req BookingRequest, reason RejectReason) Decision {
	return Decision{
		Accepted: false,
		Request:  req,
		Reason:   reason,
	}
}

// AcceptedBookingMessage — полное эхо принятой заявки для топика successful-booking
type AcceptedBookingMessage struct {
	UserID    int64  `json:"userid"`
	RequestID int64  `json:"requestid"`
	DentistID int64  `json:"dentistid"`
	Issuance  int64  `json:"issuance"`
	Time      string `json:"time"`
}

// RejectedBookingMessage — ответ для топика booking-response.
// Идентификатор стоматолога заменяется на сентинел "none", время пустое.
// Поле reason позволяет вышестоящей логике отличить занятый слот
// от деградации сервиса
type RejectedBookingMessage struct {
	UserID    int64        `json:"userid"`
	RequestID int64        `json:"requestid"`
	DentistID string       `json:"dentistid"`
	Time      string       `json:"time"`
	Reason    RejectReason `json:"reason"`
}

func (d Decision) AcceptedMessage() AcceptedBookingMessage {
	return AcceptedBookingMessage{
		UserID:    d.Request.UserID,
		RequestID: d.Request.RequestID,
		DentistID: d.Request.DentistID,
		Issuance:  d.Request.Issuance,
		Time:      d.Request.Time.Raw,
	}
}

func (d Decision) RejectedMessage() RejectedBookingMessage {
	return RejectedBookingMessage{
		UserID:    d.Request.UserID,
		RequestID: d.Request.RequestID,
		DentistID: RejectedDentistSentinel,
		Time:      "",
		Reason:    d.Reason,
	}
}
