package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suchimauz/dentist-availability-filter/internal/core/domain"
	"github.com/suchimauz/dentist-availability-filter/internal/core/json_types"
)

func mustBookingTime(t *testing.T, raw string) json_types.BookingDateTime {
	t.Helper()
	parsed, err := json_types.NewBookingDateTime(raw)
	require.NoError(t, err)
	return parsed
}

func testDentists() []domain.Dentist {
	return []domain.Dentist{
		{
			ID:       1,
			Name:     "Tandläkare Happy Teeth",
			Dentists: 1,
			OpeningHours: domain.OpeningHours{
				Monday:    "9:00-17:00",
				Tuesday:   "9:00-17:00",
				Wednesday: "9:00-17:00",
				Thursday:  "9:00-17:00",
				Friday:    "9:00-15:00",
			},
		},
		{
			ID:       3,
			Name:     "Dentist Duo",
			Dentists: 2,
			OpeningHours: domain.OpeningHours{
				Monday: "8:00-16:00",
			},
		},
	}
}

func testRequest(t *testing.T, dentistID int64, timeStr string) domain.BookingRequest {
	t.Helper()
	return domain.BookingRequest{
		UserID:    12345,
		RequestID: 67890,
		DentistID: dentistID,
		Issuance:  1602406766314,
		Time:      mustBookingTime(t, timeStr),
	}
}

func TestDecide_AcceptsFreeSlot(t *testing.T) {
	bookings := []domain.Booking{
		{UserID: 1, RequestID: 2, DentistID: 1, Time: mustBookingTime(t, "2024-05-06 10:00")},
	}

	decision := decide(testRequest(t, 1, "2024-05-06 11:00"), testDentists(), bookings)

	assert.True(t, decision.Accepted)
}

func TestDecide_AcceptsWhenNoBookingsAtAll(t *testing.T) {
	decision := decide(testRequest(t, 1, "2024-05-06 10:00"), testDentists(), nil)

	assert.True(t, decision.Accepted)
}

func TestDecide_RejectsWhenCapacityReached(t *testing.T) {
	bookings := []domain.Booking{
		{UserID: 1, RequestID: 2, DentistID: 3, Time: mustBookingTime(t, "2024-05-06 10:00")},
		{UserID: 2, RequestID: 3, DentistID: 3, Time: mustBookingTime(t, "2024-05-06 10:00")},
	}

	// Вместимость 2, занято 2
	decision := decide(testRequest(t, 3, "2024-05-06 10:00"), testDentists(), bookings)

	require.False(t, decision.Accepted)
	assert.Equal(t, domain.RejectReasonUnavailable, decision.Reason)
}

func TestDecide_AcceptsWhenBelowCapacity(t *testing.T) {
	bookings := []domain.Booking{
		{UserID: 1, RequestID: 2, DentistID: 3, Time: mustBookingTime(t, "2024-05-06 10:00")},
	}

	// Вместимость 2, занято 1
	decision := decide(testRequest(t, 3, "2024-05-06 10:00"), testDentists(), bookings)

	assert.True(t, decision.Accepted)
}

func TestDecide_CapacityThreeAcceptsThirdBooking(t *testing.T) {
	dentists := testDentists()
	dentists[1].Dentists = 3

	bookings := []domain.Booking{
		{UserID: 1, RequestID: 2, DentistID: 3, Time: mustBookingTime(t, "2024-05-06 10:00")},
		{UserID: 2, RequestID: 3, DentistID: 3, Time: mustBookingTime(t, "2024-05-06 10:00")},
	}

	decision := decide(testRequest(t, 3, "2024-05-06 10:00"), dentists, bookings)

	assert.True(t, decision.Accepted)
}

func TestDecide_OtherDentistBookingDoesNotBlock(t *testing.T) {
	bookings := []domain.Booking{
		{UserID: 1, RequestID: 2, DentistID: 3, Time: mustBookingTime(t, "2024-05-06 10:00")},
	}

	decision := decide(testRequest(t, 1, "2024-05-06 10:00"), testDentists(), bookings)

	assert.True(t, decision.Accepted)
}

func TestDecide_RejectsUnknownDentist(t *testing.T) {
	decision := decide(testRequest(t, 99, "2024-05-06 10:00"), testDentists(), nil)

	require.False(t, decision.Accepted)
	assert.Equal(t, domain.RejectReasonInvalidRequest, decision.Reason)
}

func TestDecide_RejectsUnparsableTime(t *testing.T) {
	req := domain.BookingRequest{
		UserID:    12345,
		RequestID: 67890,
		DentistID: 1,
		Time:      json_types.BookingDateTime{Raw: "next tuesday"},
	}

	decision := decide(req, testDentists(), nil)

	require.False(t, decision.Accepted)
	assert.Equal(t, domain.RejectReasonInvalidRequest, decision.Reason)
}

func TestDecide_NormalizesTimeBeforeComparing(t *testing.T) {
	// "9:30" и "09:30" — одно и то же время после нормализации
	bookings := []domain.Booking{
		{UserID: 1, RequestID: 2, DentistID: 1, Time: mustBookingTime(t, "2024-05-06 09:30")},
	}

	decision := decide(testRequest(t, 1, "2024-05-06 9:30"), testDentists(), bookings)

	require.False(t, decision.Accepted)
	assert.Equal(t, domain.RejectReasonUnavailable, decision.Reason)
}

func TestDecide_IsIdempotentOnUnchangedSnapshot(t *testing.T) {
	bookings := []domain.Booking{
		{UserID: 1, RequestID: 2, DentistID: 3, Time: mustBookingTime(t, "2024-05-06 10:00")},
		{UserID: 2, RequestID: 3, DentistID: 3, Time: mustBookingTime(t, "2024-05-06 10:00")},
	}
	req := testRequest(t, 3, "2024-05-06 10:00")

	first := decide(req, testDentists(), bookings)
	second := decide(req, testDentists(), bookings)

	assert.Equal(t, first, second)
}

func TestDecide_RejectedMessageUsesSentinel(t *testing.T) {
	decision := decide(testRequest(t, 99, "2024-05-06 10:00"), testDentists(), nil)

	msg := decision.RejectedMessage()
	assert.Equal(t, domain.RejectedDentistSentinel, msg.DentistID)
	assert.Equal(t, "", msg.Time)
	assert.Equal(t, int64(12345), msg.UserID)
	assert.Equal(t, int64(67890), msg.RequestID)
}
