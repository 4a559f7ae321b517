package domain

import (
	"github.com/suchimauz/dentist-availability-filter/internal/core/json_types"
)

// Booking — подтвержденная запись из реестра записей.
// Коллекция записей заменяется целиком при каждом обновлении реестра
type Booking struct {
	UserID    int64                      `json:"userid"`
	RequestID int64                      `json:"requestid"`
	DentistID int64                      `json:"dentistid"`
	Issuance  int64                      `json:"issuance"`
	Time      json_types.BookingDateTime `json:"time"`
}

// BookingRequest — входящая заявка на запись, еще не прошедшая проверку доступности
type BookingRequest struct {
	UserID    int64                      `json:"userid"`
	RequestID int64                      `json:"requestid"`
	DentistID int64                      `json:"dentistid"`
	Issuance  int64                      `json:"issuance"`
	Time      json_types.BookingDateTime `json:"time"`
}
