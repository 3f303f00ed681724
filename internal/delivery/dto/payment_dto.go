package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AcceptPaymentRequest struct {
	AppointmentID string `json:"aptid" validate:"required,uuid"`
	PaymentMethod string `json:"paymentMethod" validate:"required,max=50"`
	TransactionID string `json:"transactionId" validate:"omitempty,max=100"`
}

type PaymentResponse struct {
	ID            uuid.UUID       `json:"id"`
	AppointmentID uuid.UUID       `json:"aptid"`
	PatientID     uuid.UUID       `json:"patid"`
	DoctorID      uuid.UUID       `json:"docid"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"paymentMethod"`
	TransactionID string          `json:"transactionId,omitempty"`
	Status        string          `json:"status"`
	Date          time.Time       `json:"date"`
}
