package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Payment settles exactly one appointment. Amount is copied from the appointment fee.
type Payment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AppointmentID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	PatientID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	DoctorID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Method        string          `gorm:"type:varchar(50);not null"`
	TransactionID string          `gorm:"type:varchar(100)"`
	Status        PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending'"`
	Date          time.Time       `gorm:"not null"`
}

func (Payment) TableName() string {
	return "payments"
}
