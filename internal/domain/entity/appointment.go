package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire and storage format of appointment dates.
const DateLayout = "2006-01-02"

type Appointment struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PatientID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	DoctorID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	PatientName string          `gorm:"type:varchar(200);not null"`
	DoctorName  string          `gorm:"type:varchar(200);not null"`
	Date        time.Time       `gorm:"type:date;not null;index"`
	Fee         decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	PaymentID   *uuid.UUID      `gorm:"type:uuid"`
	Completed   bool            `gorm:"not null;default:false"`
	Feedback    bool            `gorm:"not null;default:false"`
	Review      string          `gorm:"type:text"`
	Rating      *int
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsPaid reports whether a payment has been recorded against the appointment.
func (a *Appointment) IsPaid() bool {
	return a.PaymentID != nil
}
