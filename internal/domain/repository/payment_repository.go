package repository

import (
	"context"

	"medcare-api/internal/domain/entity"
)

type PaymentRepository interface {
	// CreateForAppointment inserts payment and links it to its appointment in one transaction.
	// It returns ErrAppointmentAlreadyPaid when the appointment already carries a payment.
	CreateForAppointment(ctx context.Context, payment *entity.Payment) error
}
