package repository

import (
	"context"
	"time"

	"medcare-api/internal/domain/entity"

	"github.com/google/uuid"
)

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *entity.Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	FindUpcomingPaidByDoctor(ctx context.Context, doctorID uuid.UUID, from time.Time) ([]entity.Appointment, error)
	FindCompletedByDoctor(ctx context.Context, doctorID uuid.UUID) ([]entity.Appointment, error)
	FindByPatient(ctx context.Context, patientID uuid.UUID) ([]entity.Appointment, error)
	FindUnpaidByPatient(ctx context.Context, patientID uuid.UUID) ([]entity.Appointment, error)
	FindUnpaid(ctx context.Context) ([]entity.Appointment, error)
	// FindWithFeedback lists appointments carrying feedback. A nil doctorID lists all doctors.
	FindWithFeedback(ctx context.Context, doctorID *uuid.UUID) ([]entity.Appointment, error)
	MarkCompleted(ctx context.Context, id uuid.UUID) error
	UpdateFeedback(ctx context.Context, id uuid.UUID, feedback bool, review string, rating *int) error
	Delete(ctx context.Context, id uuid.UUID) error
}
