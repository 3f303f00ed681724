package repository

import (
	"context"

	"medcare-api/internal/domain/entity"

	"github.com/google/uuid"
)

type PrescriptionRepository interface {
	Create(ctx context.Context, prescription *entity.Prescription) error
	FindByDoctor(ctx context.Context, doctorID uuid.UUID) ([]entity.Prescription, error)
	FindByPatient(ctx context.Context, patientID uuid.UUID) ([]entity.Prescription, error)
}
