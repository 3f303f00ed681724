package repository

import (
	"context"
	"errors"

	"medcare-api/internal/domain/entity"
	domainRepo "medcare-api/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) domainRepo.PaymentRepository {
	return &paymentRepository{db: db}
}

// CreateForAppointment claims the appointment with a conditional update before inserting
// the payment, so two concurrent acceptances cannot both succeed.
func (r *paymentRepository) CreateForAppointment(ctx context.Context, payment *entity.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.Appointment{}).
			Where("id = ? AND payment_id IS NULL", payment.AppointmentID).
			Update("payment_id", payment.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainRepo.ErrAppointmentAlreadyPaid
		}

		if err := tx.Create(payment).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return domainRepo.ErrAppointmentAlreadyPaid
			}
			return err
		}
		return nil
	})
}
