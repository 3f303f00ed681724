package usecase

import (
	"context"
	"errors"
	"time"

	"medcare-api/internal/converter"
	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/domain/entity"
	"medcare-api/internal/domain/repository"
	"medcare-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrAppointmentAlreadyPaid = errors.New("appointment already paid")

type PaymentUsecase interface {
	AcceptPayment(ctx context.Context, staffID uuid.UUID, req *dto.AcceptPaymentRequest) (*dto.PaymentResponse, error)
	PendingPayments(ctx context.Context) ([]dto.AppointmentResponse, error)
}

type paymentUsecase struct {
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	paymentRepo     repository.PaymentRepository
	auditService    service.AuditService
	now             func() time.Time
}

func NewPaymentUsecase(
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	paymentRepo repository.PaymentRepository,
	auditService service.AuditService,
) PaymentUsecase {
	return &paymentUsecase{
		log:             log,
		appointmentRepo: appointmentRepo,
		paymentRepo:     paymentRepo,
		auditService:    auditService,
		now:             time.Now,
	}
}

// AcceptPayment records a completed payment for the appointment's fee. A second
// payment for the same appointment is rejected with ErrAppointmentAlreadyPaid.
func (u *paymentUsecase) AcceptPayment(ctx context.Context, staffID uuid.UUID, req *dto.AcceptPaymentRequest) (*dto.PaymentResponse, error) {
	appointmentID, err := uuid.Parse(req.AppointmentID)
	if err != nil {
		return nil, ErrAppointmentNotFound
	}

	appointment, err := u.appointmentRepo.FindByID(ctx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.IsPaid() {
		return nil, ErrAppointmentAlreadyPaid
	}

	payment := &entity.Payment{
		ID:            uuid.New(),
		AppointmentID: appointment.ID,
		PatientID:     appointment.PatientID,
		DoctorID:      appointment.DoctorID,
		Amount:        appointment.Fee,
		Method:        req.PaymentMethod,
		TransactionID: req.TransactionID,
		Status:        entity.PaymentStatusCompleted,
		Date:          u.now(),
	}

	if err := u.paymentRepo.CreateForAppointment(ctx, payment); err != nil {
		if errors.Is(err, repository.ErrAppointmentAlreadyPaid) {
			return nil, ErrAppointmentAlreadyPaid
		}
		u.log.Warnf("Failed to record payment: %+v", err)
		return nil, err
	}

	u.auditService.LogCreate(ctx, &staffID, entity.AuditActionPaymentAccept, "payment", payment.ID.String(),
		map[string]interface{}{"aptid": appointment.ID, "amount": payment.Amount.String(), "method": payment.Method})

	return converter.PaymentToResponse(payment), nil
}

func (u *paymentUsecase) PendingPayments(ctx context.Context) ([]dto.AppointmentResponse, error) {
	appointments, err := u.appointmentRepo.FindUnpaid(ctx)
	if err != nil {
		u.log.Warnf("Failed to find unpaid appointments: %+v", err)
		return nil, err
	}
	return converter.AppointmentsToResponses(appointments), nil
}
