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

var (
	ErrAppointmentNotFound       = errors.New("appointment not found")
	ErrPatientNotFound           = errors.New("patient not found")
	ErrDoctorNotFound            = errors.New("doctor not found")
	ErrInvalidDateFormat         = errors.New("invalid date format, use YYYY-MM-DD")
	ErrNotAppointmentOwner       = errors.New("appointment belongs to another patient")
	ErrAppointmentNotCompleted   = errors.New("appointment is not completed yet")
	ErrAppointmentNotCancellable = errors.New("paid or completed appointments cannot be cancelled")
)

type AppointmentUsecase interface {
	Book(ctx context.Context, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error)
	MarkCompleted(ctx context.Context, appointmentID uuid.UUID) error
	DoctorAppointments(ctx context.Context, doctorID uuid.UUID) ([]dto.AppointmentResponse, error)
	PatientAppointments(ctx context.Context, patientID uuid.UUID) ([]dto.AppointmentResponse, error)
	DuePayments(ctx context.Context, patientID uuid.UUID) ([]dto.AppointmentResponse, error)
	Cancel(ctx context.Context, patientID, appointmentID uuid.UUID) error
	WriteFeedback(ctx context.Context, patientID uuid.UUID, req *dto.WriteFeedbackRequest) (*dto.AppointmentResponse, error)
	DeleteFeedback(ctx context.Context, patientID, appointmentID uuid.UUID) error
	DoctorFeedbacks(ctx context.Context, doctorID uuid.UUID) ([]dto.FeedbackResponse, error)
}

type appointmentUsecase struct {
	log             *logrus.Logger
	userRepo        repository.UserRepository
	appointmentRepo repository.AppointmentRepository
	auditService    service.AuditService
	now             func() time.Time
}

func NewAppointmentUsecase(
	log *logrus.Logger,
	userRepo repository.UserRepository,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
) AppointmentUsecase {
	return &appointmentUsecase{
		log:             log,
		userRepo:        userRepo,
		appointmentRepo: appointmentRepo,
		auditService:    auditService,
		now:             time.Now,
	}
}

// Book creates an unpaid appointment. Overlapping bookings for the same doctor and
// date are allowed.
func (u *appointmentUsecase) Book(ctx context.Context, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error) {
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, ErrPatientNotFound
	}
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, ErrDoctorNotFound
	}

	date, err := time.Parse(entity.DateLayout, req.Date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	patient, err := u.findUserWithRole(ctx, patientID, entity.RolePatient)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	doctor, err := u.findUserWithRole(ctx, doctorID, entity.RoleDoctor)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	appointment := &entity.Appointment{
		PatientID:   patient.ID,
		DoctorID:    doctor.ID,
		PatientName: patient.FullName(),
		DoctorName:  doctor.FullName(),
		Date:        date,
		Fee:         req.Fee,
	}

	if err := u.appointmentRepo.Create(ctx, appointment); err != nil {
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	u.auditService.LogCreate(ctx, &patient.ID, entity.AuditActionAppointmentBook, "appointment", appointment.ID.String(),
		map[string]interface{}{"docid": doctor.ID, "doa": req.Date, "fee": req.Fee.String()})

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) findUserWithRole(ctx context.Context, id uuid.UUID, role entity.Role) (*entity.User, error) {
	user, err := u.userRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil || user.Role != role {
		return nil, nil
	}
	return user, nil
}

// MarkCompleted does not check payment or appointment date.
func (u *appointmentUsecase) MarkCompleted(ctx context.Context, appointmentID uuid.UUID) error {
	appointment, err := u.findAppointment(ctx, appointmentID)
	if err != nil {
		return err
	}

	if err := u.appointmentRepo.MarkCompleted(ctx, appointment.ID); err != nil {
		u.log.Warnf("Failed to mark appointment completed: %+v", err)
		return err
	}

	u.auditService.LogUpdate(ctx, nil, entity.AuditActionAppointmentComplete, "appointment", appointment.ID.String(),
		map[string]bool{"completed": appointment.Completed}, map[string]bool{"completed": true})
	return nil
}

// DoctorAppointments lists paid appointments dated today or later.
func (u *appointmentUsecase) DoctorAppointments(ctx context.Context, doctorID uuid.UUID) ([]dto.AppointmentResponse, error) {
	now := u.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	appointments, err := u.appointmentRepo.FindUpcomingPaidByDoctor(ctx, doctorID, today)
	if err != nil {
		u.log.Warnf("Failed to find doctor appointments: %+v", err)
		return nil, err
	}
	return converter.AppointmentsToResponses(appointments), nil
}

func (u *appointmentUsecase) PatientAppointments(ctx context.Context, patientID uuid.UUID) ([]dto.AppointmentResponse, error) {
	appointments, err := u.appointmentRepo.FindByPatient(ctx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient appointments: %+v", err)
		return nil, err
	}
	return converter.AppointmentsToResponses(appointments), nil
}

func (u *appointmentUsecase) DuePayments(ctx context.Context, patientID uuid.UUID) ([]dto.AppointmentResponse, error) {
	appointments, err := u.appointmentRepo.FindUnpaidByPatient(ctx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find unpaid appointments: %+v", err)
		return nil, err
	}
	return converter.AppointmentsToResponses(appointments), nil
}

func (u *appointmentUsecase) Cancel(ctx context.Context, patientID, appointmentID uuid.UUID) error {
	appointment, err := u.findOwnedAppointment(ctx, patientID, appointmentID)
	if err != nil {
		return err
	}

	if appointment.IsPaid() || appointment.Completed {
		return ErrAppointmentNotCancellable
	}

	if err := u.appointmentRepo.Delete(ctx, appointment.ID); err != nil {
		u.log.Warnf("Failed to delete appointment: %+v", err)
		return err
	}

	u.auditService.LogDelete(ctx, &patientID, entity.AuditActionAppointmentCancel, "appointment", appointment.ID.String(),
		converter.AppointmentToResponse(appointment))
	return nil
}

func (u *appointmentUsecase) WriteFeedback(ctx context.Context, patientID uuid.UUID, req *dto.WriteFeedbackRequest) (*dto.AppointmentResponse, error) {
	appointmentID, err := uuid.Parse(req.AppointmentID)
	if err != nil {
		return nil, ErrAppointmentNotFound
	}

	appointment, err := u.findOwnedAppointment(ctx, patientID, appointmentID)
	if err != nil {
		return nil, err
	}

	if !appointment.Completed {
		return nil, ErrAppointmentNotCompleted
	}

	rating := req.Rating
	if err := u.appointmentRepo.UpdateFeedback(ctx, appointment.ID, true, req.Review, &rating); err != nil {
		u.log.Warnf("Failed to write feedback: %+v", err)
		return nil, err
	}

	appointment.Feedback = true
	appointment.Review = req.Review
	appointment.Rating = &rating
	return converter.AppointmentToResponse(appointment), nil
}

// DeleteFeedback clears the feedback fields and keeps the appointment.
func (u *appointmentUsecase) DeleteFeedback(ctx context.Context, patientID, appointmentID uuid.UUID) error {
	appointment, err := u.findOwnedAppointment(ctx, patientID, appointmentID)
	if err != nil {
		return err
	}

	if err := u.appointmentRepo.UpdateFeedback(ctx, appointment.ID, false, "", nil); err != nil {
		u.log.Warnf("Failed to delete feedback: %+v", err)
		return err
	}
	return nil
}

func (u *appointmentUsecase) DoctorFeedbacks(ctx context.Context, doctorID uuid.UUID) ([]dto.FeedbackResponse, error) {
	appointments, err := u.appointmentRepo.FindWithFeedback(ctx, &doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor feedbacks: %+v", err)
		return nil, err
	}
	return converter.AppointmentsToFeedbacks(appointments), nil
}

func (u *appointmentUsecase) findAppointment(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return appointment, nil
}

func (u *appointmentUsecase) findOwnedAppointment(ctx context.Context, patientID, id uuid.UUID) (*entity.Appointment, error) {
	appointment, err := u.findAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.PatientID != patientID {
		return nil, ErrNotAppointmentOwner
	}
	return appointment, nil
}
