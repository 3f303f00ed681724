package usecase

import (
	"context"
	"errors"

	"medcare-api/internal/converter"
	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/domain/entity"
	"medcare-api/internal/domain/repository"
	"medcare-api/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// NoRatings is reported as the average rating when a doctor has no feedback.
const NoRatings = "No ratings"

var ErrUserAlreadyVerified = errors.New("user is already verified")

type AdminUsecase interface {
	FindUser(ctx context.Context, email string) (*dto.UserResponse, error)
	Unverified(ctx context.Context) ([]dto.UserResponse, error)
	Verify(ctx context.Context, adminID, userID uuid.UUID) error
	Reject(ctx context.Context, adminID, userID uuid.UUID) error
	Doctors(ctx context.Context) ([]dto.UserResponse, error)
	Staffs(ctx context.Context) ([]dto.UserResponse, error)
	Feedbacks(ctx context.Context) ([]dto.FeedbackResponse, error)
	GenerateDoctorStats(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorStatsResponse, error)
}

type adminUsecase struct {
	log             *logrus.Logger
	userRepo        repository.UserRepository
	appointmentRepo repository.AppointmentRepository
	auditService    service.AuditService
}

func NewAdminUsecase(
	log *logrus.Logger,
	userRepo repository.UserRepository,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
) AdminUsecase {
	return &adminUsecase{
		log:             log,
		userRepo:        userRepo,
		appointmentRepo: appointmentRepo,
		auditService:    auditService,
	}
}

func (u *adminUsecase) FindUser(ctx context.Context, email string) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return converter.UserToResponse(user), nil
}

func (u *adminUsecase) Unverified(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := u.userRepo.FindUnverified(ctx)
	if err != nil {
		u.log.Warnf("Failed to find unverified users: %+v", err)
		return nil, err
	}
	return converter.UsersToResponses(users), nil
}

// Verify is idempotent for already verified users.
func (u *adminUsecase) Verify(ctx context.Context, adminID, userID uuid.UUID) error {
	user, err := u.findUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.Verified {
		return nil
	}

	if err := u.userRepo.MarkVerified(ctx, user.ID); err != nil {
		u.log.Warnf("Failed to verify user: %+v", err)
		return err
	}

	u.auditService.LogUpdate(ctx, &adminID, entity.AuditActionUserVerify, "user", user.ID.String(),
		map[string]bool{"verified": false}, map[string]bool{"verified": true})
	return nil
}

// Reject deletes a pending registration. Verified accounts cannot be rejected.
func (u *adminUsecase) Reject(ctx context.Context, adminID, userID uuid.UUID) error {
	user, err := u.findUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.Verified {
		return ErrUserAlreadyVerified
	}

	if err := u.userRepo.Delete(ctx, user.ID); err != nil {
		u.log.Warnf("Failed to delete user: %+v", err)
		return err
	}

	u.auditService.LogDelete(ctx, &adminID, entity.AuditActionUserReject, "user", user.ID.String(),
		map[string]interface{}{"email": user.Email, "role": user.Role})
	return nil
}

func (u *adminUsecase) Doctors(ctx context.Context) ([]dto.UserResponse, error) {
	return u.usersByRole(ctx, entity.RoleDoctor)
}

func (u *adminUsecase) Staffs(ctx context.Context) ([]dto.UserResponse, error) {
	return u.usersByRole(ctx, entity.RoleStaff)
}

func (u *adminUsecase) usersByRole(ctx context.Context, role entity.Role) ([]dto.UserResponse, error) {
	users, err := u.userRepo.FindByRole(ctx, role)
	if err != nil {
		u.log.Warnf("Failed to find %s users: %+v", role, err)
		return nil, err
	}
	return converter.UsersToResponses(users), nil
}

func (u *adminUsecase) Feedbacks(ctx context.Context) ([]dto.FeedbackResponse, error) {
	appointments, err := u.appointmentRepo.FindWithFeedback(ctx, nil)
	if err != nil {
		u.log.Warnf("Failed to find feedbacks: %+v", err)
		return nil, err
	}
	return converter.AppointmentsToFeedbacks(appointments), nil
}

// GenerateDoctorStats aggregates over the doctor's completed appointments.
func (u *adminUsecase) GenerateDoctorStats(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorStatsResponse, error) {
	doctor, err := u.userRepo.FindByID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil || doctor.Role != entity.RoleDoctor {
		return nil, ErrDoctorNotFound
	}

	appointments, err := u.appointmentRepo.FindCompletedByDoctor(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find completed appointments: %+v", err)
		return nil, err
	}

	return computeDoctorStats(doctorID, appointments), nil
}

func computeDoctorStats(doctorID uuid.UUID, appointments []entity.Appointment) *dto.DoctorStatsResponse {
	stats := &dto.DoctorStatsResponse{
		DoctorID:      doctorID,
		TotalEarnings: decimal.Zero,
		AverageRating: NoRatings,
	}

	patients := make(map[uuid.UUID]struct{})
	ratingSum, rated := 0, 0
	for _, a := range appointments {
		stats.TotalAppointments++
		patients[a.PatientID] = struct{}{}
		stats.TotalEarnings = stats.TotalEarnings.Add(a.Fee)

		if a.Feedback {
			stats.FeedbackCount++
			if a.Rating != nil {
				ratingSum += *a.Rating
				rated++
			}
		}
	}
	stats.UniquePatients = len(patients)

	if stats.FeedbackCount > 0 && rated > 0 {
		avg, _ := decimal.NewFromInt(int64(ratingSum)).
			Div(decimal.NewFromInt(int64(rated))).
			Round(2).
			Float64()
		stats.AverageRating = avg
	}

	return stats
}

func (u *adminUsecase) findUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := u.userRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
