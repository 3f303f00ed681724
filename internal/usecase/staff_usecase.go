package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"medcare-api/internal/converter"
	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/domain/entity"
	"medcare-api/internal/domain/repository"
	"medcare-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	generatedPasswordLength   = 8
	generatedPasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"
	credentialsMailSubject    = "Your MedCare Login Credentials"
)

var ErrCredentialsEmailFailed = errors.New("failed to send credentials email")

// Mailer delivers a plain-text message.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type StaffUsecase interface {
	FindPatient(ctx context.Context, email string) (*dto.UserResponse, error)
	RegisterPatient(ctx context.Context, staffID uuid.UUID, req *dto.RegisterPatientRequest) (*dto.UserResponse, error)
	Patients(ctx context.Context) ([]dto.UserResponse, error)
}

type staffUsecase struct {
	log          *logrus.Logger
	userRepo     repository.UserRepository
	mailer       Mailer
	auditService service.AuditService
	mailTimeout  time.Duration
}

func NewStaffUsecase(
	log *logrus.Logger,
	userRepo repository.UserRepository,
	mailer Mailer,
	auditService service.AuditService,
	mailTimeout time.Duration,
) StaffUsecase {
	return &staffUsecase{
		log:          log,
		userRepo:     userRepo,
		mailer:       mailer,
		auditService: auditService,
		mailTimeout:  mailTimeout,
	}
}

func (u *staffUsecase) FindPatient(ctx context.Context, email string) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil || user.Role != entity.RolePatient {
		return nil, ErrPatientNotFound
	}
	return converter.UserToResponse(user), nil
}

// RegisterPatient creates a verified patient with a generated password and mails
// the credentials. If the mail cannot be sent the account is removed again.
func (u *staffUsecase) RegisterPatient(ctx context.Context, staffID uuid.UUID, req *dto.RegisterPatientRequest) (*dto.UserResponse, error) {
	email := normalizeEmail(req.Email)

	existing, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	password, err := generatePassword(generatedPasswordLength)
	if err != nil {
		u.log.Warnf("Failed to generate password: %+v", err)
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	user := &entity.User{
		Role:      entity.RolePatient,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     email,
		Password:  string(hashedPassword),
		Verified:  true,
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	mailCtx, cancel := context.WithTimeout(ctx, u.mailTimeout)
	defer cancel()

	body := fmt.Sprintf(
		"Hello %s,\n\nYour account has been created.\n\nEmail: %s\nPassword: %s\n\nPlease log in and change your password immediately.",
		user.FullName(), email, password,
	)
	if err := u.mailer.Send(mailCtx, email, credentialsMailSubject, body); err != nil {
		u.log.Warnf("Failed to send credentials to %s: %+v", email, err)
		if delErr := u.userRepo.Delete(ctx, user.ID); delErr != nil {
			u.log.Warnf("Failed to remove patient %s after mail failure: %+v", user.ID, delErr)
		}
		return nil, ErrCredentialsEmailFailed
	}

	u.auditService.LogCreate(ctx, &staffID, entity.AuditActionPatientRegister, "user", user.ID.String(),
		map[string]interface{}{"email": email})

	return converter.UserToResponse(user), nil
}

func (u *staffUsecase) Patients(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := u.userRepo.FindByRole(ctx, entity.RolePatient)
	if err != nil {
		u.log.Warnf("Failed to find patients: %+v", err)
		return nil, err
	}
	return converter.UsersToResponses(users), nil
}

func generatePassword(length int) (string, error) {
	out := make([]byte, length)
	max := big.NewInt(int64(len(generatedPasswordAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = generatedPasswordAlphabet[n.Int64()]
	}
	return string(out), nil
}
