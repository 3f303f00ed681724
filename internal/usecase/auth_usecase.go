package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"medcare-api/internal/converter"
	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/domain/entity"
	"medcare-api/internal/domain/repository"
	"medcare-api/internal/service"
	"medcare-api/pkg/jwt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailAlreadyExists      = errors.New("email already exists")
	ErrEmailNotRegistered      = errors.New("email not registered")
	ErrAccountNotVerified      = errors.New("account not verified")
	ErrIncorrectPassword       = errors.New("incorrect password")
	ErrRefreshTokenMissing     = errors.New("refresh token missing")
	ErrRefreshTokenRevoked     = errors.New("refresh token revoked or unknown")
	ErrInvalidToken            = errors.New("invalid or expired token")
	ErrUserNotFound            = errors.New("user not found")
	ErrCurrentPasswordMismatch = errors.New("current password is incorrect")
	ErrInvalidRole             = errors.New("invalid role")
	ErrPasswordTooLong         = errors.New("password exceeds 72 bytes")
)

type AuthUsecase interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.UserResponse, error)
	Signin(ctx context.Context, req *dto.SigninRequest) (*dto.SigninResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.AccessTokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
	CreateAdmin(ctx context.Context, email, password, firstName, lastName string) (*dto.UserResponse, error)
}

type authUsecase struct {
	log          *logrus.Logger
	userRepo     repository.UserRepository
	tokenRepo    repository.TokenRepository
	jwtService   *jwt.JWTService
	auditService service.AuditService
}

func NewAuthUsecase(
	log *logrus.Logger,
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	jwtService *jwt.JWTService,
	auditService service.AuditService,
) AuthUsecase {
	return &authUsecase{
		log:          log,
		userRepo:     userRepo,
		tokenRepo:    tokenRepo,
		jwtService:   jwtService,
		auditService: auditService,
	}
}

func (u *authUsecase) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.UserResponse, error) {
	role := entity.Role(req.UserType)
	if !role.IsValid() || role == entity.RoleAdmin {
		return nil, ErrInvalidRole
	}

	user := &entity.User{
		Role:       role,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      normalizeEmail(req.Email),
		Verified:   !role.RequiresApproval(),
		Phone:      req.Phone,
		Gender:     req.Gender,
		Age:        req.Age,
		Speciality: req.Speciality,
	}

	if err := u.createUser(ctx, user, req.Password); err != nil {
		return nil, err
	}

	u.auditService.LogCreate(ctx, &user.ID, entity.AuditActionUserRegister, "user", user.ID.String(),
		map[string]interface{}{"email": user.Email, "role": user.Role})

	return converter.UserToResponse(user), nil
}

// CreateAdmin seeds a verified administrator. It is only reachable from the CLI.
func (u *authUsecase) CreateAdmin(ctx context.Context, email, password, firstName, lastName string) (*dto.UserResponse, error) {
	user := &entity.User{
		Role:      entity.RoleAdmin,
		FirstName: firstName,
		LastName:  lastName,
		Email:     normalizeEmail(email),
		Verified:  true,
	}

	if err := u.createUser(ctx, user, password); err != nil {
		return nil, err
	}

	u.log.Infof("Admin account %s created", user.Email)
	return converter.UserToResponse(user), nil
}

func (u *authUsecase) createUser(ctx context.Context, user *entity.User, password string) error {
	existing, err := u.userRepo.FindByEmail(ctx, user.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return err
	}
	if existing != nil {
		return ErrEmailAlreadyExists
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return u.hashError(err)
	}
	user.Password = string(hashedPassword)

	if err := u.userRepo.Create(ctx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return err
	}
	return nil
}

func (u *authUsecase) Signin(ctx context.Context, req *dto.SigninRequest) (*dto.SigninResponse, error) {
	user, err := u.userRepo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrEmailNotRegistered
	}

	if !user.Verified {
		return nil, ErrAccountNotVerified
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrIncorrectPassword
	}

	identity := jwt.Identity{UserID: user.ID, Email: user.Email, Role: user.Role.String()}

	// Generate tokens
	accessToken, err := u.jwtService.GenerateAccessToken(identity)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, err := u.jwtService.GenerateRefreshToken(identity)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.tokenRepo.Store(ctx, &entity.RefreshToken{
		Token:    refreshToken,
		UserID:   user.ID,
		IssuedAt: time.Now(),
	}); err != nil {
		u.log.Warnf("Failed to store refresh token: %+v", err)
		return nil, err
	}

	u.auditService.LogEvent(ctx, &user.ID, entity.AuditActionUserLogin, entity.JSON{"email": user.Email})

	return &dto.SigninResponse{
		UserType:     user.Role.String(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

// Refresh exchanges a stored refresh token for a new access token with the same
// claims. The refresh token itself is not rotated.
func (u *authUsecase) Refresh(ctx context.Context, refreshToken string) (*dto.AccessTokenResponse, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, ErrRefreshTokenMissing
	}

	stored, err := u.tokenRepo.Find(ctx, refreshToken)
	if err != nil {
		u.log.Warnf("Failed to find refresh token: %+v", err)
		return nil, err
	}
	if stored == nil {
		return nil, ErrRefreshTokenRevoked
	}

	claims, err := u.jwtService.ValidateRefreshToken(stored.Token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	accessToken, err := u.jwtService.GenerateAccessToken(claims.Identity())
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	return &dto.AccessTokenResponse{
		AccessToken: accessToken,
		ExpiresIn:   int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

// Logout revokes the refresh token. Unknown tokens are not an error.
func (u *authUsecase) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return nil
	}

	stored, err := u.tokenRepo.Find(ctx, refreshToken)
	if err != nil {
		u.log.Warnf("Failed to find refresh token: %+v", err)
		return err
	}
	if stored == nil {
		return nil
	}

	if err := u.tokenRepo.Delete(ctx, refreshToken); err != nil {
		u.log.Warnf("Failed to delete refresh token: %+v", err)
		return err
	}

	u.auditService.LogEvent(ctx, &stored.UserID, entity.AuditActionUserLogout, nil)
	return nil
}

func (u *authUsecase) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	user, err := u.userRepo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return ErrCurrentPasswordMismatch
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return u.hashError(err)
	}

	if err := u.userRepo.UpdatePassword(ctx, user.ID, string(hashedPassword)); err != nil {
		u.log.Warnf("Failed to update password: %+v", err)
		return err
	}

	u.auditService.LogEvent(ctx, &user.ID, entity.AuditActionPasswordReset, nil)
	return nil
}

// hashError maps bcrypt's input length limit to a client error.
func (u *authUsecase) hashError(err error) error {
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return ErrPasswordTooLong
	}
	u.log.Warnf("Failed to hash password: %+v", err)
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
