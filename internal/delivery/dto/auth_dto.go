package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type SignupRequest struct {
	UserType   string `json:"userType" validate:"required,oneof=Patient Doctor Staff"`
	FirstName  string `json:"fname" validate:"required,max=100"`
	LastName   string `json:"lname" validate:"omitempty,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6,max=72"`
	Phone      string `json:"phone" validate:"omitempty,max=20"`
	Gender     string `json:"gender" validate:"omitempty,max=10"`
	Age        int    `json:"age" validate:"omitempty,min=0,max=150"`
	Speciality string `json:"speciality" validate:"omitempty,max=100"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest is validated in the usecase: an empty token is Forbidden, not a validation error.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type ResetPasswordRequest struct {
	Email           string `json:"email" validate:"required,email"`
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72"`
}

// Response DTOs

type SigninResponse struct {
	UserType     string `json:"userType"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

type AccessTokenResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}

type UserResponse struct {
	ID         uuid.UUID `json:"id"`
	UserType   string    `json:"userType"`
	FirstName  string    `json:"fname"`
	LastName   string    `json:"lname"`
	Email      string    `json:"email"`
	Verified   bool      `json:"verified"`
	Phone      string    `json:"phone,omitempty"`
	Gender     string    `json:"gender,omitempty"`
	Age        int       `json:"age,omitempty"`
	Speciality string    `json:"speciality,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
