package handler

import (
	"net/http"

	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/usecase"
	"medcare-api/pkg/metrics"
	"medcare-api/pkg/response"
	"medcare-api/pkg/validator"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	validator   *validator.CustomValidator
	metrics     *metrics.Collector
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, validator *validator.CustomValidator, metrics *metrics.Collector) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		validator:   validator,
		metrics:     metrics,
	}
}

// Signup handles account registration
// @Summary Register a new account
// @Description Patients are active immediately; doctors and staff wait for admin approval
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.SignupRequest true "Signup Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	user, err := h.authUsecase.Signup(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrEmailAlreadyExists:
			response.Conflict(w, "That email is already registered!")
		case usecase.ErrInvalidRole:
			response.BadRequest(w, "Invalid user type")
		case usecase.ErrPasswordTooLong:
			response.BadRequest(w, "Password must be at most 72 bytes")
		default:
			response.InternalServerError(w, "")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Signup Successful!", user)
}

// Signin handles user login
// @Summary Sign in
// @Description Exchange email and password for an access and refresh token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.SigninRequest true "Signin Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /auth/signin [post]
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req dto.SigninRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	tokens, err := h.authUsecase.Signin(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrEmailNotRegistered:
			h.countLogin("unknown_email")
			response.NotFound(w, "Email not registered.")
		case usecase.ErrAccountNotVerified:
			h.countLogin("unverified")
			response.Forbidden(w, "Account not verified yet!")
		case usecase.ErrIncorrectPassword:
			h.countLogin("bad_password")
			response.BadRequest(w, "Incorrect Password!")
		default:
			h.countLogin("error")
			response.InternalServerError(w, "")
		}
		return
	}

	h.countLogin("success")
	response.Success(w, http.StatusOK, "Signin Successful!", tokens)
}

func (h *AuthHandler) countLogin(outcome string) {
	if h.metrics != nil {
		h.metrics.LoginsTotal.WithLabelValues(outcome).Inc()
	}
}

// Refresh handles token refresh
// @Summary Refresh access token
// @Description Get a new access token for a stored refresh token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh Token Request"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshTokenRequest
	if !decodeOptional(w, r, &req) {
		return
	}

	token, err := h.authUsecase.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		switch err {
		case usecase.ErrRefreshTokenMissing:
			response.Forbidden(w, "Access denied, token missing!")
		case usecase.ErrRefreshTokenRevoked:
			response.Unauthorized(w, "Token Expired!")
		case usecase.ErrInvalidToken:
			response.Unauthorized(w, "Invalid refresh token")
		default:
			response.InternalServerError(w, "")
		}
		return
	}

	response.Success(w, http.StatusOK, "Access token updated", token)
}

// Logout handles user logout
// @Summary Logout
// @Description Revoke a refresh token. Succeeds even when the token is unknown
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LogoutRequest true "Logout Request"
// @Success 200 {object} response.Response
// @Router /auth/logout [delete]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req dto.LogoutRequest
	if !decodeOptional(w, r, &req) {
		return
	}

	if err := h.authUsecase.Logout(r.Context(), req.RefreshToken); err != nil {
		response.InternalServerError(w, "")
		return
	}

	response.Success(w, http.StatusOK, "Logged Out successfully!", nil)
}

// ResetPassword handles password change
// @Summary Reset password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.ResetPasswordRequest true "Reset Password Request"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /password/reset [post]
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	if err := h.authUsecase.ResetPassword(r.Context(), &req); err != nil {
		switch err {
		case usecase.ErrUserNotFound:
			response.NotFound(w, "User not found")
		case usecase.ErrCurrentPasswordMismatch:
			response.Unauthorized(w, "Current password is incorrect")
		case usecase.ErrPasswordTooLong:
			response.BadRequest(w, "Password must be at most 72 bytes")
		default:
			response.InternalServerError(w, "")
		}
		return
	}

	response.Success(w, http.StatusOK, "Password updated successfully", nil)
}
