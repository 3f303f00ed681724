package handler

import (
	"net/http"

	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/usecase"
	"medcare-api/pkg/response"
	"medcare-api/pkg/validator"

	"github.com/google/uuid"
)

type AdminHandler struct {
	adminUsecase usecase.AdminUsecase
	validator    *validator.CustomValidator
}

func NewAdminHandler(adminUsecase usecase.AdminUsecase, validator *validator.CustomValidator) *AdminHandler {
	return &AdminHandler{
		adminUsecase: adminUsecase,
		validator:    validator,
	}
}

func (h *AdminHandler) FindUser(w http.ResponseWriter, r *http.Request) {
	var req dto.FindUserRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	user, err := h.adminUsecase.FindUser(r.Context(), req.Email)
	if err != nil {
		switch err {
		case usecase.ErrUserNotFound:
			response.NotFound(w, "User not found")
		default:
			response.InternalServerError(w, "")
		}
		return
	}

	response.Success(w, http.StatusOK, "User found", user)
}

func (h *AdminHandler) Unverified(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminUsecase.Unverified(r.Context())
	if err != nil {
		response.InternalServerError(w, "")
		return
	}

	response.Success(w, http.StatusOK, "Unverified users retrieved successfully", users)
}

// Verify approves a pending doctor or staff account
// @Summary Verify user
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UserIDRequest true "User"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/unverified/verify [post]
func (h *AdminHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req dto.UserIDRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	adminID, _, ok := caller(w, r)
	if !ok {
		return
	}

	if err := h.adminUsecase.Verify(r.Context(), adminID, uuid.MustParse(req.UserID)); err != nil {
		switch err {
		case usecase.ErrUserNotFound:
			response.NotFound(w, "User not found")
		default:
			response.InternalServerError(w, "")
		}
		return
	}

	response.Success(w, http.StatusOK, "User verified successfully", nil)
}

// Reject deletes a pending doctor or staff account
// @Summary Reject user
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UserIDRequest true "User"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users/unverified/reject [delete]
func (h *AdminHandler) Reject(w http.ResponseWriter, r *http.Request) {
	var req dto.UserIDRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	adminID, _, ok := caller(w, r)
	if !ok {
		return
	}

	if err := h.adminUsecase.Reject(r.Context(), adminID, uuid.MustParse(req.UserID)); err != nil {
		switch err {
		case usecase.ErrUserNotFound:
			response.NotFound(w, "User not found")
		case usecase.ErrUserAlreadyVerified:
			response.Conflict(w, "Verified users cannot be rejected")
		default:
			response.InternalServerError(w, "")
		}
		return
	}

	response.Success(w, http.StatusOK, "User rejected successfully", nil)
}

func (h *AdminHandler) Doctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.adminUsecase.Doctors(r.Context())
	if err != nil {
		response.InternalServerError(w, "")
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctors)
}

func (h *AdminHandler) Staffs(w http.ResponseWriter, r *http.Request) {
	staffs, err := h.adminUsecase.Staffs(r.Context())
	if err != nil {
		response.InternalServerError(w, "")
		return
	}

	response.Success(w, http.StatusOK, "Staffs retrieved successfully", staffs)
}

func (h *AdminHandler) Feedbacks(w http.ResponseWriter, r *http.Request) {
	feedbacks, err := h.adminUsecase.Feedbacks(r.Context())
	if err != nil {
		response.InternalServerError(w, "")
		return
	}

	response.Success(w, http.StatusOK, "Feedbacks retrieved successfully", feedbacks)
}

// DoctorStats aggregates a doctor's completed appointments
// @Summary Doctor statistics
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param docid query string true "Doctor ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /generate/stats [get]
func (h *AdminHandler) DoctorStats(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(r.URL.Query().Get("docid"))
	if err != nil {
		response.BadRequest(w, "Invalid doctor ID")
		return
	}

	stats, err := h.adminUsecase.GenerateDoctorStats(r.Context(), doctorID)
	if err != nil {
		switch err {
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		default:
			response.InternalServerError(w, "")
		}
		return
	}

	response.Success(w, http.StatusOK, "Stats generated successfully", stats)
}
