package handler

import (
	"net/http"

	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/usecase"
	"medcare-api/pkg/metrics"
	"medcare-api/pkg/response"
	"medcare-api/pkg/validator"
)

type StaffHandler struct {
	staffUsecase   usecase.StaffUsecase
	paymentUsecase usecase.PaymentUsecase
	validator      *validator.CustomValidator
	metrics        *metrics.Collector
}

func NewStaffHandler(staffUsecase usecase.StaffUsecase, paymentUsecase usecase.PaymentUsecase, validator *validator.CustomValidator, metrics *metrics.Collector) *StaffHandler {
	return &StaffHandler{
		staffUsecase:   staffUsecase,
		paymentUsecase: paymentUsecase,
		validator:      validator,
		metrics:        metrics,
	}
}

func (h *StaffHandler) FindPatient(w http.ResponseWriter, r *http.Request) {
	var req dto.FindUserRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	patient, err := h.staffUsecase.FindPatient(r.Context(), req.Email)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not registered!")
		default:
			response.InternalServerError(w, "")
		}
		return
	}

	response.Success(w, http.StatusOK, "Patient found", patient)
}

// RegisterPatient creates a patient account at the front desk
// @Summary Register patient
// @Description Creates a verified patient and emails a generated password
// @Tags Staff
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.RegisterPatientRequest true "Patient"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /staff/register [post]
func (h *StaffHandler) RegisterPatient(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterPatientRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	staffID, _, ok := caller(w, r)
	if !ok {
		return
	}

	patient, err := h.staffUsecase.RegisterPatient(r.Context(), staffID, &req)
	if err != nil {
		switch err {
		case usecase.ErrEmailAlreadyExists:
			response.Conflict(w, "That email is already registered!")
		case usecase.ErrCredentialsEmailFailed:
			response.InternalServerError(w, "Failed to send credentials email")
		default:
			response.InternalServerError(w, "")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Patient registered successfully", patient)
}

// AcceptPayment records a payment against an appointment
// @Summary Accept payment
// @Tags Staff
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.AcceptPaymentRequest true "Payment"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /staff/payment/accept [post]
func (h *StaffHandler) AcceptPayment(w http.ResponseWriter, r *http.Request) {
	var req dto.AcceptPaymentRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	staffID, _, ok := caller(w, r)
	if !ok {
		return
	}

	payment, err := h.paymentUsecase.AcceptPayment(r.Context(), staffID, &req)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrAppointmentAlreadyPaid:
			response.Conflict(w, "Appointment already paid")
		default:
			response.InternalServerError(w, "")
		}
		return
	}

	if h.metrics != nil {
		h.metrics.PaymentsAccepted.Inc()
	}
	response.Success(w, http.StatusOK, "Payment accepted", payment)
}

func (h *StaffHandler) PendingPayments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.paymentUsecase.PendingPayments(r.Context())
	if err != nil {
		response.InternalServerError(w, "")
		return
	}

	response.Success(w, http.StatusOK, "Pending payments retrieved successfully", appointments)
}

func (h *StaffHandler) Patients(w http.ResponseWriter, r *http.Request) {
	patients, err := h.staffUsecase.Patients(r.Context())
	if err != nil {
		response.InternalServerError(w, "")
		return
	}

	response.Success(w, http.StatusOK, "Patients retrieved successfully", patients)
}
