package handler

import (
	"net/http"

	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/usecase"
	"medcare-api/pkg/metrics"
	"medcare-api/pkg/response"
	"medcare-api/pkg/validator"

	"github.com/google/uuid"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
	metrics            *metrics.Collector
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator, metrics *metrics.Collector) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
		metrics:            metrics,
	}
}

// Book handles appointment booking
// @Summary Book an appointment
// @Tags Appointment
// @Accept json
// @Produce json
// @Param request body dto.BookAppointmentRequest true "Book Appointment Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /appointment/book [post]
func (h *AppointmentHandler) Book(w http.ResponseWriter, r *http.Request) {
	var req dto.BookAppointmentRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	appointment, err := h.appointmentUsecase.Book(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		case usecase.ErrInvalidDateFormat:
			response.BadRequest(w, "Invalid date format, use YYYY-MM-DD")
		default:
			response.InternalServerError(w, "")
		}
		return
	}

	if h.metrics != nil {
		h.metrics.AppointmentsBooked.Inc()
	}
	response.Success(w, http.StatusCreated, "Appointment booked successfully", appointment)
}

// Complete marks an appointment as completed
// @Summary Mark appointment completed
// @Tags Appointment
// @Accept json
// @Produce json
// @Param request body dto.AppointmentIDRequest true "Appointment"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /appointment/complete [post]
func (h *AppointmentHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req dto.AppointmentIDRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	if err := h.appointmentUsecase.MarkCompleted(r.Context(), uuid.MustParse(req.AppointmentID)); err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		default:
			response.InternalServerError(w, "")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment marked as completed", nil)
}

// DuePayments lists the caller's unpaid appointments
// @Summary List unpaid appointments
// @Tags Appointment
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /appointment/duepayment [post]
func (h *AppointmentHandler) DuePayments(w http.ResponseWriter, r *http.Request) {
	var req dto.PatientIDRequest
	if !decodeOptional(w, r, &req) {
		return
	}
	patientID, ok := resolveSubject(w, r, req.PatientID)
	if !ok {
		return
	}

	appointments, err := h.appointmentUsecase.DuePayments(r.Context(), patientID)
	if err != nil {
		response.InternalServerError(w, "")
		return
	}

	response.Success(w, http.StatusOK, "Due payments retrieved successfully", appointments)
}

// Cancel removes one of the caller's unpaid appointments
// @Summary Cancel appointment
// @Tags Appointment
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.AppointmentIDRequest true "Appointment"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /appointment/cancel [post]
func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req dto.AppointmentIDRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	patientID, _, ok := caller(w, r)
	if !ok {
		return
	}

	if err := h.appointmentUsecase.Cancel(r.Context(), patientID, uuid.MustParse(req.AppointmentID)); err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrNotAppointmentOwner:
			response.Forbidden(w, "You can only cancel your own appointments")
		case usecase.ErrAppointmentNotCancellable:
			response.Conflict(w, "Paid or completed appointments cannot be cancelled")
		default:
			response.InternalServerError(w, "")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment cancelled", nil)
}
