package handler

import (
	"net/http"

	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/usecase"
	"medcare-api/pkg/response"
	"medcare-api/pkg/validator"

	"github.com/google/uuid"
)

type PatientHandler struct {
	appointmentUsecase  usecase.AppointmentUsecase
	prescriptionUsecase usecase.PrescriptionUsecase
	validator           *validator.CustomValidator
}

func NewPatientHandler(appointmentUsecase usecase.AppointmentUsecase, prescriptionUsecase usecase.PrescriptionUsecase, validator *validator.CustomValidator) *PatientHandler {
	return &PatientHandler{
		appointmentUsecase:  appointmentUsecase,
		prescriptionUsecase: prescriptionUsecase,
		validator:           validator,
	}
}

func (h *PatientHandler) Appointments(w http.ResponseWriter, r *http.Request) {
	var req dto.PatientIDRequest
	if !decodeOptional(w, r, &req) {
		return
	}
	patientID, ok := resolveSubject(w, r, req.PatientID)
	if !ok {
		return
	}

	appointments, err := h.appointmentUsecase.PatientAppointments(r.Context(), patientID)
	if err != nil {
		response.InternalServerError(w, "")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *PatientHandler) Prescriptions(w http.ResponseWriter, r *http.Request) {
	var req dto.PatientIDRequest
	if !decodeOptional(w, r, &req) {
		return
	}
	patientID, ok := resolveSubject(w, r, req.PatientID)
	if !ok {
		return
	}

	prescriptions, err := h.prescriptionUsecase.PatientPrescriptions(r.Context(), patientID)
	if err != nil {
		response.InternalServerError(w, "")
		return
	}

	response.Success(w, http.StatusOK, "Prescriptions retrieved successfully", prescriptions)
}

// WriteFeedback records a review on a completed appointment
// @Summary Write feedback
// @Tags Patient
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.WriteFeedbackRequest true "Feedback"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /patient/appointments/feedbacks/write [post]
func (h *PatientHandler) WriteFeedback(w http.ResponseWriter, r *http.Request) {
	var req dto.WriteFeedbackRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	patientID, _, ok := caller(w, r)
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.WriteFeedback(r.Context(), patientID, &req)
	if err != nil {
		h.writeFeedbackError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Feedback submitted successfully", appointment)
}

func (h *PatientHandler) DeleteFeedback(w http.ResponseWriter, r *http.Request) {
	var req dto.AppointmentIDRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	patientID, _, ok := caller(w, r)
	if !ok {
		return
	}

	if err := h.appointmentUsecase.DeleteFeedback(r.Context(), patientID, uuid.MustParse(req.AppointmentID)); err != nil {
		h.writeFeedbackError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Feedback deleted successfully", nil)
}

func (h *PatientHandler) writeFeedbackError(w http.ResponseWriter, err error) {
	switch err {
	case usecase.ErrAppointmentNotFound:
		response.NotFound(w, "Appointment not found")
	case usecase.ErrNotAppointmentOwner:
		response.Forbidden(w, "You can only review your own appointments")
	case usecase.ErrAppointmentNotCompleted:
		response.Conflict(w, "Appointment is not completed yet")
	default:
		response.InternalServerError(w, "")
	}
}
