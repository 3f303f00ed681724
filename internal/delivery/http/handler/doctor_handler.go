package handler

import (
	"errors"
	"net/http"

	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/usecase"
	"medcare-api/pkg/metrics"
	"medcare-api/pkg/response"
	"medcare-api/pkg/validator"
)

type DoctorHandler struct {
	appointmentUsecase  usecase.AppointmentUsecase
	prescriptionUsecase usecase.PrescriptionUsecase
	validator           *validator.CustomValidator
	metrics             *metrics.Collector
}

func NewDoctorHandler(appointmentUsecase usecase.AppointmentUsecase, prescriptionUsecase usecase.PrescriptionUsecase, validator *validator.CustomValidator, metrics *metrics.Collector) *DoctorHandler {
	return &DoctorHandler{
		appointmentUsecase:  appointmentUsecase,
		prescriptionUsecase: prescriptionUsecase,
		validator:           validator,
		metrics:             metrics,
	}
}

// Appointments lists the doctor's paid appointments from today onwards
// @Summary Upcoming paid appointments
// @Tags Doctor
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.DoctorIDRequest false "Doctor (required for admins)"
// @Success 200 {object} response.Response
// @Router /doctor/appointments [post]
func (h *DoctorHandler) Appointments(w http.ResponseWriter, r *http.Request) {
	var req dto.DoctorIDRequest
	if !decodeOptional(w, r, &req) {
		return
	}
	doctorID, ok := resolveSubject(w, r, req.DoctorID)
	if !ok {
		return
	}

	appointments, err := h.appointmentUsecase.DoctorAppointments(r.Context(), doctorID)
	if err != nil {
		response.InternalServerError(w, "")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

// UploadPrescription renders a prescription PDF and stores it
// @Summary Upload prescription
// @Tags Doctor
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UploadPrescriptionRequest true "Prescription"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /doctor/prescription/upload [post]
func (h *DoctorHandler) UploadPrescription(w http.ResponseWriter, r *http.Request) {
	var req dto.UploadPrescriptionRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	doctorID, _, ok := caller(w, r)
	if !ok {
		return
	}

	result, err := h.prescriptionUsecase.Upload(r.Context(), doctorID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPrescriptionFieldsMissing):
			response.BadRequest(w, "Appointment, patient and doctor details are required")
		case errors.Is(err, usecase.ErrNotPrescribingDoctor):
			response.Forbidden(w, "You can only prescribe for your own appointments")
		case errors.Is(err, usecase.ErrAppointmentNotFound):
			response.NotFound(w, "Appointment not found")
		case errors.Is(err, usecase.ErrAppointmentMismatch):
			response.BadRequest(w, "Appointment does not match patient and doctor")
		case errors.Is(err, usecase.ErrFileUploadFailed):
			if h.metrics != nil {
				h.metrics.PrescriptionUploadErrs.Inc()
			}
			response.InternalServerError(w, "File upload failed!")
		default:
			response.InternalServerError(w, "")
		}
		return
	}

	if h.metrics != nil {
		h.metrics.PrescriptionsIssued.Inc()
	}
	response.Success(w, http.StatusCreated, "Prescription Generated & Uploaded Successfully.", result)
}

func (h *DoctorHandler) Prescriptions(w http.ResponseWriter, r *http.Request) {
	var req dto.DoctorIDRequest
	if !decodeOptional(w, r, &req) {
		return
	}
	doctorID, ok := resolveSubject(w, r, req.DoctorID)
	if !ok {
		return
	}

	prescriptions, err := h.prescriptionUsecase.DoctorPrescriptions(r.Context(), doctorID)
	if err != nil {
		response.InternalServerError(w, "")
		return
	}

	response.Success(w, http.StatusOK, "Prescriptions retrieved successfully", prescriptions)
}

func (h *DoctorHandler) Feedbacks(w http.ResponseWriter, r *http.Request) {
	var req dto.DoctorIDRequest
	if !decodeOptional(w, r, &req) {
		return
	}
	doctorID, ok := resolveSubject(w, r, req.DoctorID)
	if !ok {
		return
	}

	feedbacks, err := h.appointmentUsecase.DoctorFeedbacks(r.Context(), doctorID)
	if err != nil {
		response.InternalServerError(w, "")
		return
	}

	response.Success(w, http.StatusOK, "Feedbacks retrieved successfully", feedbacks)
}
