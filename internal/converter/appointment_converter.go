package converter

import (
	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/domain/entity"
)

func AppointmentToResponse(a *entity.Appointment) *dto.AppointmentResponse {
	if a == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:          a.ID,
		PatientID:   a.PatientID,
		DoctorID:    a.DoctorID,
		PatientName: a.PatientName,
		DoctorName:  a.DoctorName,
		Date:        a.Date.Format(entity.DateLayout),
		Fee:         a.Fee,
		PaymentID:   a.PaymentID,
		Completed:   a.Completed,
		Feedback:    a.Feedback,
		Review:      a.Review,
		Rating:      a.Rating,
		CreatedAt:   a.CreatedAt,
	}
}

// AppointmentsToResponses never returns nil so empty lists encode as [].
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}

func AppointmentsToFeedbacks(appointments []entity.Appointment) []dto.FeedbackResponse {
	responses := make([]dto.FeedbackResponse, len(appointments))
	for i, a := range appointments {
		responses[i] = dto.FeedbackResponse{
			AppointmentID: a.ID,
			DoctorID:      a.DoctorID,
			PatientName:   a.PatientName,
			DoctorName:    a.DoctorName,
			Date:          a.Date.Format(entity.DateLayout),
			Review:        a.Review,
			Rating:        a.Rating,
		}
	}
	return responses
}

func PaymentToResponse(p *entity.Payment) *dto.PaymentResponse {
	if p == nil {
		return nil
	}

	return &dto.PaymentResponse{
		ID:            p.ID,
		AppointmentID: p.AppointmentID,
		PatientID:     p.PatientID,
		DoctorID:      p.DoctorID,
		Amount:        p.Amount,
		PaymentMethod: p.Method,
		TransactionID: p.TransactionID,
		Status:        string(p.Status),
		Date:          p.Date,
	}
}
