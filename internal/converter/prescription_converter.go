package converter

import (
	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/domain/entity"
)

func PrescriptionToResponse(p *entity.Prescription) *dto.PrescriptionResponse {
	if p == nil {
		return nil
	}

	details := make([]dto.MedicineDetailResponse, len(p.Details))
	for i, d := range p.Details {
		details[i] = dto.MedicineDetailResponse{Medicine: d.Medicine, Dose: d.Dose, Tip: d.Tip}
	}

	return &dto.PrescriptionResponse{
		ID:             p.ID,
		AppointmentID:  p.AppointmentID,
		PatientID:      p.PatientID,
		DoctorID:       p.DoctorID,
		PatientName:    p.PatientName,
		DoctorName:     p.DoctorName,
		Details:        details,
		Prescribed:     p.Prescribed,
		FileURL:        p.FileURL,
		PrescribedDate: p.PrescribedDate,
		CreatedAt:      p.CreatedAt,
	}
}

func PrescriptionsToResponses(prescriptions []entity.Prescription) []dto.PrescriptionResponse {
	responses := make([]dto.PrescriptionResponse, len(prescriptions))
	for i := range prescriptions {
		responses[i] = *PrescriptionToResponse(&prescriptions[i])
	}
	return responses
}
