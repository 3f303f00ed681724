package dto

import (
	"time"

	"github.com/google/uuid"
)

type MedicineDetailRequest struct {
	Medicine string `json:"medicine" validate:"required,max=200"`
	Dose     string `json:"dose" validate:"omitempty,max=200"`
	Tip      string `json:"tip" validate:"omitempty,max=500"`
}

// UploadPrescriptionRequest leaves identity fields unvalidated so the usecase can report them as one bad request.
type UploadPrescriptionRequest struct {
	AppointmentID string                  `json:"aptid"`
	PatientID     string                  `json:"patid"`
	DoctorID      string                  `json:"docid"`
	PatientName   string                  `json:"patname"`
	DoctorName    string                  `json:"docname"`
	Details       []MedicineDetailRequest `json:"details" validate:"omitempty,dive"`
}

type UploadPrescriptionResponse struct {
	FileURL string `json:"fileURL"`
}

type MedicineDetailResponse struct {
	Medicine string `json:"medicine"`
	Dose     string `json:"dose"`
	Tip      string `json:"tip"`
}

type PrescriptionResponse struct {
	ID             uuid.UUID                `json:"id"`
	AppointmentID  uuid.UUID                `json:"aptid"`
	PatientID      uuid.UUID                `json:"patid"`
	DoctorID       uuid.UUID                `json:"docid"`
	PatientName    string                   `json:"patname"`
	DoctorName     string                   `json:"docname"`
	Details        []MedicineDetailResponse `json:"details"`
	Prescribed     bool                     `json:"prescribed"`
	FileURL        string                   `json:"file"`
	PrescribedDate string                   `json:"pdate"`
	CreatedAt      time.Time                `json:"created_at"`
}
