package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type BookAppointmentRequest struct {
	PatientID string          `json:"patid" validate:"required,uuid"`
	DoctorID  string          `json:"docid" validate:"required,uuid"`
	Date      string          `json:"doa" validate:"required,datetime=2006-01-02"`
	Fee       decimal.Decimal `json:"fee" validate:"required,gt=0,money"`
}

type AppointmentIDRequest struct {
	AppointmentID string `json:"aptid" validate:"required,uuid"`
}

type DoctorIDRequest struct {
	DoctorID string `json:"docid" validate:"required,uuid"`
}

type PatientIDRequest struct {
	PatientID string `json:"patid" validate:"required,uuid"`
}

type WriteFeedbackRequest struct {
	AppointmentID string `json:"aptid" validate:"required,uuid"`
	Review        string `json:"review" validate:"omitempty,max=2000"`
	Rating        int    `json:"rating" validate:"required,min=1,max=5"`
}

// Response DTOs

type AppointmentResponse struct {
	ID          uuid.UUID       `json:"aptid"`
	PatientID   uuid.UUID       `json:"patid"`
	DoctorID    uuid.UUID       `json:"docid"`
	PatientName string          `json:"patname"`
	DoctorName  string          `json:"docname"`
	Date        string          `json:"doa"`
	Fee         decimal.Decimal `json:"fee"`
	PaymentID   *uuid.UUID      `json:"paymentId"`
	Completed   bool            `json:"completed"`
	Feedback    bool            `json:"feedback"`
	Review      string          `json:"review,omitempty"`
	Rating      *int            `json:"rating,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type FeedbackResponse struct {
	AppointmentID uuid.UUID `json:"aptid"`
	DoctorID      uuid.UUID `json:"docid"`
	PatientName   string    `json:"patname"`
	DoctorName    string    `json:"docname"`
	Date          string    `json:"doa"`
	Review        string    `json:"review"`
	Rating        *int      `json:"rating"`
}

// DoctorStatsResponse.AverageRating is either a float rounded to two places or the string "No ratings".
type DoctorStatsResponse struct {
	DoctorID          uuid.UUID       `json:"docid"`
	TotalAppointments int             `json:"totalAppointments"`
	UniquePatients    int             `json:"uniquePatients"`
	TotalEarnings     decimal.Decimal `json:"totalEarnings"`
	FeedbackCount     int             `json:"feedbackCount"`
	AverageRating     interface{}     `json:"averageRating"`
}
