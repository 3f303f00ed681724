package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type MedicineDetail struct {
	Medicine string `json:"medicine"`
	Dose     string `json:"dose"`
	Tip      string `json:"tip"`
}

// MedicineDetails is stored as a jsonb array.
type MedicineDetails []MedicineDetail

func (m MedicineDetails) Value() (driver.Value, error) {
	if m == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(m)
}

func (m *MedicineDetails) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal medicine details:", value))
	}
	return json.Unmarshal(bytes, m)
}

// Prescription is written once per generated document and never updated.
type Prescription struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AppointmentID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	PatientID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	DoctorID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	PatientName    string          `gorm:"type:varchar(200);not null"`
	DoctorName     string          `gorm:"type:varchar(200);not null"`
	Details        MedicineDetails `gorm:"type:jsonb;not null"`
	Prescribed     bool            `gorm:"not null;default:true"`
	FileURL        string          `gorm:"type:text;not null"`
	PrescribedDate string          `gorm:"type:varchar(50);not null"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
}

func (Prescription) TableName() string {
	return "prescriptions"
}
