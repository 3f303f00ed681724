package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the single credential record for every role.
type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Role       Role      `gorm:"type:varchar(20);not null;index" json:"userType"`
	FirstName  string    `gorm:"type:varchar(100);not null" json:"fname"`
	LastName   string    `gorm:"type:varchar(100)" json:"lname"`
	Email      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password   string    `gorm:"type:text;not null" json:"-"`
	Verified   bool      `gorm:"not null;default:false;index" json:"verified"`
	Phone      string    `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Gender     string    `gorm:"type:varchar(10)" json:"gender,omitempty"`
	Age        int       `json:"age,omitempty"`
	Speciality string    `gorm:"type:varchar(100)" json:"speciality,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// FullName joins first and last name.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
