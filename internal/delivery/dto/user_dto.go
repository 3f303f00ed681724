package dto

type FindUserRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type UserIDRequest struct {
	UserID string `json:"id" validate:"required,uuid"`
}

type RegisterPatientRequest struct {
	FirstName string `json:"fname" validate:"required,max=100"`
	LastName  string `json:"lname" validate:"omitempty,max=100"`
	Email     string `json:"email" validate:"required,email"`
}
