package entity

// Role identifies which part of the clinic a user acts for.
type Role string

const (
	RolePatient Role = "Patient"
	RoleDoctor  Role = "Doctor"
	RoleStaff   Role = "Staff"
	RoleAdmin   Role = "Admin"
)

func (r Role) String() string {
	return string(r)
}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// RequiresApproval reports whether accounts of this role must be verified by an admin before sign-in.
func (r Role) RequiresApproval() bool {
	return r != RolePatient
}
