package dto

// UpdateMeDTO carries the self-service profile fields. Password fields are
// decoded but never applied; their presence is rejected so credential
// changes only happen through the password endpoints.
type UpdateMeDTO struct {
	Name            *string `json:"name"`
	Email           *string `json:"email" binding:"omitempty,email"`
	Photo           *string `json:"photo"`
	Password        string  `json:"password"`
	PasswordConfirm string  `json:"passwordConfirm"`
}

// UpdateUserDTO is the admin-side patch, all fields optional pointers.
type UpdateUserDTO struct {
	Name   *string `json:"name"`
	Email  *string `json:"email" binding:"omitempty,email"`
	Role   *string `json:"role" binding:"omitempty,oneof=user guide lead-guide admin"`
	Active *bool   `json:"active"`
}
