package auth

import (
	internal "github.com/frahmantamala/leave-management/internal"
)

// RegisterDTO is the transport shape for registration requests.
type RegisterDTO struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	Role       string  `json:"role"`
	Department *string `json:"department,omitempty"`
}

func (d RegisterDTO) Validate() error {
	if d.Name == "" {
		return internal.NewValidationError("name is required", internal.ErrCodeValidationFailed)
	}
	if d.Email == "" {
		return internal.NewValidationError("email is required", internal.ErrCodeValidationFailed)
	}
	if d.Password == "" {
		return internal.NewValidationError("password is required", internal.ErrCodeValidationFailed)
	}
	if _, err := ParseRole(d.Role); err != nil {
		return internal.NewValidationError("role must be one of student, faculty, admin", internal.ErrCodeInvalidRole)
	}
	return nil
}

// LoginDTO is the transport shape for login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() error {
	if d.Email == "" {
		return internal.NewValidationError("email is required", internal.ErrCodeValidationFailed)
	}
	if d.Password == "" {
		return internal.NewValidationError("password is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// LoginResult is returned by a successful login: the session token plus the
// user it belongs to.
type LoginResult struct {
	Token string   `json:"token"`
	User  Identity `json:"user"`
}
