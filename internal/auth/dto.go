package auth

import (
	"github.com/google/uuid"

	"github.com/metapharm/metapharm-backend/pkg/enums"
)

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the token and profile summary produced by a
// successful login.
type LoginResponse struct {
	AccessToken string            `json:"access_token"`
	UserID      uuid.UUID         `json:"user_id"`
	Role        enums.ProfileRole `json:"role"`
	PharmacyID  *uuid.UUID        `json:"pharmacy_id,omitempty"`
	FullName    string            `json:"full_name"`
}

// ProvisionRequest describes a new pharmacy tenant and its first
// pharmacist account.
type ProvisionRequest struct {
	PharmacyName    string  `json:"pharmacy_name" validate:"required"`
	Quartier        string  `json:"quartier"`
	Lat             float64 `json:"lat" validate:"required"`
	Lng             float64 `json:"lng" validate:"required"`
	Phone           *string `json:"phone,omitempty"`
	PharmacistName  string  `json:"pharmacist_name" validate:"required"`
	PharmacistEmail string  `json:"pharmacist_email" validate:"required,email"`
	InitialPassword string  `json:"initial_password,omitempty"`
}

// ProvisionResponse reports the rows created by a provisioning call.
// TempPassword is only set when no initial password was supplied.
type ProvisionResponse struct {
	PharmacyID   uuid.UUID `json:"pharmacy_id"`
	UserID       uuid.UUID `json:"user_id"`
	Email        string    `json:"email"`
	TempPassword string    `json:"temp_password,omitempty"`
}
