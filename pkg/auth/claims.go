package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/metapharm/metapharm-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID     uuid.UUID
	PharmacyID *uuid.UUID
	Role       enums.ProfileRole
}

// AccessTokenClaims represents the typed JWT issued to dashboard clients.
type AccessTokenClaims struct {
	UserID     uuid.UUID         `json:"user_id"`
	PharmacyID *uuid.UUID        `json:"pharmacy_id,omitempty"`
	Role       enums.ProfileRole `json:"role"`
	jwt.RegisteredClaims
}
