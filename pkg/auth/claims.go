package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID      uuid.UUID
	Email       string
	DisplayName string
	JTI         string
}

// AccessTokenClaims represents the typed JWT issued to clients. Admin
// privileges are deliberately absent: the allow-list is checked live on every
// admin request instead of being frozen into the token.
type AccessTokenClaims struct {
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name,omitempty"`
	jwt.RegisteredClaims
}
