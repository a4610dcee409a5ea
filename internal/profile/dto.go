package profile

import (
	"time"

	"github.com/google/uuid"

	"github.com/urbanshop/urbanshop-backend/pkg/db/models"
	"github.com/urbanshop/urbanshop-backend/pkg/enums"
)

// ProfileDTO is the account page view of a user.
type ProfileDTO struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Phone       *string   `json:"phone,omitempty"`
	Address     *string   `json:"address,omitempty"`
	PhotoURL    *string   `json:"photo_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// UpdateProfileInput holds optional profile mutations. Nil fields are left
// untouched.
type UpdateProfileInput struct {
	DisplayName *string
	Phone       *string
	Address     *string
	PhotoURL    *string
}

// PaymentMethodDTO is one saved payment method on the wire. Only display
// metadata is stored; no card numbers.
type PaymentMethodDTO struct {
	ID        uuid.UUID              `json:"id"`
	Kind      enums.PaymentMethodKind `json:"kind"`
	Label     string                 `json:"label"`
	LastFour  *string                `json:"last_four,omitempty"`
	Expiry    *string                `json:"expiry,omitempty"`
	BankName  *string                `json:"bank_name,omitempty"`
	IsDefault bool                   `json:"is_default"`
	CreatedAt time.Time              `json:"created_at"`
}

// PaymentMethodInput carries the payload to save a payment method.
type PaymentMethodInput struct {
	Kind      enums.PaymentMethodKind
	Label     string
	LastFour  *string
	Expiry    *string
	BankName  *string
	IsDefault bool
}

func toProfileDTO(user *models.User) *ProfileDTO {
	if user == nil {
		return nil
	}
	return &ProfileDTO{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Phone:       user.Phone,
		Address:     user.Address,
		PhotoURL:    user.PhotoURL,
		CreatedAt:   user.CreatedAt,
	}
}

func toPaymentMethodDTO(method *models.PaymentMethod) *PaymentMethodDTO {
	if method == nil {
		return nil
	}
	return &PaymentMethodDTO{
		ID:        method.ID,
		Kind:      method.Kind,
		Label:     method.Label,
		LastFour:  method.LastFour,
		Expiry:    method.Expiry,
		BankName:  method.BankName,
		IsDefault: method.IsDefault,
		CreatedAt: method.CreatedAt,
	}
}
