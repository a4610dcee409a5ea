package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/urbanshop/urbanshop-backend/pkg/db/models"
	"github.com/urbanshop/urbanshop-backend/pkg/enums"
	pkgerrors "github.com/urbanshop/urbanshop-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the customer account page operations.
type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*ProfileDTO, error)
	ListPaymentMethods(ctx context.Context, userID uuid.UUID) ([]PaymentMethodDTO, error)
	AddPaymentMethod(ctx context.Context, userID uuid.UUID, input PaymentMethodInput) (*PaymentMethodDTO, error)
	SetDefaultPaymentMethod(ctx context.Context, userID, methodID uuid.UUID) error
	DeletePaymentMethod(ctx context.Context, userID, methodID uuid.UUID) error
}

type service struct {
	repo *Repository
	tx   txRunner
}

// NewService constructs a profile service instance.
func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("profile repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toProfileDTO(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*ProfileDTO, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != nil {
		name := strings.TrimSpace(*input.DisplayName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "display name cannot be empty")
		}
		user.DisplayName = name
	}
	if input.Phone != nil {
		user.Phone = input.Phone
	}
	if input.Address != nil {
		user.Address = input.Address
	}
	if input.PhotoURL != nil {
		user.PhotoURL = input.PhotoURL
	}

	updated, err := s.repo.UpdateUser(ctx, user)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
	}
	return toProfileDTO(updated), nil
}

func (s *service) ListPaymentMethods(ctx context.Context, userID uuid.UUID) ([]PaymentMethodDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	methods, err := s.repo.ListPaymentMethods(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payment methods")
	}
	out := make([]PaymentMethodDTO, 0, len(methods))
	for idx := range methods {
		out = append(out, *toPaymentMethodDTO(&methods[idx]))
	}
	return out, nil
}

func (s *service) AddPaymentMethod(ctx context.Context, userID uuid.UUID, input PaymentMethodInput) (*PaymentMethodDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if err := validatePaymentMethod(input); err != nil {
		return nil, err
	}

	method := &models.PaymentMethod{
		ID:        uuid.New(),
		UserID:    userID,
		Kind:      input.Kind,
		Label:     strings.TrimSpace(input.Label),
		LastFour:  input.LastFour,
		Expiry:    input.Expiry,
		BankName:  input.BankName,
		IsDefault: input.IsDefault,
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if input.IsDefault {
			if err := repo.ClearDefault(ctx, userID); err != nil {
				return err
			}
		}
		_, err := repo.CreatePaymentMethod(ctx, method)
		return err
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save payment method")
	}
	return toPaymentMethodDTO(method), nil
}

// SetDefaultPaymentMethod promotes one method; any previous default is
// demoted in the same transaction so at most one remains.
func (s *service) SetDefaultPaymentMethod(ctx context.Context, userID, methodID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		method, err := repo.FindPaymentMethodByID(ctx, methodID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "payment method not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment method")
		}
		if method.UserID != userID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "payment method not found")
		}

		if err := repo.ClearDefault(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear default payment method")
		}
		method.IsDefault = true
		if _, err := repo.UpdatePaymentMethod(ctx, method); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set default payment method")
		}
		return nil
	})
}

func (s *service) DeletePaymentMethod(ctx context.Context, userID, methodID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	method, err := s.repo.FindPaymentMethodByID(ctx, methodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "payment method not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment method")
	}
	if method.UserID != userID {
		return pkgerrors.New(pkgerrors.CodeNotFound, "payment method not found")
	}

	if err := s.repo.DeletePaymentMethod(ctx, methodID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete payment method")
	}
	return nil
}

func (s *service) findUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load account")
	}
	return user, nil
}

func validatePaymentMethod(input PaymentMethodInput) error {
	if !input.Kind.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method kind")
	}
	hasValue := func(v *string) bool {
		return v != nil && strings.TrimSpace(*v) != ""
	}
	switch input.Kind {
	case enums.PaymentMethodKindCard:
		if !hasValue(input.LastFour) || !hasValue(input.Expiry) {
			return pkgerrors.New(pkgerrors.CodeValidation, "card methods require last_four and expiry")
		}
	case enums.PaymentMethodKindBank:
		if !hasValue(input.BankName) {
			return pkgerrors.New(pkgerrors.CodeValidation, "bank methods require bank_name")
		}
	}
	return nil
}
