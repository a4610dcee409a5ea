package profile

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/urbanshop/urbanshop-backend/pkg/db/models"
	"github.com/urbanshop/urbanshop-backend/pkg/enums"
	pkgerrors "github.com/urbanshop/urbanshop-backend/pkg/errors"
)

type profileTxRunner struct {
	db *gorm.DB
}

func (r profileTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func setupProfileTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			display_name TEXT NOT NULL,
			phone TEXT,
			address TEXT,
			photo_url TEXT,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			last_login_at DATETIME,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE payment_methods (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			kind TEXT NOT NULL DEFAULT 'card',
			label TEXT NOT NULL,
			last_four TEXT,
			expiry TEXT,
			bank_name TEXT,
			is_default BOOLEAN NOT NULL DEFAULT FALSE,
			created_at DATETIME,
			updated_at DATETIME
		)`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newTestProfileService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := setupProfileTestDB(t)
	svc, err := NewService(NewRepository(db), profileTxRunner{db: db})
	require.NoError(t, err)
	return svc, db
}

func seedAccount(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Email:        "shopper@example.com",
		PasswordHash: "x",
		DisplayName:  "Shopper",
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func strPtr(v string) *string { return &v }

func TestUpdateProfilePartial(t *testing.T) {
	svc, db := newTestProfileService(t)
	user := seedAccount(t, db)

	got, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{
		Phone: strPtr("+1 555 0100"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Shopper", got.DisplayName)
	require.NotNil(t, got.Phone)
	assert.Equal(t, "+1 555 0100", *got.Phone)

	got, err = svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{
		DisplayName: strPtr("  Night Owl  "),
	})
	require.NoError(t, err)
	assert.Equal(t, "Night Owl", got.DisplayName)
	require.NotNil(t, got.Phone)
	assert.Equal(t, "+1 555 0100", *got.Phone)
}

func TestUpdateProfileRejectsEmptyName(t *testing.T) {
	svc, db := newTestProfileService(t)
	user := seedAccount(t, db)

	_, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{
		DisplayName: strPtr("   "),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestAddPaymentMethodKindValidation(t *testing.T) {
	svc, db := newTestProfileService(t)
	user := seedAccount(t, db)

	cases := []struct {
		name  string
		input PaymentMethodInput
	}{
		{"unknown kind", PaymentMethodInput{Kind: "crypto", Label: "Wallet"}},
		{"card missing digits", PaymentMethodInput{Kind: enums.PaymentMethodKindCard, Label: "Visa"}},
		{"bank missing name", PaymentMethodInput{Kind: enums.PaymentMethodKindBank, Label: "Checking"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.AddPaymentMethod(context.Background(), user.ID, tc.input)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}

func TestAddPaymentMethodDefaultDemotesPrevious(t *testing.T) {
	svc, db := newTestProfileService(t)
	user := seedAccount(t, db)
	ctx := context.Background()

	first, err := svc.AddPaymentMethod(ctx, user.ID, PaymentMethodInput{
		Kind:      enums.PaymentMethodKindCard,
		Label:     "Visa",
		LastFour:  strPtr("4242"),
		Expiry:    strPtr("12/27"),
		IsDefault: true,
	})
	require.NoError(t, err)
	assert.True(t, first.IsDefault)

	second, err := svc.AddPaymentMethod(ctx, user.ID, PaymentMethodInput{
		Kind:      enums.PaymentMethodKindBank,
		Label:     "Checking",
		BankName:  strPtr("First National"),
		IsDefault: true,
	})
	require.NoError(t, err)
	assert.True(t, second.IsDefault)

	methods, err := svc.ListPaymentMethods(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, methods, 2)

	defaults := 0
	for _, m := range methods {
		if m.IsDefault {
			defaults++
			assert.Equal(t, second.ID, m.ID)
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestSetDefaultPaymentMethod(t *testing.T) {
	svc, db := newTestProfileService(t)
	user := seedAccount(t, db)
	ctx := context.Background()

	first, err := svc.AddPaymentMethod(ctx, user.ID, PaymentMethodInput{
		Kind:      enums.PaymentMethodKindCard,
		Label:     "Visa",
		LastFour:  strPtr("4242"),
		Expiry:    strPtr("12/27"),
		IsDefault: true,
	})
	require.NoError(t, err)

	second, err := svc.AddPaymentMethod(ctx, user.ID, PaymentMethodInput{
		Kind:  enums.PaymentMethodKindPayPal,
		Label: "PayPal",
	})
	require.NoError(t, err)

	require.NoError(t, svc.SetDefaultPaymentMethod(ctx, user.ID, second.ID))

	methods, err := svc.ListPaymentMethods(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, methods, 2)
	// default first per list ordering
	assert.Equal(t, second.ID, methods[0].ID)
	assert.True(t, methods[0].IsDefault)
	assert.Equal(t, first.ID, methods[1].ID)
	assert.False(t, methods[1].IsDefault)
}

func TestPaymentMethodOwnershipIsolation(t *testing.T) {
	svc, db := newTestProfileService(t)
	owner := seedAccount(t, db)
	intruder := &models.User{
		ID:           uuid.New(),
		Email:        "other@example.com",
		PasswordHash: "x",
		DisplayName:  "Other",
		IsActive:     true,
	}
	require.NoError(t, db.Create(intruder).Error)
	ctx := context.Background()

	method, err := svc.AddPaymentMethod(ctx, owner.ID, PaymentMethodInput{
		Kind:     enums.PaymentMethodKindCard,
		Label:    "Visa",
		LastFour: strPtr("4242"),
		Expiry:   strPtr("12/27"),
	})
	require.NoError(t, err)

	err = svc.DeletePaymentMethod(ctx, intruder.ID, method.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	err = svc.SetDefaultPaymentMethod(ctx, intruder.ID, method.ID)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	// owner can still delete it
	require.NoError(t, svc.DeletePaymentMethod(ctx, owner.ID, method.ID))
	methods, err := svc.ListPaymentMethods(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, methods)
}
