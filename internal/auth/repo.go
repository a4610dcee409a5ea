package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/urbanshop/urbanshop-backend/pkg/db/models"
)

// UserRepository exposes account persistence operations.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository constructs a users repo bound to the provided GORM DB.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	if tx == nil {
		return r
	}
	return &UserRepository{db: tx}
}

// Create inserts a new user and returns the persisted model.
func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateLastLogin refreshes the user's last_login_at timestamp.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

// Update persists the full user row.
func (r *UserRepository) Update(ctx context.Context, user *models.User) (*models.User, error) {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// AdminGrantRepository manages the allow-list gating the admin panel.
type AdminGrantRepository struct {
	db *gorm.DB
}

// NewAdminGrantRepository constructs an admin grant repo.
func NewAdminGrantRepository(db *gorm.DB) *AdminGrantRepository {
	return &AdminGrantRepository{db: db}
}

// HasGrant reports whether the user currently holds an admin grant.
func (r *AdminGrantRepository) HasGrant(ctx context.Context, userID uuid.UUID) (bool, error) {
	var grant models.AdminGrant
	err := r.db.WithContext(ctx).First(&grant, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Upsert writes one grant, replaying safely on restart.
func (r *AdminGrantRepository) Upsert(ctx context.Context, grant *models.AdminGrant) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(grant).Error
}

// Delete revokes a grant; the change applies on the user's next request.
func (r *AdminGrantRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.AdminGrant{}).Error
}
