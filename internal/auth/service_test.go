package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/urbanshop/urbanshop-backend/pkg/config"
	"github.com/urbanshop/urbanshop-backend/pkg/db/models"
	pkgerrors "github.com/urbanshop/urbanshop-backend/pkg/errors"
	"github.com/urbanshop/urbanshop-backend/pkg/security"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "urbanshop-test",
	ExpirationMinutes: 15,
}

var testPasswordConfig = config.PasswordConfig{
	ArgonMemoryKB:    8,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

type stubUserStore struct {
	byEmail map[string]*models.User
	byID    map[uuid.UUID]*models.User
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{
		byEmail: map[string]*models.User{},
		byID:    map[uuid.UUID]*models.User{},
	}
}

func (s *stubUserStore) add(user *models.User) {
	s.byEmail[user.Email] = user
	s.byID[user.ID] = user
}

func (s *stubUserStore) Create(ctx context.Context, user *models.User) (*models.User, error) {
	s.add(user)
	return user, nil
}

func (s *stubUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := s.byID[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserStore) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return nil
}

type stubGrantStore struct {
	grants map[uuid.UUID]bool
}

func newStubGrantStore() *stubGrantStore {
	return &stubGrantStore{grants: map[uuid.UUID]bool{}}
}

func (s *stubGrantStore) HasGrant(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.grants[userID], nil
}

func (s *stubGrantStore) Upsert(ctx context.Context, grant *models.AdminGrant) error {
	s.grants[grant.UserID] = true
	return nil
}

type stubSessionManager struct {
	revoked []string
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	return "refresh-" + accessID, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	return uuid.NewString(), "rotated-refresh", nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func newTestAuthService(t *testing.T, users *stubUserStore, grants *stubGrantStore) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Users:          users,
		Grants:         grants,
		SessionManager: &stubSessionManager{},
		JWTConfig:      testJWTConfig,
		PasswordConfig: testPasswordConfig,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seedUser(t *testing.T, users *stubUserStore, email, password string, active bool) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		DisplayName:  "Test Customer",
		IsActive:     active,
	}
	users.add(user)
	return user
}

func TestRegisterIssuesTokens(t *testing.T) {
	users := newStubUserStore()
	svc := newTestAuthService(t, users, newStubGrantStore())

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:       "  New@Example.COM ",
		Password:    "hunter2hunter2",
		DisplayName: "New Customer",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatalf("expected token pair, got %+v", resp)
	}
	if resp.User.Email != "new@example.com" {
		t.Fatalf("expected normalized email, got %q", resp.User.Email)
	}
	if resp.User.IsAdmin {
		t.Fatalf("fresh accounts must not be admin")
	}
	if _, ok := users.byEmail["new@example.com"]; !ok {
		t.Fatalf("user was not persisted")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newStubUserStore()
	seedUser(t, users, "taken@example.com", "password123", true)
	svc := newTestAuthService(t, users, newStubGrantStore())

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:       "taken@example.com",
		Password:    "password123",
		DisplayName: "Dup",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLoginSuccess(t *testing.T) {
	users := newStubUserStore()
	user := seedUser(t, users, "shopper@example.com", "password123", true)
	grants := newStubGrantStore()
	grants.grants[user.ID] = true
	svc := newTestAuthService(t, users, grants)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Shopper@Example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !resp.User.IsAdmin {
		t.Fatalf("expected admin flag from allow-list")
	}
	if resp.AccessToken == "" {
		t.Fatalf("expected access token")
	}
}

func TestLoginRejectsBadPasswordAndInactive(t *testing.T) {
	users := newStubUserStore()
	seedUser(t, users, "shopper@example.com", "password123", true)
	seedUser(t, users, "inactive@example.com", "password123", false)
	svc := newTestAuthService(t, users, newStubGrantStore())

	cases := []LoginRequest{
		{Email: "shopper@example.com", Password: "wrong"},
		{Email: "inactive@example.com", Password: "password123"},
		{Email: "missing@example.com", Password: "password123"},
	}
	for _, req := range cases {
		_, err := svc.Login(context.Background(), req)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
			t.Errorf("login %s: expected unauthorized, got %v", req.Email, err)
		}
	}
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	svc := newTestAuthService(t, newStubUserStore(), newStubGrantStore())

	_, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  "not-a-jwt",
		RefreshToken: "whatever",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestIsAdminReflectsLiveGrants(t *testing.T) {
	users := newStubUserStore()
	user := seedUser(t, users, "ops@example.com", "password123", true)
	grants := newStubGrantStore()
	svc := newTestAuthService(t, users, grants)

	isAdmin, err := svc.IsAdmin(context.Background(), user.ID)
	if err != nil || isAdmin {
		t.Fatalf("expected no grant, got %v %v", isAdmin, err)
	}

	grants.grants[user.ID] = true
	isAdmin, err = svc.IsAdmin(context.Background(), user.ID)
	if err != nil || !isAdmin {
		t.Fatalf("expected grant, got %v %v", isAdmin, err)
	}

	// revocation applies on the next check, no token re-issue needed
	grants.grants[user.ID] = false
	isAdmin, err = svc.IsAdmin(context.Background(), user.ID)
	if err != nil || isAdmin {
		t.Fatalf("expected revoked grant, got %v %v", isAdmin, err)
	}
}

func TestMeReturnsAccountWithAdminFlag(t *testing.T) {
	users := newStubUserStore()
	user := seedUser(t, users, "shopper@example.com", "password123", true)
	grants := newStubGrantStore()
	svc := newTestAuthService(t, users, grants)

	dto, err := svc.Me(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if dto.ID != user.ID || dto.Email != "shopper@example.com" {
		t.Fatalf("unexpected account: %+v", dto)
	}
	if dto.IsAdmin {
		t.Fatalf("expected non-admin account")
	}

	grants.grants[user.ID] = true
	dto, err = svc.Me(context.Background(), user.ID)
	if err != nil || !dto.IsAdmin {
		t.Fatalf("expected admin flag after grant, got %+v %v", dto, err)
	}
}

func TestMeRejectsUnknownAccount(t *testing.T) {
	svc := newTestAuthService(t, newStubUserStore(), newStubGrantStore())

	_, err := svc.Me(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
