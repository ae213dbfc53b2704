package auth

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/xyz-asif/skycast/internal/pkg/jwt"
	apperrors "github.com/xyz-asif/skycast/pkg/errors"
)

type memUsers struct {
	mu    sync.Mutex
	users map[string]*User // keyed by email
	// skipPrecheck makes FindByEmail miss so the unique index path is tested
	skipPrecheck bool
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[string]*User{}}
}

func (m *memUsers) Create(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Email]; ok {
		return ErrDuplicateEmail
	}
	u.ID = primitive.NewObjectID()
	cp := *u
	m.users[u.Email] = &cp
	return nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.skipPrecheck {
		return nil, nil
	}
	if u, ok := m.users[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *memUsers) FindByID(_ context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID.Hex() == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func newTestService(store UserStore) *Service {
	svc := NewService(store, jwt.DefaultConfig("test-secret"))
	svc.cost = bcrypt.MinCost
	return svc
}

func TestRegister(t *testing.T) {
	store := newMemUsers()
	svc := newTestService(store)

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Name: " Ada ", Email: " Ada@Example.COM ", Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.Equal(t, "Ada", resp.User.Name)
	assert.NotEmpty(t, resp.AccessToken)

	stored := store.users["ada@example.com"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "secret123", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret123")))

	claims, err := jwt.ValidateToken(resp.AccessToken, jwt.DefaultConfig("test-secret"))
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID.Hex(), claims.UserID())
	assert.Equal(t, "ada@example.com", claims.Email)
}

func TestRegister_DuplicateEmailCaseInsensitive(t *testing.T) {
	svc := newTestService(newMemUsers())
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{Name: "A", Email: "a@b.io", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &RegisterRequest{Name: "B", Email: "A@B.IO", Password: "secret2"})
	require.ErrorIs(t, err, apperrors.ErrDuplicate)
	assert.Equal(t, 409, apperrors.HTTPStatus(err))
	assert.Equal(t, "Email already registered", apperrors.Message(err))
}

func TestRegister_DuplicateFromUniqueIndex(t *testing.T) {
	store := newMemUsers()
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{Name: "A", Email: "a@b.io", Password: "secret1"})
	require.NoError(t, err)

	store.skipPrecheck = true
	_, err = svc.Register(ctx, &RegisterRequest{Name: "A", Email: "a@b.io", Password: "secret1"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestRegister_Validation(t *testing.T) {
	svc := newTestService(newMemUsers())

	tests := []struct {
		name    string
		req     RegisterRequest
		message string
	}{
		{"bad email", RegisterRequest{Name: "A", Email: "nope", Password: "secret1"}, "email must be a valid email address"},
		{"short password", RegisterRequest{Name: "A", Email: "a@b.io", Password: "123"}, "password must be at least 6 characters"},
		{"blank name", RegisterRequest{Name: "   ", Email: "a@b.io", Password: "secret1"}, "name is required"},
		{"password over 72 bytes", RegisterRequest{Name: "A", Email: "a@b.io", Password: strings.Repeat("€", 30)}, "password must be at most 72 bytes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), &tt.req)
			require.ErrorIs(t, err, apperrors.ErrValidation)
			assert.Contains(t, apperrors.Message(err), tt.message)
			assert.Equal(t, 400, apperrors.HTTPStatus(err))
		})
	}
}

func TestLogin(t *testing.T) {
	svc := newTestService(newMemUsers())
	ctx := context.Background()

	reg, err := svc.Register(ctx, &RegisterRequest{Name: "A", Email: "a@b.io", Password: "secret1"})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, &LoginRequest{Email: "A@b.io", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, resp.User.ID)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = svc.Login(ctx, &LoginRequest{Email: "a@b.io", Password: "wrong-pass"})
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Equal(t, "Invalid credentials", apperrors.Message(err))

	_, err = svc.Login(ctx, &LoginRequest{Email: "nobody@b.io", Password: "secret1"})
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Equal(t, "Invalid credentials", apperrors.Message(err))
}

func TestCurrentUser(t *testing.T) {
	store := newMemUsers()
	svc := newTestService(store)
	ctx := context.Background()

	reg, err := svc.Register(ctx, &RegisterRequest{Name: "A", Email: "a@b.io", Password: "secret1"})
	require.NoError(t, err)

	store.users["a@b.io"].Name = "Renamed"
	user, err := svc.CurrentUser(ctx, reg.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", user.Name)

	_, err = svc.CurrentUser(ctx, "garbage")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	other, err := jwt.GenerateToken(reg.User.ID.Hex(), "a@b.io", jwt.DefaultConfig("other-secret"))
	require.NoError(t, err)
	_, err = svc.CurrentUser(ctx, other)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	expiredCfg := *jwt.DefaultConfig("test-secret")
	expiredCfg.AccessExpiry = -time.Minute
	expired, err := jwt.GenerateToken(reg.User.ID.Hex(), "a@b.io", &expiredCfg)
	require.NoError(t, err)
	_, err = svc.CurrentUser(ctx, expired)
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Equal(t, "Token has expired", apperrors.Message(err))
}

func TestCurrentUser_FallsBackToEmail(t *testing.T) {
	store := newMemUsers()
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{Name: "A", Email: "a@b.io", Password: "secret1"})
	require.NoError(t, err)

	token, err := jwt.GenerateToken(primitive.NewObjectID().Hex(), "a@b.io", jwt.DefaultConfig("test-secret"))
	require.NoError(t, err)
	user, err := svc.CurrentUser(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "a@b.io", user.Email)

	token, err = jwt.GenerateToken(primitive.NewObjectID().Hex(), "ghost@b.io", jwt.DefaultConfig("test-secret"))
	require.NoError(t, err)
	_, err = svc.CurrentUser(ctx, token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
