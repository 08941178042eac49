package services

import (
	"context"
	"testing"
	"time"

	"github.com/Kariqs/storefront-api/models"
	"github.com/Kariqs/storefront-api/store/memstore"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuth(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(memstore.New().Stores().Users, "test-secret", time.Hour, zap.NewNop())
}

func TestRegisterAndLogin(t *testing.T) {
	auth := newAuth(t)
	ctx := context.Background()

	user, token, err := auth.Register(ctx, RegisterInput{Name: "Ravi", Email: " Ravi@Example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "ravi@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "secret1", user.Password)
	assert.NotEmpty(t, token)

	_, _, err = auth.Register(ctx, RegisterInput{Name: "Ravi", Email: "ravi@example.com", Password: "secret1"})
	requireKind(t, err, KindValidation)

	logged, token, err := auth.Login(ctx, models.LoginData{Email: "RAVI@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	identity, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.UserID)
	assert.False(t, identity.IsAdmin())

	_, _, err = auth.Login(ctx, models.LoginData{Email: "ravi@example.com", Password: "wrong"})
	requireKind(t, err, KindAuth)
	_, _, err = auth.Login(ctx, models.LoginData{Email: "nobody@example.com", Password: "secret1"})
	requireKind(t, err, KindAuth)
}

func TestParseTokenFailures(t *testing.T) {
	auth := newAuth(t)
	user := models.User{ID: "u-1", Role: models.RoleAdmin}

	t.Run("missing", func(t *testing.T) {
		_, err := auth.ParseToken("")
		requireKind(t, err, KindAuth)
		assert.Equal(t, "No token provided", MessageOf(err))
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := auth.ParseToken("not.a.token")
		assert.Equal(t, "Invalid token", MessageOf(err))
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewAuthService(nil, "other-secret", time.Hour, zap.NewNop())
		token, err := other.IssueToken(user)
		require.NoError(t, err)
		_, err = auth.ParseToken(token)
		assert.Equal(t, "Invalid token", MessageOf(err))
	})

	t.Run("expired", func(t *testing.T) {
		token, err := auth.IssueToken(user)
		require.NoError(t, err)
		later := *auth
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err = later.ParseToken(token)
		requireKind(t, err, KindAuth)
		assert.Equal(t, "Token expired", MessageOf(err))
	})

	t.Run("unexpected algorithm", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{UserID: "u-1"})
		signed, err := token.SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = auth.ParseToken(signed)
		assert.Equal(t, "Invalid token", MessageOf(err))
	})

	t.Run("admin role survives round trip", func(t *testing.T) {
		token, err := auth.IssueToken(user)
		require.NoError(t, err)
		identity, err := auth.ParseToken(token)
		require.NoError(t, err)
		assert.True(t, identity.IsAdmin())
	})
}

func TestUpdateProfileCompletesShippingAddress(t *testing.T) {
	auth := newAuth(t)
	ctx := context.Background()
	user, _, err := auth.Register(ctx, RegisterInput{Name: "Ravi", Email: "ravi@example.com", Password: "secret1"})
	require.NoError(t, err)
	_, ok := user.ShippingAddress()
	assert.False(t, ok)

	str := func(s string) *string { return &s }
	updated, err := auth.UpdateProfile(ctx, user.ID, ProfileInput{
		Phone: str("9876543210"), Address: str("1 Park St"), City: str("Kolkata"), State: str("WB"), PinCode: str("700016"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ravi", updated.Name)
	addr, ok := updated.ShippingAddress()
	assert.True(t, ok)
	assert.Equal(t, "700016", addr.PinCode)

	_, err = auth.UpdateProfile(ctx, user.ID, ProfileInput{Name: str("  ")})
	requireKind(t, err, KindValidation)
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	auth := newAuth(t)
	ctx := context.Background()

	first, err := auth.EnsureAdmin(ctx, "Boss", "admin@example.com", "adminpass")
	require.NoError(t, err)
	assert.True(t, first.IsAdmin())

	second, err := auth.EnsureAdmin(ctx, "Other", "ADMIN@example.com", "changed")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, _, err = auth.Login(ctx, models.LoginData{Email: "admin@example.com", Password: "adminpass"})
	require.NoError(t, err)
}
