package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tolldesk/access"
	"tolldesk/db"
	"tolldesk/models"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, IsHash(hash))

	assert.NoError(t, CheckPassword("correct horse", hash))
	assert.Error(t, CheckPassword("wrong horse", hash))

	_, err = HashPassword("short")
	assert.Error(t, err)
}

func TestCheckPlainPassword(t *testing.T) {
	assert.False(t, IsHash("password"))
	assert.NoError(t, CheckPassword("password", "password"))
	assert.Error(t, CheckPassword("Password", "password"))
	assert.Error(t, CheckPassword("", ""))
}

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Minute, time.Hour)
	u := models.User{ID: "3", Username: "east_main", Role: models.RoleStationAdmin}

	token, err := m.GenerateToken(u, "session-1")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "session-1", claims.SessionID())
	assert.Equal(t, models.ID("3"), claims.UserID)
	assert.Equal(t, models.RoleStationAdmin, claims.Role)
	assert.False(t, claims.Refresh)

	refresh, err := m.GenerateRefreshToken(u, "session-1")
	require.NoError(t, err)
	claims, err = m.ValidateToken(refresh)
	require.NoError(t, err)
	assert.True(t, claims.Refresh)
}

func TestJWTRejects(t *testing.T) {
	m := NewJWTManager("test-secret", time.Minute, time.Hour)
	u := models.User{ID: "1", Username: "admin", Role: models.RoleSuperAdmin}

	other := NewJWTManager("other-secret", time.Minute, time.Hour)
	token, err := other.GenerateToken(u, "s")
	require.NoError(t, err)
	_, err = m.ValidateToken(token)
	assert.Error(t, err)

	expired := NewJWTManager("test-secret", -time.Minute, time.Hour)
	token, err = expired.GenerateToken(u, "s")
	require.NoError(t, err)
	_, err = m.ValidateToken(token)
	assert.Error(t, err)

	token, err = m.GenerateToken(u, "")
	require.NoError(t, err)
	_, err = m.ValidateToken(token)
	assert.Error(t, err)

	_, err = m.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestExtractToken(t *testing.T) {
	token, err := ExtractToken("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	_, err = ExtractToken("")
	assert.Error(t, err)
	_, err = ExtractToken("Basic abc")
	assert.Error(t, err)
}

type brokenSource struct {
	db.Source
}

func (brokenSource) Authenticate(context.Context, string) (*models.User, error) {
	return nil, errors.New("connection refused")
}

func TestAuthenticatorLogin(t *testing.T) {
	src := db.NewMemoryDB(db.Dataset{Users: []models.User{
		{ID: "1", Username: "admin", Password: "password", Role: models.RoleSuperAdmin},
	}})
	a := NewAuthenticator(src)
	ctx := context.Background()

	u, err := a.Login(ctx, "admin", "password")
	require.NoError(t, err)
	assert.Equal(t, "admin", u.Username)

	_, err = a.Login(ctx, "admin", "nope")
	assert.ErrorIs(t, err, ErrAuthentication)

	_, err = a.Login(ctx, "nobody", "password")
	assert.ErrorIs(t, err, ErrAuthentication)

	_, err = NewAuthenticator(brokenSource{}).Login(ctx, "admin", "password")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrAuthentication)
}

func TestAuthenticatorDoesNotCheckRole(t *testing.T) {
	src := db.NewMemoryDB(db.Dataset{Users: []models.User{
		{ID: "5", Username: "legacy", Password: "password", Role: "operator"},
	}})

	u, err := NewAuthenticator(src).Login(context.Background(), "legacy", "password")
	require.NoError(t, err)

	_, err = access.ResolveScope(*u)
	var roleErr *access.InvalidRoleError
	assert.True(t, errors.As(err, &roleErr))
}
