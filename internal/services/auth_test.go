package services

import (
	"path/filepath"
	"testing"

	"mangrove/internal/db"
	"mangrove/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupAuthDB(t *testing.T) {
	t.Helper()
	g, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(g))
	db.DB = g
}

func TestRegister(t *testing.T) {
	setupAuthDB(t)
	s := NewAuthService()

	user, err := s.Register("dicoding", "secret", "Dicoding Indonesia")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "dicoding", user.Username)
	assert.NotEqual(t, "secret", user.Password, "password must be stored hashed")

	t.Run("duplicate username", func(t *testing.T) {
		_, err := s.Register("dicoding", "other", "Someone Else")
		assert.ErrorIs(t, err, models.ErrInvariant)
	})

	t.Run("invalid payload", func(t *testing.T) {
		_, err := s.Register("", "secret", "No Name")
		assert.ErrorIs(t, err, models.ErrValidation)

		_, err = s.Register("has spaces", "secret", "Bad Username")
		assert.ErrorIs(t, err, models.ErrValidation)
	})
}

func TestLogin(t *testing.T) {
	setupAuthDB(t)
	s := NewAuthService()
	_, err := s.Register("dicoding", "secret", "Dicoding Indonesia")
	require.NoError(t, err)

	t.Run("valid credentials issue a token pair", func(t *testing.T) {
		access, refresh, err := s.Login("dicoding", "secret")
		require.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)

		var count int64
		db.DB.Model(&models.Authentication{}).Count(&count)
		assert.EqualValues(t, 1, count, "refresh token should be stored")
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := s.Login("dicoding", "nope")
		assert.ErrorIs(t, err, ErrAuthentication)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, _, err := s.Login("ghost", "secret")
		assert.ErrorIs(t, err, ErrAuthentication)
	})
}

func TestRefreshAndLogout(t *testing.T) {
	setupAuthDB(t)
	s := NewAuthService()
	_, err := s.Register("dicoding", "secret", "Dicoding Indonesia")
	require.NoError(t, err)

	_, refresh, err := s.Login("dicoding", "secret")
	require.NoError(t, err)

	access, err := s.Refresh(refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access)

	t.Run("garbage refresh token", func(t *testing.T) {
		_, err := s.Refresh("not-a-jwt")
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	require.NoError(t, s.Logout(refresh))

	t.Run("revoked token cannot refresh", func(t *testing.T) {
		_, err := s.Refresh(refresh)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("double logout", func(t *testing.T) {
		assert.ErrorIs(t, s.Logout(refresh), models.ErrNotFound)
	})
}
