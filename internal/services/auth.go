package services

import (
	"errors"
	"fmt"

	"mangrove/internal/db"
	"mangrove/internal/models"
	"mangrove/internal/utils"

	"gorm.io/gorm"
)

// ErrAuthentication marks a failed credential check. It is separate from
// models.ErrAuthorization: bad credentials are a 401, touching someone
// else's resource is a 403.
var ErrAuthentication = errors.New("wrong username or password")

// AuthService handles registration and the access/refresh token lifecycle.
// Refresh tokens are persisted so logout can revoke them before expiry.
type AuthService struct{}

func NewAuthService() *AuthService {
	return &AuthService{}
}

func (s *AuthService) Register(username, password, fullname string) (models.User, error) {
	payload, err := models.NewRegisterUser(username, password, fullname)
	if err != nil {
		return models.User{}, err
	}

	var count int64
	if err := db.DB.Model(&models.User{}).Where("username = ?", payload.Username).Count(&count).Error; err != nil {
		return models.User{}, fmt.Errorf("check username availability: %w", err)
	}
	if count > 0 {
		return models.User{}, fmt.Errorf("username %s is taken: %w", payload.Username, models.ErrInvariant)
	}

	hash, err := utils.HashPassword(payload.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:       utils.GenerateID("user"),
		Username: payload.Username,
		Password: hash,
		Fullname: payload.Fullname,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// Login verifies the credentials and issues an access/refresh token pair.
// The refresh token is stored so it can be revoked later.
func (s *AuthService) Login(username, password string) (accessToken, refreshToken string, err error) {
	payload, err := models.NewUserLogin(username, password)
	if err != nil {
		return "", "", err
	}

	var user models.User
	err = db.DB.Where("username = ?", payload.Username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", "", ErrAuthentication
	}
	if err != nil {
		return "", "", fmt.Errorf("select user: %w", err)
	}

	if !utils.CheckPasswordHash(payload.Password, user.Password) {
		return "", "", ErrAuthentication
	}

	accessToken, err = utils.CreateAccessToken(user.ID, user.Username)
	if err != nil {
		return "", "", fmt.Errorf("create access token: %w", err)
	}
	refreshToken, err = utils.CreateRefreshToken(user.ID, user.Username)
	if err != nil {
		return "", "", fmt.Errorf("create refresh token: %w", err)
	}

	if err := db.DB.Create(&models.Authentication{Token: refreshToken}).Error; err != nil {
		return "", "", fmt.Errorf("store refresh token: %w", err)
	}
	return accessToken, refreshToken, nil
}

// Refresh mints a new access token for a stored, still-valid refresh token.
func (s *AuthService) Refresh(refreshToken string) (string, error) {
	claims, err := utils.ParseRefreshToken(refreshToken)
	if err != nil {
		return "", fmt.Errorf("refresh token rejected: %w", models.ErrValidation)
	}
	if err := s.checkToken(refreshToken); err != nil {
		return "", err
	}
	accessToken, err := utils.CreateAccessToken(claims.UserID, claims.Username)
	if err != nil {
		return "", fmt.Errorf("create access token: %w", err)
	}
	return accessToken, nil
}

// Logout revokes a refresh token by deleting its row.
func (s *AuthService) Logout(refreshToken string) error {
	if err := s.checkToken(refreshToken); err != nil {
		return err
	}
	if err := db.DB.Delete(&models.Authentication{Token: refreshToken}).Error; err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

func (s *AuthService) checkToken(refreshToken string) error {
	var count int64
	if err := db.DB.Model(&models.Authentication{}).Where("token = ?", refreshToken).Count(&count).Error; err != nil {
		return fmt.Errorf("check refresh token: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("refresh token: %w", models.ErrNotFound)
	}
	return nil
}
