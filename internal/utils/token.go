package utils

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carried by both access and refresh tokens.
type Claims struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

const (
	AccessTokenExpiration  = 15 * time.Minute
	RefreshTokenExpiration = 14 * 24 * time.Hour
)

var ErrInvalidToken = errors.New("invalid token")

func accessTokenKey() []byte {
	key := os.Getenv("ACCESS_TOKEN_KEY")
	if key == "" {
		key = "access_secret_change_me"
	}
	return []byte(key)
}

func refreshTokenKey() []byte {
	key := os.Getenv("REFRESH_TOKEN_KEY")
	if key == "" {
		key = "refresh_secret_change_me"
	}
	return []byte(key)
}

func createToken(userID, username string, key []byte, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

func parseToken(tokenString string, key []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return key, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func CreateAccessToken(userID, username string) (string, error) {
	return createToken(userID, username, accessTokenKey(), AccessTokenExpiration)
}

func CreateRefreshToken(userID, username string) (string, error) {
	return createToken(userID, username, refreshTokenKey(), RefreshTokenExpiration)
}

func ParseAccessToken(tokenString string) (*Claims, error) {
	return parseToken(tokenString, accessTokenKey())
}

func ParseRefreshToken(tokenString string) (*Claims, error) {
	return parseToken(tokenString, refreshTokenKey())
}
