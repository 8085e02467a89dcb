package models

import (
	"regexp"
	"time"
)

type User struct {
	ID        string    `gorm:"primaryKey;size:50" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Password  string    `gorm:"not null" json:"-"` // bcrypt hash
	Fullname  string    `gorm:"not null" json:"fullname"`
	CreatedAt time.Time `json:"created_at"`
}

// Authentication stores an issued refresh token. Logging out or rotating
// removes the row, which invalidates the token regardless of its expiry.
type Authentication struct {
	Token string `gorm:"primaryKey;type:text" json:"token"`
}

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// RegisterUser is the validated registration payload.
type RegisterUser struct {
	Username string
	Password string
	Fullname string
}

func NewRegisterUser(username, password, fullname string) (RegisterUser, error) {
	if username == "" {
		return RegisterUser{}, missingProperty("username")
	}
	if password == "" {
		return RegisterUser{}, missingProperty("password")
	}
	if fullname == "" {
		return RegisterUser{}, missingProperty("fullname")
	}
	if len(username) > 50 {
		return RegisterUser{}, &ValidationError{Field: "username", Reason: "must be 50 characters or fewer"}
	}
	if !usernamePattern.MatchString(username) {
		return RegisterUser{}, &ValidationError{Field: "username", Reason: "may only contain letters, numbers and underscores"}
	}
	return RegisterUser{Username: username, Password: password, Fullname: fullname}, nil
}

// UserLogin is the validated login payload.
type UserLogin struct {
	Username string
	Password string
}

func NewUserLogin(username, password string) (UserLogin, error) {
	if username == "" {
		return UserLogin{}, missingProperty("username")
	}
	if password == "" {
		return UserLogin{}, missingProperty("password")
	}
	return UserLogin{Username: username, Password: password}, nil
}
