package models

import (
	"time"
)

type Thread struct {
	ID        string    `gorm:"primaryKey;size:50" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	OwnerID   string    `gorm:"column:owner;size:50;not null;index" json:"owner"`
	Owner     User      `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedAt time.Time `json:"date"`
}

// AddThread is the validated payload for creating a thread.
type AddThread struct {
	Title string
	Body  string
}

func NewAddThread(title, body string) (AddThread, error) {
	if title == "" {
		return AddThread{}, missingProperty("title")
	}
	if body == "" {
		return AddThread{}, missingProperty("body")
	}
	if len(title) > 255 {
		return AddThread{}, &ValidationError{Field: "title", Reason: "must be 255 characters or fewer"}
	}
	return AddThread{Title: title, Body: body}, nil
}

// AddedThread is the persisted projection returned right after creation.
type AddedThread struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Owner string `json:"owner"`
}

// DetailThread is the full thread view: the thread row joined with its
// owner's username, plus the nested comment tree assembled by the service.
type DetailThread struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Body     string          `json:"body"`
	Date     time.Time       `json:"date"`
	Username string          `json:"username"`
	Comments []DetailComment `json:"comments"`
}

func NewDetailThread(thread Thread, username string) (DetailThread, error) {
	if thread.ID == "" {
		return DetailThread{}, missingProperty("id")
	}
	if thread.Title == "" {
		return DetailThread{}, missingProperty("title")
	}
	if thread.Body == "" {
		return DetailThread{}, missingProperty("body")
	}
	if username == "" {
		return DetailThread{}, missingProperty("username")
	}
	if thread.CreatedAt.IsZero() {
		return DetailThread{}, &ValidationError{Field: "date", Reason: "must be a valid timestamp"}
	}
	return DetailThread{
		ID:       thread.ID,
		Title:    thread.Title,
		Body:     thread.Body,
		Date:     thread.CreatedAt,
		Username: username,
		Comments: []DetailComment{},
	}, nil
}
