package models

import (
	"time"
)

// Comment stores both comments and replies in one table. A nil ParentID
// marks a top-level comment; a non-nil one marks a reply to that comment.
// Replies are one level deep only, enforced before insertion.
type Comment struct {
	ID        string    `gorm:"primaryKey;size:50" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	OwnerID   string    `gorm:"column:owner;size:50;not null;index" json:"owner"`
	Owner     User      `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ThreadID  string    `gorm:"size:50;not null;index" json:"thread_id"`
	ParentID  *string   `gorm:"column:comment_id;size:50;index" json:"comment_id"`
	IsDelete  bool      `gorm:"not null;default:false" json:"is_delete"`
	CreatedAt time.Time `json:"date"`
}

// CommentLike is one user's like on one comment. The composite unique index
// is what turns "like" into a toggle: a duplicate insert is rejected by the
// database even when two identical requests race past the existence probe.
type CommentLike struct {
	ID        string    `gorm:"primaryKey;size:50" json:"id"`
	CommentID string    `gorm:"size:50;not null;uniqueIndex:idx_comment_user_like" json:"comment_id"`
	UserID    string    `gorm:"size:50;not null;uniqueIndex:idx_comment_user_like" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (CommentLike) TableName() string {
	return "user_comment_likes"
}

// Tombstone placeholders shown instead of soft-deleted content.
const (
	DeletedCommentMask = "**comment deleted**"
	DeletedReplyMask   = "**reply deleted**"
)

// AddComment is the validated payload for creating a comment or reply.
type AddComment struct {
	Content string
}

func NewAddComment(content string) (AddComment, error) {
	if content == "" {
		return AddComment{}, missingProperty("content")
	}
	return AddComment{Content: content}, nil
}

// AddedComment is the persisted projection returned right after creation.
type AddedComment struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Owner   string `json:"owner"`
}

// DetailComment is the comment view used in thread detail responses.
// The same shape serves replies; a reply carries no nested replies.
type DetailComment struct {
	ID          string          `json:"id"`
	Username    string          `json:"username"`
	Date        time.Time       `json:"date"`
	Content     string          `json:"content"`
	ContentHTML string          `json:"content_html,omitempty"`
	LikeCount   int             `json:"likeCount"`
	Replies     []DetailComment `json:"replies,omitempty"`
}

// NewDetailComment maps a stored row to its view. Tombstoned rows are
// masked here, at construction time, so the mapping stays pure: the
// placeholder depends only on whether the row is a comment or a reply.
func NewDetailComment(comment Comment, username string) (DetailComment, error) {
	if comment.ID == "" {
		return DetailComment{}, missingProperty("id")
	}
	if comment.Content == "" {
		return DetailComment{}, missingProperty("content")
	}
	if username == "" {
		return DetailComment{}, missingProperty("username")
	}
	if comment.CreatedAt.IsZero() {
		return DetailComment{}, &ValidationError{Field: "date", Reason: "must be a valid timestamp"}
	}

	content := comment.Content
	if comment.IsDelete {
		if comment.ParentID != nil {
			content = DeletedReplyMask
		} else {
			content = DeletedCommentMask
		}
	}

	return DetailComment{
		ID:       comment.ID,
		Username: username,
		Date:     comment.CreatedAt,
		Content:  content,
	}, nil
}
