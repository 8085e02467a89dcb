package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mangrove/internal/models"
	"mangrove/internal/utils"

	"gorm.io/gorm"
)

// GormThreadRepository implements ThreadRepository on a relational database
// through GORM. Row ids are generated at write time as <kind>-<random>.
type GormThreadRepository struct {
	db    *gorm.DB
	newID func(kind string) string
}

var _ ThreadRepository = (*GormThreadRepository)(nil)

func NewThreadRepository(db *gorm.DB) *GormThreadRepository {
	return &GormThreadRepository{db: db, newID: utils.GenerateID}
}

func (r *GormThreadRepository) AddThread(ctx context.Context, owner string, thread models.AddThread) (models.AddedThread, error) {
	row := models.Thread{
		ID:      r.newID("thread"),
		Title:   thread.Title,
		Body:    thread.Body,
		OwnerID: owner,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.AddedThread{}, fmt.Errorf("insert thread: %w", err)
	}
	return models.AddedThread{ID: row.ID, Title: row.Title, Owner: row.OwnerID}, nil
}

func (r *GormThreadRepository) GetThreadByID(ctx context.Context, threadID string) (models.DetailThread, error) {
	var row models.Thread
	err := r.db.WithContext(ctx).Preload("Owner").Where("id = ?", threadID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DetailThread{}, fmt.Errorf("thread %s: %w", threadID, models.ErrNotFound)
	}
	if err != nil {
		return models.DetailThread{}, fmt.Errorf("select thread: %w", err)
	}
	return models.NewDetailThread(row, row.Owner.Username)
}

func (r *GormThreadRepository) AddComment(ctx context.Context, owner, threadID string, comment models.AddComment) (models.AddedComment, error) {
	row := models.Comment{
		ID:       r.newID("comment"),
		Content:  comment.Content,
		OwnerID:  owner,
		ThreadID: threadID,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.AddedComment{}, fmt.Errorf("insert comment: %w", err)
	}
	return models.AddedComment{ID: row.ID, Content: row.Content, Owner: row.OwnerID}, nil
}

// softDelete flips is_delete on a comments row. The update is keyed only by
// id, so re-deleting an already-deleted row still matches and succeeds;
// zero affected rows means the id never existed.
func (r *GormThreadRepository) softDelete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).Update("is_delete", true)
	if res.Error != nil {
		return fmt.Errorf("soft delete %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("comment %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func (r *GormThreadRepository) SoftDeleteCommentByCommentID(ctx context.Context, commentID string) error {
	return r.softDelete(ctx, commentID)
}

func (r *GormThreadRepository) SoftDeleteReplyByReplyID(ctx context.Context, replyID string) error {
	return r.softDelete(ctx, replyID)
}

func (r *GormThreadRepository) VerifyCommentOwner(ctx context.Context, owner, threadID, commentID string) error {
	var row models.Comment
	err := r.db.WithContext(ctx).Where("thread_id = ? AND id = ?", threadID, commentID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("comment %s: %w", commentID, models.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("select comment: %w", err)
	}
	if row.OwnerID != owner {
		return models.ErrAuthorization
	}
	return nil
}

func (r *GormThreadRepository) GetCommentsByThreadID(ctx context.Context, threadID string) ([]models.DetailComment, error) {
	var rows []models.Comment
	err := r.db.WithContext(ctx).Preload("Owner").
		Where("thread_id = ? AND comment_id IS NULL", threadID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("select comments: %w", err)
	}
	return mapDetailComments(rows)
}

func (r *GormThreadRepository) VerifyAvailableComment(ctx context.Context, threadID, commentID string) error {
	var row models.Comment
	err := r.db.WithContext(ctx).Where("thread_id = ? AND id = ?", threadID, commentID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("comment %s: %w", commentID, models.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("select comment: %w", err)
	}
	// Replies are one level deep: a reply is never a valid parent.
	if row.ParentID != nil {
		return fmt.Errorf("comment %s is a reply: %w", commentID, models.ErrInvariant)
	}
	return nil
}

func (r *GormThreadRepository) AddReply(ctx context.Context, owner, threadID, commentID string, reply models.AddComment) (models.AddedComment, error) {
	row := models.Comment{
		ID:       r.newID("reply"),
		Content:  reply.Content,
		OwnerID:  owner,
		ThreadID: threadID,
		ParentID: &commentID,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.AddedComment{}, fmt.Errorf("insert reply: %w", err)
	}
	return models.AddedComment{ID: row.ID, Content: row.Content, Owner: row.OwnerID}, nil
}

func (r *GormThreadRepository) GetReplies(ctx context.Context, threadID, commentID string) ([]models.DetailComment, error) {
	var rows []models.Comment
	err := r.db.WithContext(ctx).Preload("Owner").
		Where("thread_id = ? AND comment_id = ?", threadID, commentID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("select replies: %w", err)
	}
	return mapDetailComments(rows)
}

func (r *GormThreadRepository) VerifyReplyOwner(ctx context.Context, owner, threadID, commentID, replyID string) error {
	var row models.Comment
	err := r.db.WithContext(ctx).
		Where("thread_id = ? AND comment_id = ? AND id = ?", threadID, commentID, replyID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("reply %s: %w", replyID, models.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("select reply: %w", err)
	}
	if row.OwnerID != owner {
		return models.ErrAuthorization
	}
	return nil
}

func (r *GormThreadRepository) AddCommentLike(ctx context.Context, userID, commentID string) error {
	row := models.CommentLike{
		ID:        r.newID("comment-like"),
		CommentID: commentID,
		UserID:    userID,
	}
	err := r.db.WithContext(ctx).Create(&row).Error
	if err != nil && isDuplicateKey(err) {
		// Two identical like requests raced past the existence probe; the
		// unique (comment_id, user_id) index rejected the second insert.
		// The user's intent already holds, so the toggle is a no-op.
		return nil
	}
	if err != nil {
		return fmt.Errorf("insert comment like: %w", err)
	}
	return nil
}

func (r *GormThreadRepository) GetCommentLike(ctx context.Context, userID, commentID string) (models.CommentLike, error) {
	var row models.CommentLike
	err := r.db.WithContext(ctx).Where("comment_id = ? AND user_id = ?", commentID, userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.CommentLike{}, fmt.Errorf("like on %s by %s: %w", commentID, userID, models.ErrNotFound)
	}
	if err != nil {
		return models.CommentLike{}, fmt.Errorf("select comment like: %w", err)
	}
	return row, nil
}

func (r *GormThreadRepository) DeleteCommentLikeByID(ctx context.Context, likeID string) error {
	res := r.db.WithContext(ctx).Where("id = ?", likeID).Delete(&models.CommentLike{})
	if res.Error != nil {
		return fmt.Errorf("delete comment like: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("comment like %s: %w", likeID, models.ErrNotFound)
	}
	return nil
}

func (r *GormThreadRepository) CountCommentLikesByCommentID(ctx context.Context, commentID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CommentLike{}).Where("comment_id = ?", commentID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count comment likes: %w", err)
	}
	return count, nil
}

func mapDetailComments(rows []models.Comment) ([]models.DetailComment, error) {
	details := make([]models.DetailComment, 0, len(rows))
	for _, row := range rows {
		detail, err := models.NewDetailComment(row, row.Owner.Username)
		if err != nil {
			return nil, fmt.Errorf("map comment %s: %w", row.ID, err)
		}
		details = append(details, detail)
	}
	return details, nil
}

// isDuplicateKey matches unique-constraint violations across the drivers in
// use: gorm translates them on postgres, sqlite reports them as plain
// "UNIQUE constraint failed" errors.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
