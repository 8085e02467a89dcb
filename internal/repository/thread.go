package repository

import (
	"context"

	"mangrove/internal/models"
)

// ThreadRepository is the persistence contract for the thread aggregate:
// threads, comments, replies and comment likes. Implementations report
// failures through the models error taxonomy:
//
//   - models.ErrNotFound       referenced row absent
//   - models.ErrAuthorization  actor is not the row owner
//   - models.ErrInvariant      structurally valid but disallowed (e.g. replying to a reply)
//
// Anything else is an infrastructure error and propagates verbatim.
type ThreadRepository interface {
	AddThread(ctx context.Context, owner string, thread models.AddThread) (models.AddedThread, error)
	// GetThreadByID returns the thread joined with its owner's username.
	// Comments are not attached; that is the service's job.
	GetThreadByID(ctx context.Context, threadID string) (models.DetailThread, error)

	AddComment(ctx context.Context, owner, threadID string, comment models.AddComment) (models.AddedComment, error)
	// SoftDeleteCommentByCommentID tombstones a comment. Deleting an
	// already-deleted comment succeeds; a comment id that never existed
	// fails with ErrNotFound.
	SoftDeleteCommentByCommentID(ctx context.Context, commentID string) error
	VerifyCommentOwner(ctx context.Context, owner, threadID, commentID string) error
	// GetCommentsByThreadID returns top-level comments only, ascending by
	// creation time. Tombstoned rows come back already masked.
	GetCommentsByThreadID(ctx context.Context, threadID string) ([]models.DetailComment, error)
	// VerifyAvailableComment checks that commentID exists under threadID
	// and is not itself a reply.
	VerifyAvailableComment(ctx context.Context, threadID, commentID string) error

	AddReply(ctx context.Context, owner, threadID, commentID string, reply models.AddComment) (models.AddedComment, error)
	// GetReplies returns the replies under one comment, ascending by
	// creation time.
	GetReplies(ctx context.Context, threadID, commentID string) ([]models.DetailComment, error)
	VerifyReplyOwner(ctx context.Context, owner, threadID, commentID, replyID string) error
	SoftDeleteReplyByReplyID(ctx context.Context, replyID string) error

	AddCommentLike(ctx context.Context, userID, commentID string) error
	// GetCommentLike returns the like row for (userID, commentID), or
	// ErrNotFound when the user has not liked the comment.
	GetCommentLike(ctx context.Context, userID, commentID string) (models.CommentLike, error)
	DeleteCommentLikeByID(ctx context.Context, likeID string) error
	CountCommentLikesByCommentID(ctx context.Context, commentID string) (int64, error)
}
