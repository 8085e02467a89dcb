package services

import (
	"context"
	"errors"
	"fmt"

	"mangrove/internal/models"
	"mangrove/internal/repository"
	"mangrove/internal/utils"

	"golang.org/x/sync/errgroup"
)

// detailFanOutLimit bounds the concurrent per-comment reply and like-count
// fetches when assembling a thread detail view.
const detailFanOutLimit = 4

// ThreadService orchestrates the thread aggregate: every operation runs its
// existence and ownership checks before touching storage, so unauthorized
// callers never trigger a write.
type ThreadService struct {
	repo repository.ThreadRepository
}

func NewThreadService(repo repository.ThreadRepository) *ThreadService {
	return &ThreadService{repo: repo}
}

func (s *ThreadService) AddThread(ctx context.Context, owner, title, body string) (models.AddedThread, error) {
	thread, err := models.NewAddThread(title, body)
	if err != nil {
		return models.AddedThread{}, err
	}
	return s.repo.AddThread(ctx, owner, thread)
}

func (s *ThreadService) AddComment(ctx context.Context, owner, threadID, content string) (models.AddedComment, error) {
	if _, err := s.repo.GetThreadByID(ctx, threadID); err != nil {
		return models.AddedComment{}, err
	}
	comment, err := models.NewAddComment(content)
	if err != nil {
		return models.AddedComment{}, err
	}
	return s.repo.AddComment(ctx, owner, threadID, comment)
}

func (s *ThreadService) DeleteComment(ctx context.Context, owner, threadID, commentID string) error {
	if err := s.repo.VerifyCommentOwner(ctx, owner, threadID, commentID); err != nil {
		return err
	}
	return s.repo.SoftDeleteCommentByCommentID(ctx, commentID)
}

// GetThreadByID assembles the nested detail view: the thread, its top-level
// comments in creation order, and per comment the replies and like count.
// The per-comment fetches fan out concurrently but write into indexed slots,
// so the response order always matches the comment query order.
func (s *ThreadService) GetThreadByID(ctx context.Context, threadID string) (models.DetailThread, error) {
	thread, err := s.repo.GetThreadByID(ctx, threadID)
	if err != nil {
		return models.DetailThread{}, err
	}

	comments, err := s.repo.GetCommentsByThreadID(ctx, threadID)
	if err != nil {
		return models.DetailThread{}, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(detailFanOutLimit)
	for i := range comments {
		i := i
		g.Go(func() error {
			replies, err := s.repo.GetReplies(gctx, threadID, comments[i].ID)
			if err != nil {
				return fmt.Errorf("replies for %s: %w", comments[i].ID, err)
			}
			likeCount, err := s.repo.CountCommentLikesByCommentID(gctx, comments[i].ID)
			if err != nil {
				return fmt.Errorf("like count for %s: %w", comments[i].ID, err)
			}
			comments[i].Replies = replies
			comments[i].LikeCount = int(likeCount)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.DetailThread{}, err
	}

	renderCommentHTML(comments)
	thread.Comments = comments
	return thread, nil
}

func (s *ThreadService) AddReply(ctx context.Context, owner, threadID, commentID, content string) (models.AddedComment, error) {
	if err := s.repo.VerifyAvailableComment(ctx, threadID, commentID); err != nil {
		return models.AddedComment{}, err
	}
	reply, err := models.NewAddComment(content)
	if err != nil {
		return models.AddedComment{}, err
	}
	return s.repo.AddReply(ctx, owner, threadID, commentID, reply)
}

func (s *ThreadService) DeleteReply(ctx context.Context, owner, threadID, commentID, replyID string) error {
	if err := s.repo.VerifyReplyOwner(ctx, owner, threadID, commentID, replyID); err != nil {
		return err
	}
	return s.repo.SoftDeleteReplyByReplyID(ctx, replyID)
}

// ToggleCommentLike adds a like when the user has none on the comment and
// removes the existing one otherwise. Only the expected "no like yet" signal
// from the probe is intercepted; any other probe failure propagates.
func (s *ThreadService) ToggleCommentLike(ctx context.Context, userID, threadID, commentID string) error {
	if err := s.repo.VerifyAvailableComment(ctx, threadID, commentID); err != nil {
		return err
	}

	like, err := s.repo.GetCommentLike(ctx, userID, commentID)
	if errors.Is(err, models.ErrNotFound) {
		return s.repo.AddCommentLike(ctx, userID, commentID)
	}
	if err != nil {
		return err
	}
	return s.repo.DeleteCommentLikeByID(ctx, like.ID)
}

func renderCommentHTML(comments []models.DetailComment) {
	for i := range comments {
		comments[i].ContentHTML = utils.RenderMarkdown(comments[i].Content)
		renderCommentHTML(comments[i].Replies)
	}
}
