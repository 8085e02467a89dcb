package handlers

import (
	"fmt"
	"net/http"
	"time"

	"mangrove/internal/middleware"
	"mangrove/internal/models"
	"mangrove/internal/services"
	"mangrove/internal/utils"

	"github.com/gin-gonic/gin"
)

const detailCacheTTL = 1 * time.Minute

type ThreadHandler struct {
	threadService *services.ThreadService
}

func NewThreadHandler(threadService *services.ThreadService) *ThreadHandler {
	return &ThreadHandler{threadService: threadService}
}

type addThreadRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type addCommentRequest struct {
	Content string `json:"content"`
}

func detailCacheKey(threadID string) string {
	return fmt.Sprintf("thread:detail:%s", threadID)
}

func (h *ThreadHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(string)

	var req addThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, &models.ValidationError{Field: "body", Reason: "must be valid JSON"})
		return
	}

	added, err := h.threadService.AddThread(c.Request.Context(), userID, req.Title, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, gin.H{"addedThread": added})
}

func (h *ThreadHandler) Detail(c *gin.Context) {
	threadID := c.Param("threadId")

	cacheKey := detailCacheKey(threadID)
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		if thread, ok := cached.(models.DetailThread); ok {
			respondSuccess(c, http.StatusOK, gin.H{"thread": thread})
			return
		}
	}

	thread, err := h.threadService.GetThreadByID(c.Request.Context(), threadID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.GetCache().Set(cacheKey, thread, detailCacheTTL)
	respondSuccess(c, http.StatusOK, gin.H{"thread": thread})
}

func (h *ThreadHandler) CreateComment(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(string)
	threadID := c.Param("threadId")

	var req addCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, &models.ValidationError{Field: "body", Reason: "must be valid JSON"})
		return
	}

	added, err := h.threadService.AddComment(c.Request.Context(), userID, threadID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.GetCache().Delete(detailCacheKey(threadID))
	respondSuccess(c, http.StatusCreated, gin.H{"addedComment": added})
}

func (h *ThreadHandler) DeleteComment(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(string)
	threadID := c.Param("threadId")
	commentID := c.Param("commentId")

	if err := h.threadService.DeleteComment(c.Request.Context(), userID, threadID, commentID); err != nil {
		respondError(c, err)
		return
	}

	utils.GetCache().Delete(detailCacheKey(threadID))
	respondSuccess(c, http.StatusOK, nil)
}

func (h *ThreadHandler) CreateReply(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(string)
	threadID := c.Param("threadId")
	commentID := c.Param("commentId")

	var req addCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, &models.ValidationError{Field: "body", Reason: "must be valid JSON"})
		return
	}

	added, err := h.threadService.AddReply(c.Request.Context(), userID, threadID, commentID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.GetCache().Delete(detailCacheKey(threadID))
	respondSuccess(c, http.StatusCreated, gin.H{"addedReply": added})
}

func (h *ThreadHandler) DeleteReply(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(string)
	threadID := c.Param("threadId")
	commentID := c.Param("commentId")
	replyID := c.Param("replyId")

	if err := h.threadService.DeleteReply(c.Request.Context(), userID, threadID, commentID, replyID); err != nil {
		respondError(c, err)
		return
	}

	utils.GetCache().Delete(detailCacheKey(threadID))
	respondSuccess(c, http.StatusOK, nil)
}

func (h *ThreadHandler) LikeComment(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(string)
	threadID := c.Param("threadId")
	commentID := c.Param("commentId")

	if err := h.threadService.ToggleCommentLike(c.Request.Context(), userID, threadID, commentID); err != nil {
		respondError(c, err)
		return
	}

	utils.GetCache().Delete(detailCacheKey(threadID))
	respondSuccess(c, http.StatusOK, nil)
}
