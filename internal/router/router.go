package router

import (
	"mangrove/internal/db"
	"mangrove/internal/handlers"
	"mangrove/internal/middleware"
	"mangrove/internal/repository"
	"mangrove/internal/services"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	threadRepo := repository.NewThreadRepository(db.DB)

	authHandler := handlers.NewAuthHandler(services.NewAuthService())
	threadHandler := handlers.NewThreadHandler(services.NewThreadService(threadRepo))

	// Public routes
	r.POST("/users", authHandler.Register)
	r.POST("/authentications", authHandler.Login)
	r.PUT("/authentications", authHandler.Refresh)
	r.DELETE("/authentications", authHandler.Logout)
	r.GET("/threads/:threadId", threadHandler.Detail)

	// Protected routes
	authorized := r.Group("/")
	authorized.Use(middleware.Authenticated())
	{
		authorized.POST("/threads", threadHandler.Create)
		authorized.POST("/threads/:threadId/comments", threadHandler.CreateComment)
		authorized.DELETE("/threads/:threadId/comments/:commentId", threadHandler.DeleteComment)
		authorized.POST("/threads/:threadId/comments/:commentId/replies", threadHandler.CreateReply)
		authorized.DELETE("/threads/:threadId/comments/:commentId/replies/:replyId", threadHandler.DeleteReply)
		authorized.PUT("/threads/:threadId/comments/:commentId/likes", threadHandler.LikeComment)
	}
}
