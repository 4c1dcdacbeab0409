package router

import (
	"comment-go/internal/api/handler"
	"comment-go/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

// Setup 注册所有业务路由
func Setup(
	r *gin.Engine,
	commentHandler *handler.CommentHandler,
	adminHandler *handler.CommentAdminHandler,
	limiter *middleware.IPRateLimiter,
) {
	// --- 前台评论 ---
	comment := r.Group("/comment", middleware.XMLHttpRequestOnly(), middleware.OptionalAuth())
	{
		comment.POST("/add", middleware.RateLimit(limiter), commentHandler.Add)
		comment.GET("/get", commentHandler.Get)
		comment.POST("/abuse", commentHandler.Abuse)
		comment.GET("/captcha", commentHandler.Captcha)
		comment.GET("/delete/:commentId", middleware.AuthRequired(), commentHandler.Delete)
	}

	// --- 后台管理 ---
	admin := r.Group("/admin/module/comment")
	{
		// 定时任务调用，不需要认证
		admin.POST("/request-customer", adminHandler.RequestCustomer)

		secured := admin.Group("", middleware.AuthRequired(), middleware.AdminRequired())
		{
			secured.GET("", adminHandler.List)
			secured.POST("", adminHandler.Create)
			secured.POST("/status", adminHandler.ChangeStatus)
			secured.POST("/activation/:ref/:refId", adminHandler.Activation)
			secured.GET("/configuration", adminHandler.GetConfiguration)
			secured.POST("/configuration", adminHandler.SaveConfiguration)
			secured.GET("/search", adminHandler.Search)
			secured.POST("/search/sync", adminHandler.SyncSearch)
			secured.POST("/export", adminHandler.Export)
			secured.GET("/:id", adminHandler.Get)
			secured.PUT("/:id", adminHandler.Update)
			secured.DELETE("/:id", adminHandler.Delete)
		}
	}
}
