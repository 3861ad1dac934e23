package router

import (
	"sleepless/internal/handlers"
	"sleepless/internal/middleware"
	"sleepless/internal/services"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, quota *services.QuotaService) {
	// Handlers
	postHandler := handlers.NewPostHandler(quota)
	browseHandler := handlers.NewBrowseHandler()

	api := r.Group("/api")
	{
		api.GET("/health", handlers.Health) // 健康检查

		api.GET("/posts", postHandler.List)                           // 全部帖子
		api.POST("/posts", postHandler.Create)                        // 发布帖子（受每日配额限制）
		api.PATCH("/posts/:pid/bookmark", postHandler.ToggleBookmark) // 收藏/取消收藏
		api.GET("/bookmarks", postHandler.ListBookmarks)              // 已收藏的帖子

		api.GET("/daily-count/:fingerprint", postHandler.DailyCount) // 当日配额查询

		api.GET("/browse/next", browseHandler.Next)         // 向前浏览
		api.GET("/browse/previous", browseHandler.Previous) // 向后回退
	}

	// 管理路由 (Admin Routes)
	admin := r.Group("/api")
	admin.Use(middleware.AdminRequired())
	{
		admin.DELETE("/posts/:pid", postHandler.Delete) // 删除帖子
	}
}
