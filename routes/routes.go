package routes

import (
	"CompanionGo/config"
	"CompanionGo/controllers"
	"CompanionGo/middleware"
	"CompanionGo/services"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes 注册全部路由，返回 ChatController 供优雅关闭时等待后台任务
func RegisterRoutes(r *gin.Engine, conf config.Config, client *services.LLMClient) *controllers.ChatController {
	chatService := services.NewChatService(client)
	emotionService := services.NewEmotionService(client)
	agentService := services.NewAgentService(config.DB)
	suggestionService := services.NewSuggestionService(client)

	authController := controllers.NewAuthController(conf.RefreshTokenDays)
	chatController := controllers.NewChatController(chatService, emotionService, agentService)
	emotionController := controllers.NewEmotionController(emotionService, agentService)
	suggestionController := controllers.NewSuggestionController(suggestionService)
	moodController := controllers.MoodController{}
	contactController := controllers.ContactController{}
	goalController := controllers.GoalController{}
	crisisController := controllers.CrisisController{}

	// 公开路由（无需认证）
	public := r.Group("/api/v1")
	{
		public.POST("/auth/register", authController.Register)
		public.POST("/auth/login", authController.Login)
		public.POST("/auth/refresh", authController.Refresh)
	}

	// 需要认证的路由
	private := r.Group("/api/v1")
	private.Use(middleware.AuthMiddleware()) // 应用认证中间件
	{
		private.GET("/auth/me", authController.Me)
		private.PUT("/auth/me", authController.UpdateMe)
		private.POST("/auth/logout", authController.Logout)

		// 心情记录
		private.POST("/mood-entries", moodController.Create)
		private.GET("/mood-entries", moodController.List)
		private.GET("/mood-entries/trend", moodController.GetTrend)
		private.GET("/mood-entries/:id", moodController.Get)
		private.PUT("/mood-entries/:id", moodController.Update)
		private.DELETE("/mood-entries/:id", moodController.Delete)

		// 聊天
		private.POST("/chat/stream", chatController.StreamChat)
		private.POST("/chat/sessions/:id/close", chatController.CloseSession)
		private.GET("/chat/sessions/:id/messages", chatController.GetHistory)

		// 情绪分析与决策
		private.POST("/emotion/analyze", emotionController.Analyze)
		private.POST("/agent/decide", emotionController.Decide)

		// 个性化建议
		private.GET("/suggestions", suggestionController.Get)
		private.POST("/suggestions/generate-ai", suggestionController.GenerateAI)
		private.POST("/suggestions/:id/complete", suggestionController.Complete)
		private.POST("/suggestions/:id/skip", suggestionController.Skip)

		// 紧急联系人
		private.GET("/emergency-contacts", contactController.List)
		private.POST("/emergency-contacts", contactController.Create)
		private.DELETE("/emergency-contacts/:id", contactController.Delete)

		// 目标
		private.GET("/goals", goalController.List)
		private.POST("/goals", goalController.Create)
		private.PUT("/goals/:id", goalController.Update)
		private.DELETE("/goals/:id", goalController.Delete)

		// 危机记录
		private.GET("/crisis-events", crisisController.List)
		private.POST("/crisis-events/:id/resolve", crisisController.Resolve)
	}

	// 测试路由
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	return chatController
}
