package controllers

import (
	"CompanionGo/models"
	"CompanionGo/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type EmotionController struct {
	emotionService *services.EmotionService
	agentService   *services.AgentService
}

func NewEmotionController(emotionService *services.EmotionService, agentService *services.AgentService) *EmotionController {
	return &EmotionController{
		emotionService: emotionService,
		agentService:   agentService,
	}
}

// Analyze 单独的情绪分析接口，只返回分类结果，不落库
func (e *EmotionController) Analyze(ctx *gin.Context) {
	var req models.AnalyzeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	result := e.emotionService.Analyze(ctx.Request.Context(), req.Text)
	ctx.JSON(http.StatusOK, result)
}

// Decide 情绪分析 + 决策，返回下一步系统行为
func (e *EmotionController) Decide(ctx *gin.Context) {
	var req models.AnalyzeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	emotion := e.emotionService.Analyze(ctx.Request.Context(), req.Text)
	decision := services.Decide(emotion)
	ctx.JSON(http.StatusOK, decision)
}
