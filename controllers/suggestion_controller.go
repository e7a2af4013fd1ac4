package controllers

import (
	"CompanionGo/config"
	"CompanionGo/models"
	"CompanionGo/services"
	"CompanionGo/utils"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type SuggestionController struct {
	suggestionService *services.SuggestionService
}

func NewSuggestionController(suggestionService *services.SuggestionService) *SuggestionController {
	return &SuggestionController{suggestionService: suggestionService}
}

// Get 模板建议：按用户分类和近期心情筛选
func (s *SuggestionController) Get(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	summary, ok := s.loadMoodSummary(ctx, user.ID)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, models.SuggestionsResponse{
		Suggestions:     services.SelectSuggestions(user.UserType, summary),
		UserMoodSummary: summary,
		Message:         services.SummaryMessage(summary),
	})
}

// GenerateAI AI建议：把用户分类和心情统计交给模型，解析失败回退模板
func (s *SuggestionController) GenerateAI(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	summary, ok := s.loadMoodSummary(ctx, user.ID)
	if !ok {
		return
	}

	cards, err := s.suggestionService.GenerateAISuggestions(ctx.Request.Context(), user.ID, user.UserType, summary)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "生成AI建议失败，请使用普通建议"})
		return
	}

	ctx.JSON(http.StatusOK, models.SuggestionsResponse{
		Suggestions:     cards,
		UserMoodSummary: summary,
		Message:         "已根据你的情况生成个性化建议",
	})
}

// Complete 标记建议完成
func (s *SuggestionController) Complete(ctx *gin.Context) {
	s.logAction(ctx, "completed", "建议已完成")
}

// Skip 跳过建议
func (s *SuggestionController) Skip(ctx *gin.Context) {
	s.logAction(ctx, "skipped", "建议已跳过")
}

func (s *SuggestionController) logAction(ctx *gin.Context, action, message string) {
	uid, exists := ctx.Get("uid")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	entry := models.SuggestionLog{
		ID:           utils.GenerateID(),
		UserID:       uid.(string),
		SuggestionID: ctx.Param("id"),
		Action:       action,
		CreatedAt:    time.Now(),
	}
	if err := config.DB.Create(&entry).Error; err != nil {
		config.Logger.Errorw("记录建议操作失败", "error", err, "uid", uid, "action", action)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "记录失败"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":      message,
		"suggestionId": entry.SuggestionID,
	})
}

// loadMoodSummary 按时间窗口取心情记录并统计
func (s *SuggestionController) loadMoodSummary(ctx *gin.Context, userID string) (models.MoodSummary, bool) {
	timeRange := ctx.DefaultQuery("timeRange", "week")
	var cutoff time.Time
	now := time.Now()

	switch timeRange {
	case "today":
		cutoff = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case "month":
		cutoff = now.AddDate(0, 0, -30)
	case "custom":
		start := ctx.Query("startDate")
		if start != "" {
			parsed, err := time.ParseInLocation("2006-01-02", start, now.Location())
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, use YYYY-MM-DD"})
				return models.MoodSummary{}, false
			}
			cutoff = parsed
		} else {
			cutoff = now.AddDate(0, 0, -14)
		}
	default:
		cutoff = now.AddDate(0, 0, -14)
	}

	var entries []models.MoodEntry
	if err := config.DB.Where("user_id = ? AND recorded_at >= ?", userID, cutoff).
		Order("recorded_at").
		Find(&entries).Error; err != nil {
		config.Logger.Errorw("查询心情记录失败", "error", err, "uid", userID)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "查询心情记录失败"})
		return models.MoodSummary{}, false
	}

	return services.AnalyzeMoodTrend(entries), true
}
