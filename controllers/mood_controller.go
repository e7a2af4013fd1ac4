package controllers

import (
	"CompanionGo/config"
	"CompanionGo/models"
	"CompanionGo/services"
	"CompanionGo/utils"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MoodController struct{}

// Create 创建心情记录
func (m *MoodController) Create(ctx *gin.Context) {
	uid, exists := ctx.Get("uid")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	var req models.MoodEntryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	entry := models.MoodEntry{
		ID:         utils.GenerateID(),
		UserID:     uid.(string),
		MoodScore:  req.MoodScore,
		Note:       req.Note,
		Tags:       models.TagsToString(req.Tags),
		RecordedAt: time.Now(),
	}
	if req.Sentiment != nil {
		entry.SentimentLabel = req.Sentiment.Label
		entry.SentimentIntensity = req.Sentiment.Intensity
		entry.SentimentRationale = req.Sentiment.Rationale
	}

	if err := config.DB.Create(&entry).Error; err != nil {
		config.Logger.Errorw("创建心情记录失败", "error", err, "uid", uid)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "创建心情记录失败"})
		return
	}

	ctx.JSON(http.StatusCreated, models.NewMoodEntryResponse(&entry))
}

// List 分页获取当前用户的心情记录，最新的在前
func (m *MoodController) List(ctx *gin.Context) {
	uid, exists := ctx.Get("uid")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	skip, _ := strconv.Atoi(ctx.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "100"))
	if limit > 500 {
		limit = 500
	}
	if limit <= 0 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}

	var entries []models.MoodEntry
	if err := config.DB.Where("user_id = ?", uid).
		Order("recorded_at desc").
		Offset(skip).Limit(limit).
		Find(&entries).Error; err != nil {
		config.Logger.Errorw("查询心情记录失败", "error", err, "uid", uid)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "查询心情记录失败"})
		return
	}

	responses := make([]models.MoodEntryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, models.NewMoodEntryResponse(&entries[i]))
	}
	ctx.JSON(http.StatusOK, responses)
}

// GetTrend 按日期分桶的趋势数据，range 支持 today / week / month / custom
func (m *MoodController) GetTrend(ctx *gin.Context) {
	uid, exists := ctx.Get("uid")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	rangeParam := ctx.DefaultQuery("range", "week")
	start, end, days, err := services.TrendRangeWindow(rangeParam, ctx.Query("startDate"), ctx.Query("endDate"))
	if err != nil {
		ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	var entries []models.MoodEntry
	if err := config.DB.Where("user_id = ? AND recorded_at BETWEEN ? AND ?", uid, start, end).
		Order("recorded_at").
		Find(&entries).Error; err != nil {
		config.Logger.Errorw("查询趋势数据失败", "error", err, "uid", uid)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "查询趋势数据失败"})
		return
	}

	ctx.JSON(http.StatusOK, services.BuildDailyTrend(entries, start, days))
}

// Get 按ID获取单条记录，只能访问自己的数据
func (m *MoodController) Get(ctx *gin.Context) {
	entry, ok := m.findOwnedEntry(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, models.NewMoodEntryResponse(entry))
}

// Update 更新心情记录
func (m *MoodController) Update(ctx *gin.Context) {
	entry, ok := m.findOwnedEntry(ctx)
	if !ok {
		return
	}

	var req models.MoodEntryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	entry.MoodScore = req.MoodScore
	entry.Note = req.Note
	entry.Tags = models.TagsToString(req.Tags)
	if req.Sentiment != nil {
		entry.SentimentLabel = req.Sentiment.Label
		entry.SentimentIntensity = req.Sentiment.Intensity
		entry.SentimentRationale = req.Sentiment.Rationale
	}

	if err := config.DB.Save(entry).Error; err != nil {
		config.Logger.Errorw("更新心情记录失败", "error", err, "entryID", entry.ID)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "更新心情记录失败"})
		return
	}

	ctx.JSON(http.StatusOK, models.NewMoodEntryResponse(entry))
}

// Delete 删除心情记录
func (m *MoodController) Delete(ctx *gin.Context) {
	entry, ok := m.findOwnedEntry(ctx)
	if !ok {
		return
	}

	if err := config.DB.Delete(entry).Error; err != nil {
		config.Logger.Errorw("删除心情记录失败", "error", err, "entryID", entry.ID)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "删除心情记录失败"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

// findOwnedEntry 查询始终带上 uid 条件，访问他人数据时表现为不存在
func (m *MoodController) findOwnedEntry(ctx *gin.Context) (*models.MoodEntry, bool) {
	uid, exists := ctx.Get("uid")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return nil, false
	}

	var entry models.MoodEntry
	err := config.DB.Where("id = ? AND user_id = ?", ctx.Param("id"), uid).First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "心情记录不存在"})
		} else {
			config.Logger.Errorw("查询心情记录失败", "error", err, "uid", uid)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "查询心情记录失败"})
		}
		return nil, false
	}
	return &entry, true
}
