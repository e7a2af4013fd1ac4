package controllers

import (
	"CompanionGo/config"
	"CompanionGo/models"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CrisisController struct{}

// List 获取当前用户的危机干预记录，最新的在前
func (cr *CrisisController) List(ctx *gin.Context) {
	uid, exists := ctx.Get("uid")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	var events []models.CrisisEvent
	if err := config.DB.Where("user_id = ?", uid).Order("created_at desc").Find(&events).Error; err != nil {
		config.Logger.Errorw("查询危机记录失败", "error", err, "uid", uid)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "查询危机记录失败"})
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// Resolve 标记危机记录已处理
func (cr *CrisisController) Resolve(ctx *gin.Context) {
	uid, exists := ctx.Get("uid")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	var event models.CrisisEvent
	err := config.DB.Where("id = ? AND user_id = ?", ctx.Param("id"), uid).First(&event).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "危机记录不存在"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "查询危机记录失败"})
		}
		return
	}

	if event.Resolved {
		ctx.JSON(http.StatusOK, event)
		return
	}

	now := time.Now()
	if err := config.DB.Model(&event).Updates(map[string]interface{}{
		"resolved":    true,
		"resolved_at": &now,
	}).Error; err != nil {
		config.Logger.Errorw("更新危机记录失败", "error", err, "eventID", event.ID)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "更新危机记录失败"})
		return
	}

	event.Resolved = true
	event.ResolvedAt = &now
	ctx.JSON(http.StatusOK, event)
}
