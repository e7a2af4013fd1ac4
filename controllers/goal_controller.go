package controllers

import (
	"CompanionGo/config"
	"CompanionGo/models"
	"CompanionGo/utils"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type GoalController struct{}

// Create 创建目标
func (g *GoalController) Create(ctx *gin.Context) {
	uid, exists := ctx.Get("uid")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	var req models.GoalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	req.ConvertToUTC()

	goal := models.TherapeuticGoal{
		ID:          utils.GenerateID(),
		UserID:      uid.(string),
		Title:       req.Title,
		Description: req.Description,
		TargetDate:  req.TargetDate,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := config.DB.Create(&goal).Error; err != nil {
		config.Logger.Errorw("创建目标失败", "error", err, "uid", uid)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "创建目标失败"})
		return
	}

	ctx.JSON(http.StatusCreated, goal)
}

// List 获取当前用户的目标列表
func (g *GoalController) List(ctx *gin.Context) {
	uid, exists := ctx.Get("uid")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	var goals []models.TherapeuticGoal
	if err := config.DB.Where("user_id = ?", uid).Order("created_at desc").Find(&goals).Error; err != nil {
		config.Logger.Errorw("查询目标失败", "error", err, "uid", uid)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "查询目标失败"})
		return
	}

	ctx.JSON(http.StatusOK, goals)
}

// Update 更新目标
func (g *GoalController) Update(ctx *gin.Context) {
	goal, ok := g.findOwnedGoal(ctx)
	if !ok {
		return
	}

	var req models.GoalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	req.ConvertToUTC()

	goal.Title = req.Title
	goal.Description = req.Description
	goal.IsCompleted = req.IsCompleted
	goal.TargetDate = req.TargetDate
	goal.UpdatedAt = time.Now()

	if err := config.DB.Save(goal).Error; err != nil {
		config.Logger.Errorw("更新目标失败", "error", err, "goalID", goal.ID)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "更新目标失败"})
		return
	}

	ctx.JSON(http.StatusOK, goal)
}

// Delete 删除目标
func (g *GoalController) Delete(ctx *gin.Context) {
	goal, ok := g.findOwnedGoal(ctx)
	if !ok {
		return
	}

	if err := config.DB.Delete(goal).Error; err != nil {
		config.Logger.Errorw("删除目标失败", "error", err, "goalID", goal.ID)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "删除目标失败"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (g *GoalController) findOwnedGoal(ctx *gin.Context) (*models.TherapeuticGoal, bool) {
	uid, exists := ctx.Get("uid")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return nil, false
	}

	var goal models.TherapeuticGoal
	err := config.DB.Where("id = ? AND user_id = ?", ctx.Param("id"), uid).First(&goal).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "目标不存在"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "查询目标失败"})
		}
		return nil, false
	}
	return &goal, true
}
