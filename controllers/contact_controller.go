package controllers

import (
	"CompanionGo/config"
	"CompanionGo/models"
	"CompanionGo/utils"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ContactController struct{}

// Create 创建紧急联系人，同一用户下电话号码唯一
func (cc *ContactController) Create(ctx *gin.Context) {
	uid, exists := ctx.Get("uid")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	var req models.EmergencyContactRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	contact := models.EmergencyContact{
		ID:               utils.GenerateID(),
		UserID:           uid.(string),
		Name:             req.Name,
		PhoneNumber:      req.PhoneNumber,
		RelationshipType: req.RelationshipType,
		CreatedAt:        time.Now(),
	}

	if err := config.DB.Create(&contact).Error; err != nil {
		// 唯一索引冲突按业务错误返回
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "该电话号码的联系人已存在"})
			return
		}
		config.Logger.Errorw("创建紧急联系人失败", "error", err, "uid", uid)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "创建紧急联系人失败"})
		return
	}

	ctx.JSON(http.StatusCreated, contact)
}

// List 获取当前用户的全部紧急联系人
func (cc *ContactController) List(ctx *gin.Context) {
	uid, exists := ctx.Get("uid")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	var contacts []models.EmergencyContact
	if err := config.DB.Where("user_id = ?", uid).Find(&contacts).Error; err != nil {
		config.Logger.Errorw("查询紧急联系人失败", "error", err, "uid", uid)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "查询紧急联系人失败"})
		return
	}

	ctx.JSON(http.StatusOK, contacts)
}

// Delete 删除紧急联系人
func (cc *ContactController) Delete(ctx *gin.Context) {
	uid, exists := ctx.Get("uid")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	var contact models.EmergencyContact
	err := config.DB.Where("id = ? AND user_id = ?", ctx.Param("id"), uid).First(&contact).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "紧急联系人不存在"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "查询紧急联系人失败"})
		}
		return
	}

	if err := config.DB.Delete(&contact).Error; err != nil {
		config.Logger.Errorw("删除紧急联系人失败", "error", err, "contactID", contact.ID)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "删除紧急联系人失败"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
