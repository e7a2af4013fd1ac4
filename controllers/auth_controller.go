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

type AuthController struct {
	refreshTokenDays int
}

func NewAuthController(refreshTokenDays int) *AuthController {
	if refreshTokenDays <= 0 {
		refreshTokenDays = 7
	}
	return &AuthController{refreshTokenDays: refreshTokenDays}
}

// Register 用户注册
func (a *AuthController) Register(ctx *gin.Context) {
	var req models.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	var existing models.User
	if err := config.DB.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "用户名已被注册"})
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		config.Logger.Errorw("密码哈希失败", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "注册失败"})
		return
	}

	user := models.User{
		ID:             utils.GenerateID(),
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hash,
		UserType:       req.UserType,
		IsActive:       true,
	}

	if err := config.DB.Create(&user).Error; err != nil {
		// 预检查和写入之间存在并发窗口，唯一索引冲突按业务错误返回
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "用户名已被注册"})
			return
		}
		config.Logger.Errorw("创建用户失败", "error", err, "username", req.Username)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "注册失败"})
		return
	}

	ctx.JSON(http.StatusCreated, models.NewUserResponse(&user))
}

// Login 用户登录，返回访问令牌与刷新令牌
func (a *AuthController) Login(ctx *gin.Context) {
	var req models.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	var user models.User
	err := config.DB.Where("username = ? AND is_active = ?", req.Username, true).First(&user).Error
	if err != nil {
		// 用户不存在时也做一次校验，拉平响应耗时
		utils.VerifyDummyPassword(req.Password)
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "用户名或密码错误"})
		return
	}

	if !utils.VerifyPassword(req.Password, user.HashedPassword) {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "用户名或密码错误"})
		return
	}

	a.issueTokens(ctx, &user)
}

// Refresh 用刷新令牌换取新的令牌对，旧令牌随之吊销
func (a *AuthController) Refresh(ctx *gin.Context) {
	var req models.RefreshRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	var token models.RefreshToken
	err := config.DB.Where("token_hash = ?", utils.HashRefreshToken(req.RefreshToken)).First(&token).Error
	if err != nil || !token.IsValid() {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "刷新令牌无效或已过期"})
		return
	}

	var user models.User
	if err := config.DB.Where("id = ? AND is_active = ?", token.UserID, true).First(&user).Error; err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "刷新令牌无效或已过期"})
		return
	}

	// 旋转：吊销旧令牌后签发新令牌
	now := time.Now()
	if err := config.DB.Model(&token).Updates(map[string]interface{}{
		"is_revoked": true,
		"revoked_at": &now,
	}).Error; err != nil {
		config.Logger.Errorw("吊销刷新令牌失败", "error", err, "uid", user.ID)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "刷新失败"})
		return
	}

	a.issueTokens(ctx, &user)
}

func (a *AuthController) issueTokens(ctx *gin.Context, user *models.User) {
	accessToken, err := utils.GenerateToken(user.ID)
	if err != nil {
		config.Logger.Errorw("生成访问令牌失败", "error", err, "uid", user.ID)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "登录失败"})
		return
	}

	plain, hash := utils.GenerateRefreshToken()
	refresh := models.RefreshToken{
		ID:        utils.GenerateID(),
		UserID:    user.ID,
		TokenHash: hash,
		ExpiresAt: time.Now().AddDate(0, 0, a.refreshTokenDays),
	}
	if err := config.DB.Create(&refresh).Error; err != nil {
		config.Logger.Errorw("存储刷新令牌失败", "error", err, "uid", user.ID)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "登录失败"})
		return
	}

	ctx.JSON(http.StatusOK, models.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: plain,
		TokenType:    "bearer",
		User:         models.NewUserResponse(user),
	})
}

// Me 获取当前用户信息
func (a *AuthController) Me(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, models.NewUserResponse(user))
}

// UpdateMe 更新当前用户信息
func (a *AuthController) UpdateMe(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Email != nil {
		var other models.User
		err := config.DB.Where("email = ? AND id <> ?", *req.Email, user.ID).First(&other).Error
		if err == nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "邮箱已被其他账号使用"})
			return
		}
		updates["email"] = *req.Email
	}
	if req.UserType != nil {
		if !models.ValidUserType(*req.UserType) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid userType"})
			return
		}
		updates["user_type"] = *req.UserType
	}

	if len(updates) > 0 {
		if err := config.DB.Model(user).Updates(updates).Error; err != nil {
			config.Logger.Errorw("更新用户信息失败", "error", err, "uid", user.ID)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "更新失败"})
			return
		}
	}

	ctx.JSON(http.StatusOK, models.NewUserResponse(user))
}

// Logout JWT 登出由客户端丢弃令牌完成，这里吊销该用户的刷新令牌
func (a *AuthController) Logout(ctx *gin.Context) {
	uid, exists := ctx.Get("uid")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	now := time.Now()
	if err := config.DB.Model(&models.RefreshToken{}).
		Where("user_id = ? AND is_revoked = ?", uid, false).
		Updates(map[string]interface{}{"is_revoked": true, "revoked_at": &now}).Error; err != nil {
		config.Logger.Errorw("吊销刷新令牌失败", "error", err, "uid", uid)
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "已退出登录"})
}

// currentUser 从 gin.Context 取 uid 并加载用户
func currentUser(ctx *gin.Context) (*models.User, bool) {
	uid, exists := ctx.Get("uid")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return nil, false
	}

	var user models.User
	if err := config.DB.Where("id = ? AND is_active = ?", uid, true).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "用户不存在或已停用"})
		} else {
			config.Logger.Errorw("获取用户信息失败", "error", err, "uid", uid)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "获取用户信息失败"})
		}
		return nil, false
	}
	return &user, true
}
