package models

import (
	"CompanionGo/apperrors"
	"fmt"
	"strings"
	"time"
)

// RegisterRequest 注册请求结构体
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6"`
	Email    string `json:"email"`
	UserType string `json:"userType"`
}

func (r *RegisterRequest) Validate() error {
	if r.UserType == "" {
		r.UserType = UserTypeGeneral
	}
	if !ValidUserType(r.UserType) {
		return fmt.Errorf("%w: invalid userType %q", apperrors.ErrValidation, r.UserType)
	}
	return nil
}

// LoginRequest 登录请求结构体
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest 刷新令牌请求结构体
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// UpdateProfileRequest 更新个人信息请求结构体
type UpdateProfileRequest struct {
	Email    *string `json:"email"`
	UserType *string `json:"userType"`
}

// SentimentSnapshot 随心情记录一起保存的可选情绪快照
type SentimentSnapshot struct {
	Label     string  `json:"label"`
	Intensity float64 `json:"intensity"`
	Rationale string  `json:"rationale"`
}

// MoodEntryRequest 心情记录创建/更新请求结构体
type MoodEntryRequest struct {
	MoodScore int                `json:"moodScore" binding:"required"`
	Note      string             `json:"note"`
	Tags      []string           `json:"tags"`
	Sentiment *SentimentSnapshot `json:"sentiment"`
}

func (r *MoodEntryRequest) Validate() error {
	if r.MoodScore < 1 || r.MoodScore > 10 {
		return fmt.Errorf("%w: moodScore must be between 1 and 10", apperrors.ErrValidation)
	}
	// 存储侧不做收敛，越界直接拒绝
	if r.Sentiment != nil && (r.Sentiment.Intensity < 0 || r.Sentiment.Intensity > 1) {
		return fmt.Errorf("%w: sentiment intensity must be between 0 and 1", apperrors.ErrValidation)
	}
	return nil
}

// TagsToString 标签数组转逗号分隔字符串
func TagsToString(tags []string) string {
	return strings.Join(tags, ",")
}

// StringToTags 逗号分隔字符串转标签数组
func StringToTags(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

// ChatMessage 聊天消息，role 为 user / assistant / system
type ChatMessage struct {
	Role    string `json:"role" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// ChatStreamRequest 流式聊天请求结构体，messages 按时间顺序排列
type ChatStreamRequest struct {
	Messages  []ChatMessage `json:"messages" binding:"required,min=1"`
	SessionID string        `json:"sessionId"`
}

// LastUserMessage 取最后一条用户消息
func (r *ChatStreamRequest) LastUserMessage() string {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Role == "user" {
			return r.Messages[i].Content
		}
	}
	return ""
}

// AnalyzeRequest 情绪分析/决策请求结构体
type AnalyzeRequest struct {
	Text string `json:"text" binding:"required"`
}

// EmergencyContactRequest 紧急联系人创建请求结构体
type EmergencyContactRequest struct {
	Name             string `json:"name" binding:"required,max=100"`
	PhoneNumber      string `json:"phoneNumber" binding:"required,max=20"`
	RelationshipType string `json:"relationshipType"`
}

// GoalRequest 目标创建/更新请求结构体
type GoalRequest struct {
	Title       string     `json:"title" binding:"required,max=200"`
	Description string     `json:"description"`
	IsCompleted bool       `json:"isCompleted"`
	TargetDate  *time.Time `json:"targetDate"`
}

func (r *GoalRequest) ConvertToUTC() {
	if r.TargetDate != nil {
		utcTime := r.TargetDate.UTC()
		r.TargetDate = &utcTime
	}
}
