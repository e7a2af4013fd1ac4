package controllers

import (
	"CompanionGo/apperrors"
	"CompanionGo/config"
	"CompanionGo/models"
	"CompanionGo/services"
	"CompanionGo/utils"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// 危机分支的固定回复，不经过模型
const crisisReply = `听起来你此刻正经历非常沉重、难以承受的时刻。谢谢你愿意把这些告诉我，你不是一个人。

下面几个选项也许能帮你度过当下：
· 30秒的引导呼吸练习
· 帮助你回到当下的着陆练习
· 联系一位你信任的人寻求支持
· 如果你觉得自己处于紧急危险中，请立即拨打危机干预热线

你现在愿意试试哪一个？`

// 支持建议分支的固定回复
const supportReply = `谢谢你说出自己的感受，这件事让你觉得有压力是完全可以理解的。

如果你愿意，我们可以试试这些让自己稳定下来的小练习：
· 5分钟呼吸练习
· 5-4-3-2-1 着陆练习
· 一句话心情日记（我可以带着你写）

有没有哪一个你想试试？`

// StreamEvent 流式响应事件，type 为 metadata / content / done / error
type StreamEvent struct {
	Type      string                   `json:"type"`
	Content   string                   `json:"content,omitempty"`
	Decision  *models.DecisionResponse `json:"decision,omitempty"`
	SessionID string                   `json:"sessionId,omitempty"`
	Error     string                   `json:"error,omitempty"`
}

type ChatController struct {
	chatService    *services.ChatService
	emotionService *services.EmotionService
	agentService   *services.AgentService
	wg             sync.WaitGroup
}

func NewChatController(chatService *services.ChatService, emotionService *services.EmotionService, agentService *services.AgentService) *ChatController {
	return &ChatController{
		chatService:    chatService,
		emotionService: emotionService,
		agentService:   agentService,
	}
}

// StreamChat 处理流式聊天请求。每条用户消息走一遍
// 情绪分析 → 决策 → 回复 的流水线，决策以 metadata 事件随流下发
func (c *ChatController) StreamChat(ctx *gin.Context) {
	uid, exists := ctx.Get("uid")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	var req models.ChatStreamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	lastMessage := req.LastUserMessage()
	if lastMessage == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "消息列表中没有用户消息"})
		return
	}

	session, err := c.resolveSession(uid.(string), req.SessionID)
	if err != nil {
		ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	// 情绪分析与决策。分析内部已兜底，决策落库失败也不会中断聊天
	emotion := c.emotionService.Analyze(ctx.Request.Context(), lastMessage)
	decision := c.agentService.DecideAndPersist(uid.(string), session.ID, emotion)

	// 持久化用户消息
	userMessage := models.ConversationMessage{
		ID:              utils.GenerateID(),
		SessionID:       session.ID,
		Sender:          models.SenderUser,
		Content:         lastMessage,
		CrisisTriggered: decision.NextAction == models.ActionCrisisFlow,
		CreatedAt:       time.Now(),
	}
	if decision.DecisionID != "" {
		userMessage.DecisionID = &decision.DecisionID
	}
	if err := config.DB.Create(&userMessage).Error; err != nil {
		config.Logger.Errorw("存储用户消息失败", "error", err, "sessionID", session.ID)
	}

	// 设置流式响应头
	ctx.Header("Content-Type", "text/event-stream")
	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")
	ctx.Header("X-Accel-Buffering", "no") // 禁用 Nginx 缓冲

	// 决策元数据事件，每次请求最多一条
	writeEvent(ctx, StreamEvent{Type: "metadata", Decision: &decision, SessionID: session.ID})

	var fullResponse strings.Builder

	switch decision.NextAction {
	case models.ActionCrisisFlow:
		// 危机与支持分支使用固定文案，不调用模型
		writeEvent(ctx, StreamEvent{Type: "content", Content: crisisReply})
		fullResponse.WriteString(crisisReply)
	case models.ActionSupportSuggestion:
		writeEvent(ctx, StreamEvent{Type: "content", Content: supportReply})
		fullResponse.WriteString(supportReply)
	default:
		// 从 Redis 中获取对话历史总结
		summaryKey := summaryCacheKey(session.ID)
		historySummary, err := config.RedisClient.Get(ctx.Request.Context(), summaryKey).Result()
		if err != nil {
			historySummary = ""
		}

		stream := c.chatService.StreamReply(ctx.Request.Context(), req.Messages, historySummary)
		for chunk := range stream {
			if chunk.Err != nil {
				writeEvent(ctx, StreamEvent{Type: "error", Error: "生成回复失败，请重试"})
				return
			}
			if !writeEvent(ctx, StreamEvent{Type: "content", Content: chunk.Content}) {
				// 客户端断开，停止下发
				return
			}
			fullResponse.WriteString(chunk.Content)
		}
	}

	writeEvent(ctx, StreamEvent{Type: "done"})

	// 在协程中持久化AI回复并刷新会话摘要，失败只记日志
	reply := fullResponse.String()
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.persistReply(session.ID, decision, reply, lastMessage)
	}()
}

// persistReply 存储AI消息并刷新 Redis 中的滚动摘要
func (c *ChatController) persistReply(sessionID string, decision models.DecisionResponse, reply, userMessage string) {
	aiMessage := models.ConversationMessage{
		ID:              utils.GenerateID(),
		SessionID:       sessionID,
		Sender:          models.SenderAI,
		Content:         reply,
		CrisisTriggered: decision.NextAction == models.ActionCrisisFlow,
		CreatedAt:       time.Now(),
	}
	if decision.DecisionID != "" {
		aiMessage.DecisionID = &decision.DecisionID
	}
	if err := config.DB.Create(&aiMessage).Error; err != nil {
		config.Logger.Errorw("存储AI消息失败", "error", err, "sessionID", sessionID)
	}

	bgCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	summaryKey := summaryCacheKey(sessionID)
	historySummary, _ := config.RedisClient.Get(bgCtx, summaryKey).Result()

	dialogue := fmt.Sprintf("用户: %s\nAI: %s", userMessage, reply)
	summary, err := c.chatService.GenerateSummary(bgCtx, dialogue, historySummary)
	if err != nil {
		config.Logger.Errorw("生成会话摘要失败", "error", err, "sessionID", sessionID)
		return
	}

	if err := config.RedisClient.Set(bgCtx, summaryKey, summary, 72*time.Hour).Err(); err != nil {
		config.Logger.Errorw("存储会话摘要失败", "error", err, "sessionID", sessionID)
	}
}

// resolveSession 复用已有会话或新建一个，会话必须属于当前用户
func (c *ChatController) resolveSession(uid, sessionID string) (*models.ConversationSession, error) {
	if sessionID != "" {
		var session models.ConversationSession
		err := config.DB.Where("id = ? AND user_id = ?", sessionID, uid).First(&session).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, fmt.Errorf("%w: 会话不存在", apperrors.ErrNotFound)
			}
			return nil, fmt.Errorf("查询会话失败: %v", err)
		}
		return &session, nil
	}

	session := models.ConversationSession{
		ID:        utils.GenerateID(),
		UserID:    uid,
		StartTime: time.Now(),
	}
	if err := config.DB.Create(&session).Error; err != nil {
		return nil, fmt.Errorf("创建会话失败: %v", err)
	}
	return &session, nil
}

// CloseSession 结束会话，写入 end_time
func (c *ChatController) CloseSession(ctx *gin.Context) {
	uid, exists := ctx.Get("uid")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	var session models.ConversationSession
	err := config.DB.Where("id = ? AND user_id = ?", ctx.Param("id"), uid).First(&session).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "会话不存在"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "查询会话失败"})
		}
		return
	}

	now := time.Now()
	if err := config.DB.Model(&session).Update("end_time", &now).Error; err != nil {
		config.Logger.Errorw("结束会话失败", "error", err, "sessionID", session.ID)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "结束会话失败"})
		return
	}

	session.EndTime = &now
	ctx.JSON(http.StatusOK, session)
}

// GetHistory 获取会话消息历史
func (c *ChatController) GetHistory(ctx *gin.Context) {
	uid, exists := ctx.Get("uid")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	var session models.ConversationSession
	err := config.DB.Where("id = ? AND user_id = ?", ctx.Param("id"), uid).First(&session).Error
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "会话不存在"})
		return
	}

	var messages []models.ConversationMessage
	if err := config.DB.Where("session_id = ?", session.ID).
		Order("created_at").
		Find(&messages).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "查询消息历史失败"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"session":  session,
		"messages": messages,
	})
}

// writeEvent 以 SSE 格式写出一个事件，返回 false 表示客户端已断开
func writeEvent(ctx *gin.Context, event StreamEvent) bool {
	payload, err := json.Marshal(event)
	if err != nil {
		config.Logger.Errorw("序列化事件失败", "error", err)
		return false
	}
	if _, err := fmt.Fprintf(ctx.Writer, "data: %s\n\n", payload); err != nil {
		return false
	}
	ctx.Writer.Flush() // 确保每个事件都被立即发送
	return true
}

func summaryCacheKey(sessionID string) string {
	return fmt.Sprintf("chat_summary:%s", sessionID)
}

// Wait 用于优雅关闭
func (c *ChatController) Wait() {
	c.wg.Wait()
	c.chatService.Wait()
}
