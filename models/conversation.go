package models

import "time"

// 消息发送方
const (
	SenderUser = "user"
	SenderAI   = "ai"
)

// ConversationSession 会话模型
type ConversationSession struct {
	ID        string     `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID    string     `gorm:"type:varchar(50);index" json:"userId"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
}

// ConversationMessage 聊天消息模型，创建后不再修改
type ConversationMessage struct {
	ID              string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	SessionID       string    `gorm:"type:varchar(50);index" json:"sessionId"`
	Sender          string    `gorm:"type:varchar(10)" json:"sender"` // user / ai
	Content         string    `gorm:"type:text" json:"content"`
	DecisionID      *string   `gorm:"type:varchar(50)" json:"decisionId,omitempty"`
	CrisisTriggered bool      `gorm:"default:false" json:"crisisTriggered"`
	CreatedAt       time.Time `json:"createdAt"`
}
