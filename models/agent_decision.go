package models

import "time"

// 决策动作
const (
	ActionNormalReply       = "normal_reply"
	ActionSupportSuggestion = "support_suggestion"
	ActionCrisisFlow        = "crisis_flow"
)

// EmotionResult 情绪分析结果
type EmotionResult struct {
	Label     string  `json:"label"`     // joy / neutral / stress / sadness / anger / crisis
	Intensity float64 `json:"intensity"` // 0-1
	Rationale string  `json:"rationale"`
}

// AgentDecision 情绪决策记录，每条用户消息产生一条，创建后不再修改
type AgentDecision struct {
	ID               string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID           string    `gorm:"type:varchar(50);index" json:"userId"`
	SessionID        string    `gorm:"type:varchar(50);index" json:"sessionId"`
	EmotionLabel     string    `gorm:"type:varchar(50)" json:"emotionLabel"`
	EmotionIntensity float64   `json:"emotionIntensity"` // 0-1
	EmotionRationale string    `gorm:"type:text" json:"emotionRationale"`
	NextAction       string    `gorm:"type:varchar(50)" json:"nextAction"`
	ActionReason     string    `gorm:"type:text" json:"actionReason"`
	ActionMetadata   string    `gorm:"type:text" json:"actionMetadata"` // JSON 字符串
	CreatedAt        time.Time `json:"createdAt"`
}

// CrisisEvent 危机干预记录，仅在 next_action 为 crisis_flow 时创建
type CrisisEvent struct {
	ID               string     `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID           string     `gorm:"type:varchar(50);index" json:"userId"`
	SessionID        string     `gorm:"type:varchar(50)" json:"sessionId"`
	DecisionID       string     `gorm:"type:varchar(50);index" json:"decisionId"`
	EmotionIntensity float64    `json:"emotionIntensity"`
	EmotionRationale string     `gorm:"type:text" json:"emotionRationale"`
	ActionTaken      string     `gorm:"type:varchar(100)" json:"actionTaken"`
	Resolved         bool       `gorm:"default:false" json:"resolved"`
	ResolvedAt       *time.Time `json:"resolvedAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}
