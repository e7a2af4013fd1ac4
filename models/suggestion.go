package models

import "time"

// SuggestionCard 建议卡片
type SuggestionCard struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Category         string `json:"category"` // breathing / mindfulness / exercise / break / study_break / planning / bonding
	DurationMinutes  int    `json:"durationMinutes"`
	UserTypeSpecific bool   `json:"userTypeSpecific"`
}

// SuggestionLog 建议曝光与完成记录
type SuggestionLog struct {
	ID           string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID       string    `gorm:"type:varchar(50);index" json:"userId"`
	SuggestionID string    `gorm:"type:varchar(100)" json:"suggestionId"`
	Action       string    `gorm:"type:varchar(20)" json:"action"` // completed / skipped
	CreatedAt    time.Time `json:"createdAt"`
}

// TherapeuticGoal 用户设定的目标
type TherapeuticGoal struct {
	ID          string     `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID      string     `gorm:"type:varchar(50);index" json:"userId"`
	Title       string     `gorm:"type:varchar(200)" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	IsCompleted bool       `gorm:"default:false" json:"isCompleted"`
	TargetDate  *time.Time `json:"targetDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
