package models

import "time"

// MoodEntry 心情记录模型
type MoodEntry struct {
	ID        string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(50);index:idx_user_recorded" json:"userId"`
	MoodScore int       `json:"moodScore"` // 1-10
	Note      string    `gorm:"type:text" json:"note"`
	// Tags 以逗号分隔存储，出入参转换为数组
	Tags       string    `gorm:"type:varchar(255)" json:"-"`
	RecordedAt time.Time `gorm:"index:idx_user_recorded" json:"recordedAt"`

	// 可选的情绪分析快照
	SentimentLabel     string  `gorm:"type:varchar(50)" json:"sentimentLabel,omitempty"`
	SentimentIntensity float64 `json:"sentimentIntensity,omitempty"` // 0-1
	SentimentRationale string  `gorm:"type:text" json:"sentimentRationale,omitempty"`
}
