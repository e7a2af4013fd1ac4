package models

import "time"

// EmergencyContact 紧急联系人模型，同一用户下电话号码唯一
type EmergencyContact struct {
	ID               string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID           string    `gorm:"type:varchar(50);uniqueIndex:idx_user_phone" json:"userId"`
	Name             string    `gorm:"type:varchar(100)" json:"name"`
	PhoneNumber      string    `gorm:"type:varchar(20);uniqueIndex:idx_user_phone" json:"phoneNumber"`
	RelationshipType string    `gorm:"type:varchar(50)" json:"relationshipType,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}
