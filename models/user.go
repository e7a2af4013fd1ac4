package models

import (
	"time"
)

// 用户分类
const (
	UserTypeStudent           = "student"
	UserTypeYoungProfessional = "young_professional"
	UserTypePregnantWoman     = "pregnant_woman"
	UserTypeGeneral           = "general"
)

// ValidUserType 校验用户分类取值
func ValidUserType(t string) bool {
	switch t {
	case UserTypeStudent, UserTypeYoungProfessional, UserTypePregnantWoman, UserTypeGeneral:
		return true
	}
	return false
}

// User 用户模型
type User struct {
	ID             string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	Username       string    `gorm:"type:varchar(100);uniqueIndex" json:"username"`
	Email          string    `gorm:"type:varchar(100)" json:"email"`
	HashedPassword string    `gorm:"type:varchar(100)" json:"-"`
	UserType       string    `gorm:"type:varchar(50);default:general" json:"userType"`
	IsActive       bool      `gorm:"default:true" json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// RefreshToken 刷新令牌模型，只存哈希，不存明文
type RefreshToken struct {
	ID        string     `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID    string     `gorm:"type:varchar(50);index" json:"userId"`
	TokenHash string     `gorm:"type:varchar(255);uniqueIndex" json:"-"`
	ExpiresAt time.Time  `gorm:"index" json:"expiresAt"`
	IsRevoked bool       `gorm:"default:false" json:"isRevoked"`
	RevokedAt *time.Time `json:"revokedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// IsValid 令牌未过期且未吊销
func (t *RefreshToken) IsValid() bool {
	return !t.IsRevoked && time.Now().Before(t.ExpiresAt)
}
