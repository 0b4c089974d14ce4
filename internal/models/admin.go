package models

import (
	"time"

	"gorm.io/gorm"
)

// Admin 后台录单账号
type Admin struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	Username     string `gorm:"uniqueIndex;size:64;not null" json:"username"`
	PasswordHash string `gorm:"not null" json:"-"`
	// IsSuper 超级管理员跳过 RBAC 校验
	IsSuper bool `gorm:"not null;default:false;index" json:"is_super"`
	// IsDisabled 停用账号无法登录，已签发的 token 同时失效
	IsDisabled bool `gorm:"not null;default:false" json:"is_disabled"`

	// TokenVersion 每次注销自增，旧版本 token 全部作废
	TokenVersion       uint64     `gorm:"not null;default:0" json:"-"`
	TokenInvalidBefore *time.Time `gorm:"index" json:"-"`

	LastLoginAt *time.Time     `json:"last_login_at"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName 指定表名
func (Admin) TableName() string {
	return "admins"
}
