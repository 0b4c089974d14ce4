package models

import "time"

// DraftSlot 草稿工作区持久化槽位（整体覆盖写入）
type DraftSlot struct {
	ID        uint      `gorm:"primarykey" json:"id"`                               // 主键
	SlotKey   string    `gorm:"type:varchar(191);uniqueIndex;not null" json:"slot"` // 槽位键
	Payload   string    `gorm:"type:text;not null" json:"-"`                        // 序列化后的草稿集合
	Size      int       `gorm:"not null;default:0" json:"size"`                     // 载荷字节数
	CreatedAt time.Time `json:"created_at"`                                         // 创建时间
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`                            // 更新时间
}

// TableName 指定表名
func (DraftSlot) TableName() string {
	return "draft_slots"
}
