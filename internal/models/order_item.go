package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderItem 订单项表（价格均为下单时快照）
type OrderItem struct {
	ID         uint               `gorm:"primarykey" json:"id"`                                     // 主键
	OrderID    uint               `gorm:"index;not null" json:"order_id"`                           // 订单ID
	ProductID  string             `gorm:"type:varchar(64);index;not null" json:"product_id"`        // 商品ID
	Title      string             `gorm:"type:varchar(255);not null" json:"title"`                  // 商品名称快照
	Thumbnail  string             `gorm:"type:varchar(500)" json:"thumbnail"`                       // 缩略图快照
	BasePrice  Money              `gorm:"type:decimal(20,2);not null;default:0" json:"base_price"`  // 基础价快照
	Attributes AttributeSnapshots `gorm:"type:text" json:"attributes"`                              // 选中属性快照
	UnitPrice  Money              `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`  // 单价
	Quantity   int                `gorm:"not null" json:"quantity"`                                 // 数量
	TotalPrice Money              `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"` // 小计
	CreatedAt  time.Time          `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt  time.Time          `gorm:"index" json:"updated_at"`                                  // 更新时间
	DeletedAt  gorm.DeletedAt     `gorm:"index" json:"-"`                                           // 软删除时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
