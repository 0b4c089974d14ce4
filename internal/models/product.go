package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品目录表
type Product struct {
	ID         uint           `gorm:"primarykey" json:"id"`                                    // 主键
	CategoryID uint           `gorm:"not null;default:0;index" json:"category_id"`             // 分类ID（0 表示未分类）
	Slug       string         `gorm:"uniqueIndex;not null" json:"slug"`                        // 唯一标识
	Name       string         `gorm:"type:varchar(255);not null;index" json:"name"`            // 商品名称
	Thumbnail  string         `gorm:"type:varchar(500)" json:"thumbnail"`                      // 缩略图
	BasePrice  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"base_price"` // 基础价
	Tags       StringArray    `gorm:"type:json" json:"tags"`                                   // 标签数组
	IsActive   bool           `gorm:"default:true;index" json:"is_active"`                     // 是否上架
	SortOrder  int            `gorm:"default:0;index" json:"sort_order"`                       // 排序权重
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`                                 // 创建时间
	UpdatedAt  time.Time      `json:"updated_at"`                                              // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                                          // 软删除时间

	// 关联
	Category   *Category          `gorm:"foreignKey:CategoryID" json:"category,omitempty"`  // 分类信息
	Attributes []ProductAttribute `gorm:"foreignKey:ProductID" json:"attributes,omitempty"` // 属性选项
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
