package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductAttribute 商品属性选项表（选中后以该价格作为单价）
type ProductAttribute struct {
	ID        uint           `gorm:"primarykey" json:"id"`                                                          // 主键
	ProductID uint           `gorm:"not null;index;uniqueIndex:idx_product_attribute_name" json:"product_id"`       // 商品ID
	Name      string         `gorm:"type:varchar(100);not null;uniqueIndex:idx_product_attribute_name" json:"name"` // 属性名称（同商品内唯一）
	Unit      string         `gorm:"type:varchar(50)" json:"unit"`                                                  // 属性单位/分组
	Price     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`                            // 属性价格
	Image     string         `gorm:"type:varchar(500)" json:"image"`                                                // 属性图片
	SortOrder int            `gorm:"default:0;index" json:"sort_order"`                                             // 排序权重
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                                                       // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`                                                       // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                                                // 软删除时间
}

// TableName 指定表名
func (ProductAttribute) TableName() string {
	return "product_attributes"
}
