package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 已提交订单表（由草稿提交生成）
type Order struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                         // 主键
	OrderNo         string         `gorm:"uniqueIndex;not null" json:"order_no"`                         // 订单编号（跟踪号）
	DraftID         string         `gorm:"type:varchar(64);index" json:"draft_id"`                       // 来源草稿ID
	AdminID         uint           `gorm:"index;not null;default:0" json:"admin_id"`                     // 录单管理员ID
	Status          string         `gorm:"index;not null" json:"status"`                                 // 订单状态
	Currency        string         `gorm:"not null" json:"currency"`                                     // 币种
	CustomerName    string         `gorm:"type:varchar(100)" json:"customer_name"`                       // 客户姓名（散客为空）
	CustomerPhone   string         `gorm:"type:varchar(50)" json:"customer_phone"`                       // 客户电话
	CustomerEmail   string         `gorm:"type:varchar(255)" json:"customer_email"`                      // 客户邮箱
	CustomerAddress string         `gorm:"type:varchar(500)" json:"customer_address"`                    // 收货地址
	CustomerNote    string         `gorm:"type:text" json:"customer_note"`                               // 备注
	DiscountCode    string         `gorm:"type:varchar(64);index" json:"discount_code,omitempty"`        // 优惠码快照
	OriginalAmount  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"original_amount"` // 小计
	DiscountAmount  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"` // 优惠金额
	ShippingFee     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_fee"`    // 运费
	TotalAmount     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`    // 应付金额
	ProcessedAt     *time.Time     `gorm:"index" json:"processed_at"`                                    // 后续处理时间
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                                      // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
