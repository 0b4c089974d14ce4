package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/dujiao-next/order-desk/internal/composer"
	"github.com/dujiao-next/order-desk/internal/constants"
	"github.com/dujiao-next/order-desk/internal/logger"
	"github.com/dujiao-next/order-desk/internal/models"
	"github.com/dujiao-next/order-desk/internal/queue"
	"github.com/dujiao-next/order-desk/internal/repository"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

const orderNoMaxAttempts = 5

// OrderSubmitter 下单接口（草稿引擎的外部协作者）
type OrderSubmitter interface {
	Submit(ctx context.Context, adminID uint, req composer.SubmitRequest) (*models.Order, error)
}

// OrderEnqueuer 订单后续任务投递
type OrderEnqueuer interface {
	EnqueueOrderSubmitted(payload queue.OrderSubmittedPayload, opts ...asynq.Option) error
}

// OrderService 将草稿提交落库为订单
type OrderService struct {
	orderRepo repository.OrderRepository
	queue     OrderEnqueuer
	currency  string
	now       func() time.Time
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, queueClient OrderEnqueuer, currency string) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		queue:     queueClient,
		currency:  currency,
		now:       time.Now,
	}
}

// Submit 在事务中写入订单与订单项，成功后投递后续处理任务
func (s *OrderService) Submit(ctx context.Context, adminID uint, req composer.SubmitRequest) (*models.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(req.LineItems) == 0 {
		return nil, ErrEmptyCart
	}
	orderNo, err := s.nextOrderNo()
	if err != nil {
		return nil, err
	}

	customer := req.Customer.Normalize()
	order := &models.Order{
		OrderNo:         orderNo,
		DraftID:         req.DraftID,
		AdminID:         adminID,
		Status:          constants.OrderStatusSubmitted,
		Currency:        s.currency,
		CustomerName:    customer.Name,
		CustomerPhone:   customer.Phone,
		CustomerEmail:   customer.Email,
		CustomerAddress: customer.Address,
		CustomerNote:    customer.Note,
		OriginalAmount:  req.Summary.Subtotal,
		DiscountAmount:  req.Summary.DiscountAmount,
		ShippingFee:     req.Summary.ShippingFee,
		TotalAmount:     req.Summary.Total,
	}
	if req.Discount != nil {
		order.DiscountCode = req.Discount.Code
	}
	items := buildOrderItems(req.LineItems)

	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		return s.orderRepo.WithTx(tx).Create(order, items)
	})
	if err != nil {
		return nil, err
	}

	if s.queue != nil {
		payload := queue.OrderSubmittedPayload{
			OrderID: order.ID,
			OrderNo: order.OrderNo,
			AdminID: adminID,
			DraftID: req.DraftID,
		}
		if err := s.queue.EnqueueOrderSubmitted(payload); err != nil {
			logger.Warnw("order_submitted_enqueue_failed", "order_id", order.ID, "order_no", order.OrderNo, "error", err)
		}
	}
	return order, nil
}

// MarkProcessed 将已提交订单标记为处理中（幂等）
func (s *OrderService) MarkProcessed(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusSubmitted {
		return order, nil
	}
	now := s.now()
	if err := s.orderRepo.UpdateStatus(order.ID, constants.OrderStatusProcessing, map[string]interface{}{
		"processed_at": now,
	}); err != nil {
		return nil, err
	}
	order.Status = constants.OrderStatusProcessing
	order.ProcessedAt = &now
	return order, nil
}

// GetByOrderNo 按订单号查询
func (s *OrderService) GetByOrderNo(orderNo string) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNo(strings.TrimSpace(orderNo))
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func buildOrderItems(lines []composer.LineItem) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		attributes := make(models.AttributeSnapshots, 0, len(line.SelectedAttributes))
		for _, selection := range line.SelectedAttributes {
			attributes = append(attributes, models.AttributeSnapshot{
				Name:  selection.Name,
				Unit:  selection.Unit,
				Price: selection.Price,
				Image: selection.Image,
			})
		}
		items = append(items, models.OrderItem{
			ProductID:  line.ProductID,
			Title:      line.Name,
			Thumbnail:  line.Thumbnail,
			BasePrice:  line.BasePrice,
			Attributes: attributes,
			UnitPrice:  line.UnitPrice,
			Quantity:   line.Quantity,
			TotalPrice: line.LineTotal,
		})
	}
	return items
}

func (s *OrderService) nextOrderNo() (string, error) {
	for i := 0; i < orderNoMaxAttempts; i++ {
		orderNo := generateOrderNo(s.now())
		exists, err := s.orderRepo.ExistsOrderNo(orderNo)
		if err != nil {
			return "", err
		}
		if !exists {
			return orderNo, nil
		}
	}
	return "", fmt.Errorf("generate order no failed after %d attempts", orderNoMaxAttempts)
}

// generateOrderNo 跟踪号：OD + yyyymmddhhmmss + 6 位随机数
func generateOrderNo(now time.Time) string {
	return fmt.Sprintf("OD%s%s", now.Format("20060102150405"), randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
