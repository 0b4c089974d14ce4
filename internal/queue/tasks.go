package queue

import (
	"encoding/json"

	"github.com/dujiao-next/order-desk/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderSubmitted 草稿提交成功后的订单后续处理任务
	TaskOrderSubmitted = constants.TaskOrderSubmitted
)

// OrderSubmittedPayload 订单提交任务载荷
type OrderSubmittedPayload struct {
	OrderID uint   `json:"order_id"`
	OrderNo string `json:"order_no"`
	AdminID uint   `json:"admin_id"`
	DraftID string `json:"draft_id"`
}

// NewOrderSubmittedTask 创建订单提交任务
func NewOrderSubmittedTask(payload OrderSubmittedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderSubmitted, body), nil
}

// ParseOrderSubmittedPayload 解析订单提交任务载荷
func ParseOrderSubmittedPayload(task *asynq.Task) (OrderSubmittedPayload, error) {
	var payload OrderSubmittedPayload
	if task == nil {
		return payload, nil
	}
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}
