package admin

import (
	"strings"
	"time"

	handlershared "github.com/dujiao-next/order-desk/internal/http/handlers/shared"
	"github.com/dujiao-next/order-desk/internal/http/response"
	"github.com/dujiao-next/order-desk/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetAdminOrders 获取录单订单列表
// 只读审计员可查看全部；?mine=1 仅查看自己提交的订单
func (h *Handler) GetAdminOrders(c *gin.Context) {
	pq := handlershared.ParsePageQuery(c, 0)

	filter := repository.OrderListFilter{
		Page:     pq.Page,
		PageSize: pq.PageSize,
		Status:   strings.TrimSpace(c.Query("status")),
		OrderNo:  strings.TrimSpace(c.Query("order_no")),
	}
	if c.Query("mine") == "1" {
		adminID, ok := getAdminID(c)
		if !ok {
			return
		}
		filter.AdminID = adminID
	}
	if from, ok := parseDateQuery(c.Query("created_from")); ok {
		filter.CreatedFrom = &from
	}
	if to, ok := parseDateQuery(c.Query("created_to")); ok {
		filter.CreatedTo = &to
	}

	orders, total, err := h.OrderRepo.ListAdmin(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, orders, pq.Result(total))
}

// GetAdminOrder 按订单号获取订单详情
func (h *Handler) GetAdminOrder(c *gin.Context) {
	order, err := h.OrderService.GetByOrderNo(c.Param("order_no"))
	if err != nil {
		respondDraftError(c, err)
		return
	}
	response.Success(c, order)
}

func parseDateQuery(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed, true
	}
	if parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local); err == nil {
		return parsed, true
	}
	return time.Time{}, false
}
