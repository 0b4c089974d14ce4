package admin

import (
	"strings"

	"github.com/dujiao-next/order-desk/internal/composer"
	"github.com/dujiao-next/order-desk/internal/http/response"
	"github.com/dujiao-next/order-desk/internal/models"
	"github.com/dujiao-next/order-desk/internal/service"

	"github.com/gin-gonic/gin"
)

// AddDraftItemRequest 加入商品请求
type AddDraftItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// SetDraftItemQuantityRequest 设置数量请求；quantity <= 0 删除该行
type SetDraftItemQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

// ToggleDraftAttributeRequest 切换属性请求
type ToggleDraftAttributeRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateDraftCustomerRequest 更新客户信息请求；customer 为 null 表示散客
type UpdateDraftCustomerRequest struct {
	Customer *composer.CustomerInfo `json:"customer"`
}

// ApplyDraftDiscountRequest 应用优惠码请求
type ApplyDraftDiscountRequest struct {
	Code string `json:"code"`
}

// SetDraftShippingRequest 设置运费请求
type SetDraftShippingRequest struct {
	ShippingFee *models.Money `json:"shipping_fee"`
}

// SubmitDraftRequest 提交请求；draft_id 为空时提交激活草稿
type SubmitDraftRequest struct {
	DraftID string `json:"draft_id"`
}

// GetDrafts 获取当前管理员的草稿工作区
func (h *Handler) GetDrafts(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	response.Success(c, h.ComposerService.Workspace(c.Request.Context(), adminID))
}

// CreateDraft 新建草稿并激活
func (h *Handler) CreateDraft(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	response.Success(c, h.ComposerService.CreateDraft(c.Request.Context(), adminID))
}

// CloseDraft 关闭草稿
func (h *Handler) CloseDraft(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	ws, err := h.ComposerService.CloseDraft(c.Request.Context(), adminID, c.Param("id"))
	if err != nil {
		respondDraftError(c, err)
		return
	}
	response.Success(c, ws)
}

// ActivateDraft 切换激活草稿
func (h *Handler) ActivateDraft(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	ws, err := h.ComposerService.SwitchDraft(c.Request.Context(), adminID, c.Param("id"))
	if err != nil {
		respondDraftError(c, err)
		return
	}
	response.Success(c, ws)
}

// AddDraftItem 向激活草稿加入商品（重复加入时数量 +1）
func (h *Handler) AddDraftItem(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	var req AddDraftItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	view, err := h.ComposerService.AddProduct(c.Request.Context(), adminID, strings.TrimSpace(req.ProductID))
	if err != nil {
		respondDraftError(c, err)
		return
	}
	response.Success(c, view)
}

// SetDraftItemQuantity 设置订单行数量
func (h *Handler) SetDraftItemQuantity(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	var req SetDraftItemQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if req.Quantity == nil {
		respondDraftError(c, service.ErrInvalidQuantity)
		return
	}
	view, err := h.ComposerService.SetQuantity(c.Request.Context(), adminID, c.Param("product_id"), *req.Quantity)
	if err != nil {
		respondDraftError(c, err)
		return
	}
	response.Success(c, view)
}

// RemoveDraftItem 删除订单行
func (h *Handler) RemoveDraftItem(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	view, err := h.ComposerService.RemoveItem(c.Request.Context(), adminID, c.Param("product_id"))
	if err != nil {
		respondDraftError(c, err)
		return
	}
	response.Success(c, view)
}

// ToggleDraftItemAttribute 切换订单行属性
func (h *Handler) ToggleDraftItemAttribute(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	var req ToggleDraftAttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	view, err := h.ComposerService.ToggleAttribute(c.Request.Context(), adminID, c.Param("product_id"), req.Name)
	if err != nil {
		respondDraftError(c, err)
		return
	}
	response.Success(c, view)
}

// UpdateDraftCustomer 更新客户信息
func (h *Handler) UpdateDraftCustomer(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	var req UpdateDraftCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	view, err := h.ComposerService.UpdateCustomer(c.Request.Context(), adminID, req.Customer)
	if err != nil {
		respondDraftError(c, err)
		return
	}
	response.Success(c, view)
}

// ApplyDraftDiscount 应用优惠码
func (h *Handler) ApplyDraftDiscount(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	var req ApplyDraftDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	view, err := h.ComposerService.ApplyDiscount(c.Request.Context(), adminID, req.Code)
	if err != nil {
		respondDraftError(c, err)
		return
	}
	response.Success(c, view)
}

// ClearDraftDiscount 移除优惠码
func (h *Handler) ClearDraftDiscount(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	view, err := h.ComposerService.ClearDiscount(c.Request.Context(), adminID)
	if err != nil {
		respondDraftError(c, err)
		return
	}
	response.Success(c, view)
}

// SetDraftShipping 设置运费
func (h *Handler) SetDraftShipping(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	var req SetDraftShippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if req.ShippingFee == nil {
		respondError(c, response.CodeBadRequest, "error.shipping_fee_invalid", nil)
		return
	}
	view, err := h.ComposerService.SetShippingFee(c.Request.Context(), adminID, req.ShippingFee.Decimal)
	if err != nil {
		respondDraftError(c, err)
		return
	}
	response.Success(c, view)
}

// SubmitDraft 提交草稿为订单
func (h *Handler) SubmitDraft(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	var req SubmitDraftRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
	}
	result, err := h.ComposerService.Submit(c.Request.Context(), adminID, req.DraftID)
	if err != nil {
		respondDraftError(c, err)
		return
	}
	response.Success(c, result)
}
