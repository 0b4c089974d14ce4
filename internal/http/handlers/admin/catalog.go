package admin

import (
	"strconv"

	handlershared "github.com/dujiao-next/order-desk/internal/http/handlers/shared"
	"github.com/dujiao-next/order-desk/internal/http/response"
	"github.com/dujiao-next/order-desk/internal/service"

	"github.com/gin-gonic/gin"
)

// GetCatalogProducts 搜索可录单商品
func (h *Handler) GetCatalogProducts(c *gin.Context) {
	pq := handlershared.ParsePageQuery(c, service.CatalogMaxPageSize)
	categoryID, _ := strconv.ParseUint(c.Query("category_id"), 10, 64)

	items, total, err := h.CatalogService.Search(c.Request.Context(), service.CatalogSearchInput{
		Keyword:    c.Query("search"),
		CategoryID: uint(categoryID),
		Page:       pq.Page,
		PageSize:   pq.PageSize,
	})
	if err != nil {
		respondDraftError(c, err)
		return
	}
	response.SuccessWithPage(c, items, pq.Result(total))
}

// GetCatalogProduct 获取商品目录快照
func (h *Handler) GetCatalogProduct(c *gin.Context) {
	item, err := h.CatalogService.Lookup(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondDraftError(c, err)
		return
	}
	response.Success(c, item)
}

// GetCatalogCategories 获取商品分类
func (h *Handler) GetCatalogCategories(c *gin.Context) {
	categories, err := h.CatalogService.Categories(c.Request.Context())
	if err != nil {
		respondDraftError(c, err)
		return
	}
	response.Success(c, categories)
}
