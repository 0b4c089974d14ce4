package shared

import (
	"strconv"

	"github.com/dujiao-next/order-desk/internal/http/response"

	"github.com/gin-gonic/gin"
)

// AdminIDKey 鉴权中间件写入的管理员 ID
const AdminIDKey = "admin_id"

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// AdminID 读取当前管理员 ID，缺失或类型异常时直接写出错误响应
func AdminID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(AdminIDKey)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}
	id, ok := value.(uint)
	if !ok {
		RespondError(c, response.CodeInternal, "error.admin_id_type_invalid", nil)
		return 0, false
	}
	if id == 0 {
		RespondError(c, response.CodeBadRequest, "error.admin_id_invalid", nil)
		return 0, false
	}
	return id, true
}

// PageQuery 列表接口的分页参数
type PageQuery struct {
	Page     int
	PageSize int
}

// ParsePageQuery 读取 page/page_size，非法值回落默认，page_size 不超过 limit
func ParsePageQuery(c *gin.Context, limit int) PageQuery {
	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}
	q := PageQuery{Page: 1, PageSize: defaultPageSize}
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		q.Page = page
	}
	if size, err := strconv.Atoi(c.Query("page_size")); err == nil && size > 0 {
		q.PageSize = size
	}
	if q.PageSize > limit {
		q.PageSize = limit
	}
	return q
}

// Result 结合总数生成响应中的分页信息
func (q PageQuery) Result(total int64) response.Pagination {
	size := int64(q.PageSize)
	return response.Pagination{
		Page:      q.Page,
		PageSize:  q.PageSize,
		Total:     total,
		TotalPage: (total + size - 1) / size,
	}
}
