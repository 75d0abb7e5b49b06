package crud

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
)

const (
	// PageSizeQuery 每页数量的查询参数名
	PageSizeQuery = "pageSize"
	// PageTokenQuery 页码的查询参数名
	PageTokenQuery = "pageToken"
)

// BindPagination 从查询参数读取分页请求，缺失或非法的值重置为默认值
func BindPagination(c *gin.Context) PaginationRequest {
	return Paginate(
		cast.ToInt(c.Query(PageSizeQuery)),
		cast.ToInt(c.Query(PageTokenQuery)),
	)
}

// AbortWithError 按错误类型写入 JSON 错误响应
func AbortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(StatusOf(err), gin.H{"error": err.Error()})
}
