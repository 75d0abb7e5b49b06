package crud

const (
	// DefaultPageSize 默认每页数量
	DefaultPageSize = 20
	// DefaultPageToken 默认页码，从 1 开始
	DefaultPageToken = 1
)

// PaginationRequest 分页请求
// 页码从 1 开始；非正数的 PageSize/PageToken 在写入时重置为默认值，读取时不再校正
// 字段保存相对默认值的偏移，零值即 20/1
type PaginationRequest struct {
	sizeOffset  int
	tokenOffset int
}

// NewPaginationRequest 创建默认分页请求 (20/1)
func NewPaginationRequest() PaginationRequest {
	return PaginationRequest{}
}

// Paginate 创建分页请求，参数按 SetPageSize/SetPageToken 规则校正
func Paginate(pageSize, pageToken int) PaginationRequest {
	var r PaginationRequest
	r.SetPageSize(pageSize)
	r.SetPageToken(pageToken)
	return r
}

// PageSize 返回每页数量
func (r PaginationRequest) PageSize() int {
	return r.sizeOffset + DefaultPageSize
}

// PageToken 返回页码
func (r PaginationRequest) PageToken() int {
	return r.tokenOffset + DefaultPageToken
}

// SetPageSize 设置每页数量，<=0 时重置为 DefaultPageSize
func (r *PaginationRequest) SetPageSize(size int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	r.sizeOffset = size - DefaultPageSize
}

// SetPageToken 设置页码，<=0 时重置为 DefaultPageToken
func (r *PaginationRequest) SetPageToken(token int) {
	if token <= 0 {
		token = DefaultPageToken
	}
	r.tokenOffset = token - DefaultPageToken
}

// Skip 返回跳过的行数: (pageToken-1)*pageSize
func (r PaginationRequest) Skip() int {
	return (r.PageToken() - 1) * r.PageSize()
}

// Take 返回本页读取的行数
func (r PaginationRequest) Take() int {
	return r.PageSize()
}

// PaginationMetadata 分页元数据
type PaginationMetadata struct {
	PageSize   int   `json:"pageSize"`
	PageToken  int   `json:"pageToken"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
}

// NewMetadata 根据分页请求和分页前的总行数计算元数据
func NewMetadata(req PaginationRequest, totalCount int64) PaginationMetadata {
	return PaginationMetadata{
		PageSize:   req.PageSize(),
		PageToken:  req.PageToken(),
		TotalCount: totalCount,
		TotalPages: TotalPages(totalCount, req.PageSize()),
	}
}

// TotalPages 向上取整计算总页数
func TotalPages(totalCount int64, pageSize int) int {
	if pageSize <= 0 || totalCount <= 0 {
		return 0
	}
	return int((totalCount + int64(pageSize) - 1) / int64(pageSize))
}

// HasPrevious 是否存在上一页
func (m PaginationMetadata) HasPrevious() bool {
	return m.PageToken > 1
}

// HasNext 是否存在下一页
func (m PaginationMetadata) HasNext() bool {
	return m.PageToken < m.TotalPages
}

// PreviousToken 上一页页码
func (m PaginationMetadata) PreviousToken() int {
	if !m.HasPrevious() {
		return m.PageToken
	}
	return m.PageToken - 1
}

// NextToken 下一页页码
func (m PaginationMetadata) NextToken() int {
	if !m.HasNext() {
		return m.PageToken
	}
	return m.PageToken + 1
}

// Page 分页结果
type Page[T any] struct {
	Items      []*T               `json:"items"`
	Pagination PaginationMetadata `json:"pagination"`
}
