package types

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Pagination carries normalized paging parameters parsed from the query
// string. Offset is derived, ready for LIMIT/OFFSET queries.
type Pagination struct {
	Page     int
	PageSize int
	Offset   int
}

// PaginatedResponse wraps a page of data with its paging metadata.
type PaginatedResponse struct {
	Data interface{} `json:"data"`
	Meta struct {
		Page       int `json:"page"`
		PageSize   int `json:"pageSize"`
		Total      int `json:"total"`
		TotalPages int `json:"totalPages"`
	} `json:"meta"`
}

// NewPagination normalizes raw paging values: page floors at 1, pageSize
// falls back to the default and caps at the maximum.
func NewPagination(page, pageSize int) *Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return &Pagination{
		Page:     page,
		PageSize: pageSize,
		Offset:   (page - 1) * pageSize,
	}
}

// ParsePagination extracts page/pageSize from the request query.
func ParsePagination(c *gin.Context) *Pagination {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(defaultPageSize)))
	return NewPagination(page, pageSize)
}

// BuildResponse assembles the paginated envelope for a page of data.
func (p *Pagination) BuildResponse(data interface{}, total int) PaginatedResponse {
	resp := PaginatedResponse{Data: data}
	resp.Meta.Page = p.Page
	resp.Meta.PageSize = p.PageSize
	resp.Meta.Total = total
	resp.Meta.TotalPages = (total + p.PageSize - 1) / p.PageSize
	return resp
}
