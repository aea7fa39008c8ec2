package dto

import "mediavault_backend/internal/types"

// PageResponse - одна страница списка
type PageResponse[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_previous"`
}

func NewPageResponse[T any](items []T, page types.Pagination, total int64) *PageResponse[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := page.TotalPages(total)
	return &PageResponse[T]{
		Items:      items,
		Page:       page.Page,
		PageSize:   page.PageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page.Page < totalPages,
		HasPrev:    page.Page > 1,
	}
}
