package types

// Pagination - номер страницы (с 1) и её размер.
type Pagination struct {
	Page     int
	PageSize int
}

func NewPagination(page, pageSize int) Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return Pagination{Page: page, PageSize: pageSize}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// TotalPages - число страниц для total записей; пустой список занимает одну страницу.
func (p Pagination) TotalPages(total int64) int {
	if total <= 0 {
		return 1
	}
	return int((total + int64(p.PageSize) - 1) / int64(p.PageSize))
}
