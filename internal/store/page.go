package store

import "gorm.io/gorm"

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// PageRequest is a 1-indexed page selection
type PageRequest struct {
	Page    int
	PerPage int
}

// Normalize applies defaults: page 1, 10 per page, at most MaxPerPage
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

// Offset is the row offset of the first item on the page
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// PageResult is one page of items plus the totals needed to navigate
type PageResult[T any] struct {
	Items   []T
	Total   int64
	Page    int
	PerPage int
	Pages   int
}

// HasPrev reports whether an earlier page exists
func (r PageResult[T]) HasPrev() bool {
	return r.Page > 1
}

// HasNext reports whether a later page exists
func (r PageResult[T]) HasNext() bool {
	return r.Page < r.Pages
}

// PageCount is the number of pages needed for total items
func PageCount(total int64, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

// paginate counts q, then fetches one ordered page of it.
// A page past the end yields no items but keeps the totals.
func paginate[T any](q *gorm.DB, req PageRequest, order string, preloads ...string) (PageResult[T], error) {
	req = req.Normalize()
	q = q.Session(&gorm.Session{})

	result := PageResult[T]{
		Items:   []T{},
		Page:    req.Page,
		PerPage: req.PerPage,
	}

	if err := q.Count(&result.Total).Error; err != nil {
		return result, err
	}
	result.Pages = PageCount(result.Total, req.PerPage)

	if int64(req.Offset()) >= result.Total {
		return result, nil
	}

	find := q.Order(order).Offset(req.Offset()).Limit(req.PerPage)
	for _, p := range preloads {
		find = find.Preload(p)
	}
	if err := find.Find(&result.Items).Error; err != nil {
		return result, err
	}
	return result, nil
}
