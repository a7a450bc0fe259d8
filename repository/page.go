package repository

import "gorm.io/gorm"

// PageRequest is a 1-based page selector.
type PageRequest struct {
	PageNo   int
	PageSize int
}

func (p PageRequest) normalized() PageRequest {
	if p.PageNo < 1 {
		p.PageNo = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 10
	}
	return p
}

func (p PageRequest) Offset() int {
	n := p.normalized()
	return (n.PageNo - 1) * n.PageSize
}

// Page holds one page of results plus the total row count.
type Page[T any] struct {
	Items    []T
	Total    int64
	PageNo   int
	PageSize int
}

// paginate counts the query and then loads the requested window into a Page.
// Preloads are applied to the window query only.
func paginate[T any](query *gorm.DB, req PageRequest, order string, preloads ...string) (Page[T], error) {
	req = req.normalized()
	page := Page[T]{PageNo: req.PageNo, PageSize: req.PageSize}

	if err := query.Session(&gorm.Session{}).Count(&page.Total).Error; err != nil {
		return page, err
	}
	if page.Total == 0 {
		page.Items = []T{}
		return page, nil
	}
	find := query.Order(order).Offset(req.Offset()).Limit(req.PageSize)
	for _, rel := range preloads {
		find = find.Preload(rel)
	}
	if err := find.Find(&page.Items).Error; err != nil {
		return page, err
	}
	return page, nil
}
