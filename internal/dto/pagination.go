package dto

import "strings"

const (
	OrderASC  = "ASC"
	OrderDESC = "DESC"

	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 50
)

// PageOptions are the list query parameters. Zero Page/Limit mean "use the
// default"; range checks happen in the list flow.
type PageOptions struct {
	Page    int
	Limit   int
	Search  string
	Status  string
	OrderBy string
	Order   string
}

// WithDefaults fills unset fields and upper-cases Order.
func (o PageOptions) WithDefaults() PageOptions {
	if o.Page == 0 {
		o.Page = DefaultPage
	}
	if o.Limit == 0 {
		o.Limit = DefaultLimit
	}
	if o.Order == "" {
		o.Order = OrderASC
	}
	o.Order = strings.ToUpper(o.Order)
	o.Search = strings.TrimSpace(o.Search)
	return o
}

// Offset is the number of rows skipped before the current page.
func (o PageOptions) Offset() int {
	if o.Page < 1 {
		return 0
	}
	return (o.Page - 1) * o.Limit
}

type PageMeta struct {
	Page            int   `json:"page"`
	Limit           int   `json:"limit"`
	ItemCount       int64 `json:"item_count"`
	PageCount       int64 `json:"page_count"`
	HasPreviousPage bool  `json:"has_previous_page"`
	HasNextPage     bool  `json:"has_next_page"`
}

// NewPageMeta derives page metadata from a total item count.
func NewPageMeta(itemCount int64, opts PageOptions) PageMeta {
	if itemCount < 0 {
		itemCount = 0
	}
	var pageCount int64 = 1
	if opts.Limit > 0 {
		limit := int64(opts.Limit)
		pageCount = (itemCount + limit - 1) / limit
	}
	return PageMeta{
		Page:            opts.Page,
		Limit:           opts.Limit,
		ItemCount:       itemCount,
		PageCount:       pageCount,
		HasPreviousPage: opts.Page > 1,
		HasNextPage:     int64(opts.Page) < pageCount,
	}
}

type Page[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

func NewPage[T any](data []T, meta PageMeta) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{Data: data, Meta: meta}
}
