package models

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	// BrowsePageSize is the fixed page size of the public event listing.
	BrowsePageSize = 12
	// AdminPageSize is how many events the admin dashboard shows.
	AdminPageSize = 20
)

// EventFilter narrows the event listing. Empty fields are not sent.
type EventFilter struct {
	Name        string
	City        string
	Type        string
	IsPromotion string // "", "true" or "false"
	StartDate   string
	EndDate     string
	MinPrice    string
	MaxPrice    string
	Page        int
	Size        int
}

// FilterFromQuery reads a filter from request query parameters.
func FilterFromQuery(q url.Values) EventFilter {
	f := EventFilter{
		Name:        strings.TrimSpace(q.Get("name")),
		City:        q.Get("city"),
		Type:        q.Get("type"),
		IsPromotion: q.Get("ispromotion"),
		StartDate:   q.Get("startDate"),
		EndDate:     q.Get("endDate"),
		MinPrice:    q.Get("minPrice"),
		MaxPrice:    q.Get("maxPrice"),
		Size:        BrowsePageSize,
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 0 {
		f.Page = page
	}
	return f
}

// Query encodes the filter, dropping empty values.
func (f EventFilter) Query() url.Values {
	q := url.Values{}
	set := func(key, value string) {
		if value != "" {
			q.Set(key, value)
		}
	}
	set("name", f.Name)
	set("city", f.City)
	set("type", f.Type)
	set("ispromotion", f.IsPromotion)
	set("startDate", f.StartDate)
	set("endDate", f.EndDate)
	set("minPrice", f.MinPrice)
	set("maxPrice", f.MaxPrice)
	q.Set("page", strconv.Itoa(f.Page))
	size := f.Size
	if size <= 0 {
		size = BrowsePageSize
	}
	q.Set("size", strconv.Itoa(size))
	return q
}

// IsZero reports whether no narrowing criteria are set.
func (f EventFilter) IsZero() bool {
	return f.Name == "" && f.City == "" && f.Type == "" && f.IsPromotion == "" &&
		f.StartDate == "" && f.EndDate == "" && f.MinPrice == "" && f.MaxPrice == ""
}

// WithPage returns a copy of the filter pointing at page.
func (f EventFilter) WithPage(page int) EventFilter {
	f.Page = page
	return f
}
