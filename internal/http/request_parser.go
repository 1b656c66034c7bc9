// Package http provides the JSON API server and its handlers.
//
// This file implements query-string parsing shared by list and report
// endpoints: year/month defaults, pagination and record filters.

package http

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"backoffice/internal/core"
	"backoffice/internal/storage"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// MonthParams holds parsed year/month values from request parameters.
type MonthParams struct {
	Year  int
	Month int
}

// PageParams is the 1-based page the caller asked for.
type PageParams struct {
	Page     int
	PageSize int
}

// Storage converts to a limit/offset window.
func (p PageParams) Storage() storage.Page {
	return storage.Page{Limit: p.PageSize, Offset: (p.Page - 1) * p.PageSize}
}

// queryInt returns def when key is absent and a field error when it is not a number.
func queryInt(query url.Values, key string, def int) (int, error) {
	v := strings.TrimSpace(query.Get(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, core.FieldError(key, "a valid integer is required")
	}
	return n, nil
}

// ParseYear reads ?year=, defaulting to the year of now.
func ParseYear(query url.Values, now time.Time) (int, error) {
	year, err := queryInt(query, "year", now.Year())
	if err != nil {
		return 0, err
	}
	if err := core.ValidateYear(year); err != nil {
		return 0, core.FieldError("year", err.Error())
	}
	return year, nil
}

// ParseMonthParams reads ?year=&month=, defaulting to the current month.
func ParseMonthParams(query url.Values, now time.Time) (MonthParams, error) {
	year, err := ParseYear(query, now)
	if err != nil {
		return MonthParams{}, err
	}
	month, err := queryInt(query, "month", int(now.Month()))
	if err != nil {
		return MonthParams{}, err
	}
	if err := core.ValidateMonth(month); err != nil {
		return MonthParams{}, core.FieldError("month", err.Error())
	}
	return MonthParams{Year: year, Month: month}, nil
}

// ParsePageParams reads ?page=&page_size=. Sizes above the maximum are capped.
func ParsePageParams(query url.Values, defSize int) (PageParams, error) {
	if defSize < 1 || defSize > maxPageSize {
		defSize = defaultPageSize
	}
	page, err := queryInt(query, "page", 1)
	if err != nil {
		return PageParams{}, err
	}
	if page < 1 {
		return PageParams{}, core.FieldError("page", "ensure this value is greater than or equal to 1")
	}
	size, err := queryInt(query, "page_size", defSize)
	if err != nil {
		return PageParams{}, err
	}
	if size < 1 {
		return PageParams{}, core.FieldError("page_size", "ensure this value is greater than or equal to 1")
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return PageParams{Page: page, PageSize: size}, nil
}

// ParsePeriod reads an optional ?year= or ?year=&month= filter. Neither
// present means no filter.
func ParsePeriod(query url.Values) (*core.Period, error) {
	if strings.TrimSpace(query.Get("year")) == "" {
		if strings.TrimSpace(query.Get("month")) != "" {
			return nil, core.FieldError("year", "year is required when month is given")
		}
		return nil, nil
	}
	year, err := ParseYear(query, time.Time{})
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(query.Get("month")) == "" {
		p := core.YearPeriod(year)
		return &p, nil
	}
	month, err := queryInt(query, "month", 0)
	if err != nil {
		return nil, err
	}
	if err := core.ValidateMonth(month); err != nil {
		return nil, core.FieldError("month", err.Error())
	}
	p := core.MonthPeriod(year, month)
	return &p, nil
}

// ParseProjectFilter reads ?status=&installation_type= and the period filter.
func ParseProjectFilter(query url.Values) (storage.ProjectFilter, error) {
	var f storage.ProjectFilter
	if v := sanitizeInput(query.Get("status")); v != "" {
		f.Status = core.ProjectStatus(v)
		if !f.Status.Valid() {
			return f, core.FieldError("status", "\""+v+"\" is not a valid choice")
		}
	}
	if v := sanitizeInput(query.Get("installation_type")); v != "" {
		f.InstallationType = core.InstallationType(v)
		if !f.InstallationType.Valid() {
			return f, core.FieldError("installation_type", "\""+v+"\" is not a valid choice")
		}
	}
	p, err := ParsePeriod(query)
	if err != nil {
		return f, err
	}
	f.Period = p
	return f, nil
}

// queryBool reads a boolean flag, treating absence as def.
func queryBool(query url.Values, key string, def bool) bool {
	v := strings.TrimSpace(query.Get(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
