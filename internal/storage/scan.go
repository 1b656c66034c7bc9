package storage

import (
	"fmt"
	"strings"
	"time"

	"backoffice/internal/core"
)

// Date and timestamp columns come back as time.Time from Postgres and as
// text from SQLite. Both are read through these helpers.

func dateFromDB(v any) (core.Date, error) {
	switch t := v.(type) {
	case time.Time:
		return core.DateOf(t), nil
	case string:
		return core.ParseDate(t)
	case []byte:
		return core.ParseDate(string(t))
	case nil:
		return core.Date{}, nil
	}
	return core.Date{}, fmt.Errorf("%w: unexpected %T", core.ErrInvalidDate, v)
}

func timeFromDB(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case string:
		return parseTimestamp(t)
	case []byte:
		return parseTimestamp(string(t))
	case nil:
		return time.Time{}, nil
	}
	return time.Time{}, fmt.Errorf("unexpected timestamp type %T", v)
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

func dateArg(d core.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.String()
}

func timeArg(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// stamps holds the raw created_at/updated_at values of a scanned row.
type stamps struct {
	created any
	updated any
}

func (s stamps) decode() (time.Time, time.Time, error) {
	c, err := timeFromDB(s.created)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	u, err := timeFromDB(s.updated)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return c, u, nil
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// Page bounds a list query.
type Page struct {
	Limit  int
	Offset int
}

func (p Page) clause() string {
	if p.Limit <= 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", p.Limit, p.Offset)
}
