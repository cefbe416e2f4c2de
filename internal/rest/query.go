package rest

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-date format accepted in query strings.
const DateLayout = "2006-01-02"

// The Parse helpers decode loosely typed query-string values. Anything
// missing or malformed comes back as the zero value or nil.

func ParseString(q url.Values, key string) string {
	return strings.TrimSpace(q.Get(key))
}

func ParseInt(q url.Values, key string) *int {
	v, err := strconv.Atoi(strings.TrimSpace(q.Get(key)))
	if err != nil {
		return nil
	}
	return &v
}

func ParseFloat(q url.Values, key string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(q.Get(key)), 64)
	if err != nil {
		return nil
	}
	return &v
}

// ParseStringSlice accepts repeated keys and comma-separated values.
func ParseStringSlice(q url.Values, key string) []string {
	var out []string
	for _, raw := range q[key] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func ParseDate(q url.Values, key string) time.Time {
	t, err := time.Parse(DateLayout, strings.TrimSpace(q.Get(key)))
	if err != nil {
		return time.Time{}
	}
	return t
}
