package http

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"paydash/internal/query"
)

// listParams holds pagination and sorting parsed off a list request.
type listParams struct {
	Page int
	Size int
	Sort query.Direction
}

// parseListParams reads page, size and sort with UI defaults. Invalid
// values fall back rather than erroring.
func parseListParams(q url.Values) listParams {
	p := listParams{Page: 1, Size: query.DefaultPageSize, Sort: query.Desc}

	if v := strings.TrimSpace(q.Get("page")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			p.Page = n
		}
	}
	if v := strings.TrimSpace(q.Get("size")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			p.Size = n
		}
	}
	if strings.TrimSpace(q.Get("sort")) == string(query.Asc) {
		p.Sort = query.Asc
	}
	return p
}

// parseDateStart parses a YYYY-MM-DD filter bound. Invalid or empty
// input yields the zero time, which the filter treats as unset.
func parseDateStart(s string) time.Time {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}

// parseDateEnd parses the end bound and pushes it to the last instant
// of that day, so the named end date is itself included in the range.
func parseDateEnd(s string) time.Time {
	t := parseDateStart(s)
	if t.IsZero() {
		return t
	}
	return t.Add(24*time.Hour - time.Nanosecond)
}

// formatAmount renders an amount for table cells, e.g. "₩ 1,000".
// Fractional digits are truncated, matching the operator UI.
func formatAmount(d decimal.Decimal) string {
	return "₩ " + groupThousands(d.Truncate(0).String())
}

func groupThousands(digits string) string {
	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
