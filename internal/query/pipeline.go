// Package query implements the in-memory collection pipeline behind every
// list view: AND-filter, sort, then slice one 1-based page. All functions
// are pure; input slices are never mutated.
package query

import (
	"sort"
	"strings"
	"time"

	"paydash/internal/core"
)

// Direction selects a sort order.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// DefaultPageSize matches the operator UI default.
const DefaultPageSize = 10

// Result is one visible page plus the counts pagination controls need.
type Result[T any] struct {
	Items      []T
	TotalItems int
	TotalPages int
	Page       int
	Size       int
}

// Filter returns the records matching every non-nil predicate. A nil
// predicate stands for an absent filter and excludes nothing.
func Filter[T any](records []T, preds ...func(T) bool) []T {
	out := make([]T, 0, len(records))
next:
	for _, r := range records {
		for _, p := range preds {
			if p != nil && !p(r) {
				continue next
			}
		}
		out = append(out, r)
	}
	return out
}

// SortBy returns a sorted copy of records. The sort is stable, so ties
// keep the order produced by the filter step.
func SortBy[T any](records []T, less func(a, b T) bool) []T {
	out := make([]T, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// Paginate slices the 1-based page out of records.
//
// TotalPages is ceil(len/size); zero records yield zero pages. A page
// past the end returns an empty slice, never an error. A non-positive
// size falls back to DefaultPageSize so the division is always defined.
func Paginate[T any](records []T, page, size int) Result[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}

	total := len(records)
	totalPages := (total + size - 1) / size

	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	return Result[T]{
		Items:      records[start:end],
		TotalItems: total,
		TotalPages: totalPages,
		Page:       page,
		Size:       size,
	}
}

// Run applies the full pipeline in its fixed order: filter, sort, page.
// A nil less skips the sort step.
func Run[T any](records []T, less func(a, b T) bool, page, size int, preds ...func(T) bool) Result[T] {
	filtered := Filter(records, preds...)
	if less != nil {
		filtered = SortBy(filtered, less)
	}
	return Paginate(filtered, page, size)
}

// TransactionFilter holds the transaction list predicates. Zero values
// mean "match all".
type TransactionFilter struct {
	Status    string
	PayType   string
	StartDate time.Time
	EndDate   time.Time
}

// Match reports whether t satisfies every active predicate.
//
// The date range is inclusive on both ends and only engages once BOTH
// bounds are set; a lone start or end date matches everything. That is
// the documented contract of the operator UI and is kept for parity.
func (f TransactionFilter) Match(t core.Transaction) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.PayType != "" && t.PayType != f.PayType {
		return false
	}
	if !f.StartDate.IsZero() && !f.EndDate.IsZero() {
		if t.PaymentAt.Before(f.StartDate) || t.PaymentAt.After(f.EndDate) {
			return false
		}
	}
	return true
}

// MerchantFilter holds the merchant list predicates. Zero values mean
// "match all". Search is a case-insensitive substring matched against
// the merchant name or code.
type MerchantFilter struct {
	Search  string
	BizType string
	Status  string
}

func (f MerchantFilter) Match(m core.Merchant) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(m.MchtName), q) &&
			!strings.Contains(strings.ToLower(m.MchtCode), q) {
			return false
		}
	}
	if f.BizType != "" && m.BizType != f.BizType {
		return false
	}
	if f.Status != "" && m.Status != f.Status {
		return false
	}
	return true
}

// ByAmount orders transactions numerically by amount in the given
// direction, using the shared malformed-amount policy.
func ByAmount(dir Direction) func(a, b core.Transaction) bool {
	return func(a, b core.Transaction) bool {
		cmp := a.AmountValue().Cmp(b.AmountValue())
		if dir == Desc {
			return cmp > 0
		}
		return cmp < 0
	}
}

// ByPaymentAtDesc orders transactions newest first.
func ByPaymentAtDesc(a, b core.Transaction) bool {
	return a.PaymentAt.After(b.PaymentAt)
}
