// Package aggregate derives chart and KPI inputs from transaction
// snapshots: per-merchant settlement sums, time-bucketed trends and the
// scalar figures on the dashboard cards. Everything here is a pure
// function of its inputs; snapshots are never mutated.
package aggregate

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"paydash/internal/core"
)

// Granularity selects the trend bucket width.
type Granularity string

const (
	ByDay   Granularity = "day"
	ByWeek  Granularity = "week"
	ByMonth Granularity = "month"
)

type (
	// MerchantTotal is one row of a per-merchant settlement summary.
	MerchantTotal struct {
		MchtCode string
		Total    decimal.Decimal
	}

	// TimePoint is one trend bucket. Key formats sort lexicographically in
	// chronological order: day and week use YYYY-MM-DD, month uses YYYY-MM.
	TimePoint struct {
		Key   string
		Total decimal.Decimal
	}

	// StatusCount is one slice of the status distribution.
	StatusCount struct {
		Status string
		Count  int
	}

	// KPI holds the scalar figures shown on dashboard cards.
	KPI struct {
		TotalAmount  decimal.Decimal
		TotalCount   int
		SuccessCount int
		SuccessRate  float64 // percent, 0 when TotalCount is 0
	}

	// Settlement summarizes a per-merchant group-sum result.
	Settlement struct {
		TotalSettled  decimal.Decimal
		MerchantCount int
		Average       decimal.Decimal // rounded to a whole amount, 0 when no merchants
	}

	// Series is the shape the external chart renderer consumes: labels
	// with a parallel series of numeric values.
	Series struct {
		Labels []string  `json:"labels"`
		Values []float64 `json:"values"`
	}
)

// GroupSumByMerchant sums amounts per merchant code over the records
// matching the optional pre-filter (nil matches all), sorted by total
// descending. Ties break on merchant code so output is deterministic.
func GroupSumByMerchant(txs []core.Transaction, match func(core.Transaction) bool) []MerchantTotal {
	sums := make(map[string]decimal.Decimal)
	for _, t := range txs {
		if match != nil && !match(t) {
			continue
		}
		sums[t.MchtCode] = sums[t.MchtCode].Add(t.AmountValue())
	}

	out := make([]MerchantTotal, 0, len(sums))
	for code, total := range sums {
		out = append(out, MerchantTotal{MchtCode: code, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if cmp := out[i].Total.Cmp(out[j].Total); cmp != 0 {
			return cmp > 0
		}
		return out[i].MchtCode < out[j].MchtCode
	})
	return out
}

// Settled is the standard settlement pre-filter: successful payments only.
func Settled(t core.Transaction) bool {
	return t.Status == core.StatusSuccess
}

// TopN returns the first n totals without copying beyond the cut.
func TopN(totals []MerchantTotal, n int) []MerchantTotal {
	if n < 0 {
		n = 0
	}
	if n > len(totals) {
		n = len(totals)
	}
	return totals[:n]
}

// TimeBuckets sums amounts into day, week or month buckets keyed by
// BucketKey, sorted ascending. Buckets with no records are absent, not
// zero-filled.
func TimeBuckets(txs []core.Transaction, g Granularity) []TimePoint {
	sums := make(map[string]decimal.Decimal)
	for _, t := range txs {
		k := BucketKey(t.PaymentAt, g)
		sums[k] = sums[k].Add(t.AmountValue())
	}

	out := make([]TimePoint, 0, len(sums))
	for k, total := range sums {
		out = append(out, TimePoint{Key: k, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// BucketKey formats the bucket containing ts: day -> YYYY-MM-DD, week ->
// the YYYY-MM-DD of the Sunday starting the containing week, month ->
// YYYY-MM. Instants are bucketed in UTC.
func BucketKey(ts time.Time, g Granularity) string {
	ts = ts.UTC()
	switch g {
	case ByWeek:
		return ts.AddDate(0, 0, -int(ts.Weekday())).Format("2006-01-02")
	case ByMonth:
		return ts.Format("2006-01")
	default:
		return ts.Format("2006-01-02")
	}
}

// ComputeKPI derives the dashboard scalars over the given snapshot.
func ComputeKPI(txs []core.Transaction) KPI {
	k := KPI{TotalCount: len(txs)}
	for _, t := range txs {
		k.TotalAmount = k.TotalAmount.Add(t.AmountValue())
		if t.Status == core.StatusSuccess {
			k.SuccessCount++
		}
	}
	if k.TotalCount > 0 {
		k.SuccessRate = float64(k.SuccessCount) / float64(k.TotalCount) * 100
	}
	return k
}

// Summarize reduces a group-sum result to its settlement scalars. The
// average is rounded to a whole amount, matching the dashboard card.
func Summarize(totals []MerchantTotal) Settlement {
	s := Settlement{MerchantCount: len(totals)}
	for _, t := range totals {
		s.TotalSettled = s.TotalSettled.Add(t.Total)
	}
	if s.MerchantCount > 0 {
		s.Average = s.TotalSettled.DivRound(decimal.NewFromInt(int64(s.MerchantCount)), 0)
	}
	return s
}

// StatusCounts tallies records per status code, sorted by count
// descending then status ascending.
func StatusCounts(txs []core.Transaction) []StatusCount {
	counts := make(map[string]int)
	for _, t := range txs {
		counts[t.Status]++
	}

	out := make([]StatusCount, 0, len(counts))
	for status, n := range counts {
		out = append(out, StatusCount{Status: status, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Status < out[j].Status
	})
	return out
}

// TrendSeries converts trend buckets to the renderer series shape.
func TrendSeries(points []TimePoint) Series {
	s := Series{Labels: make([]string, 0, len(points)), Values: make([]float64, 0, len(points))}
	for _, p := range points {
		s.Labels = append(s.Labels, p.Key)
		s.Values = append(s.Values, p.Total.InexactFloat64())
	}
	return s
}

// MerchantSeries converts per-merchant totals to the renderer series
// shape, with an optional label resolver for merchant codes.
func MerchantSeries(totals []MerchantTotal, label func(code string) string) Series {
	s := Series{Labels: make([]string, 0, len(totals)), Values: make([]float64, 0, len(totals))}
	for _, t := range totals {
		name := t.MchtCode
		if label != nil {
			name = label(t.MchtCode)
		}
		s.Labels = append(s.Labels, name)
		s.Values = append(s.Values, t.Total.InexactFloat64())
	}
	return s
}
