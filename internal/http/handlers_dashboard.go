package http

import (
	"net/http"

	"paydash/internal/aggregate"
	"paydash/internal/query"
)

type dashboardView struct {
	KPI          kpiView               `json:"kpi"`
	TrendRange   string                `json:"trendRange"`
	Trend        aggregate.Series      `json:"trend"`
	Settlement   settlementSummaryView `json:"settlement"`
	TopMerchants aggregate.Series      `json:"topMerchants"`
	Recent       []transactionView     `json:"recent"`
}

// handleDashboard returns the landing view: KPI cards, the trend chart
// for the requested bucket range, the settlement summary with its top-5
// chart, and the five most recent transactions.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	ctx := r.Context()
	s.codes.EnsureLoaded(ctx, false)

	txs := s.payments(ctx)
	rng := parseGranularity(r.URL.Query().Get("range"))
	settled := aggregate.GroupSumByMerchant(txs, aggregate.Settled)

	recent := query.SortBy(txs, query.ByPaymentAtDesc)
	if len(recent) > 5 {
		recent = recent[:5]
	}
	recentViews := make([]transactionView, 0, len(recent))
	for _, t := range recent {
		recentViews = append(recentViews, s.transactionView(t))
	}

	writeJSON(w, http.StatusOK, dashboardView{
		KPI:          kpiViewOf(aggregate.ComputeKPI(txs)),
		TrendRange:   string(rng),
		Trend:        aggregate.TrendSeries(aggregate.TimeBuckets(txs, rng)),
		Settlement:   settlementSummaryOf(aggregate.Summarize(settled)),
		TopMerchants: aggregate.MerchantSeries(aggregate.TopN(settled, 5), nil),
		Recent:       recentViews,
	})
}
