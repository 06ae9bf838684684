package http

import (
	"net/http"

	"paydash/internal/aggregate"
)

type settlementListView struct {
	Rows    []settlementRowView   `json:"rows"`
	Summary settlementSummaryView `json:"summary"`
}

// handleSettlements serves the per-merchant settlement table: amounts
// accumulated over successful payments only, largest first, with the
// summary scalars above it.
func (s *Server) handleSettlements(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	ctx := r.Context()
	s.codes.EnsureLoaded(ctx, false)

	settled := aggregate.GroupSumByMerchant(s.payments(ctx), aggregate.Settled)

	rows := make([]settlementRowView, 0, len(settled))
	for _, t := range settled {
		rows = append(rows, settlementRowView{
			MchtCode:    t.MchtCode,
			TotalAmount: t.Total.String(),
			AmountLabel: formatAmount(t.Total),
		})
	}

	writeJSON(w, http.StatusOK, settlementListView{
		Rows:    rows,
		Summary: settlementSummaryOf(aggregate.Summarize(settled)),
	})
}
