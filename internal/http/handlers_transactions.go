package http

import (
	"net/http"

	"paydash/internal/gateway"
	"paydash/internal/query"
)

type transactionListView struct {
	Items         []transactionView `json:"items"`
	Page          int               `json:"page"`
	Size          int               `json:"size"`
	TotalItems    int               `json:"totalItems"`
	TotalPages    int               `json:"totalPages"`
	Sort          string            `json:"sort"`
	StatusOptions map[string]string `json:"statusOptions"`
	TypeOptions   map[string]string `json:"typeOptions"`
}

// handleTransactions serves the transaction list view: status, type and
// date-range filters, amount sort and 1-based pagination. The UI driving
// this endpoint must reset page to 1 whenever a filter or the page size
// changes.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	ctx := r.Context()
	s.codes.EnsureLoaded(ctx, false)

	q := r.URL.Query()
	filter := query.TransactionFilter{
		Status:    q.Get("status"),
		PayType:   q.Get("type"),
		StartDate: parseDateStart(q.Get("startDate")),
		EndDate:   parseDateEnd(q.Get("endDate")),
	}
	params := parseListParams(q)

	res := query.Run(s.payments(ctx), query.ByAmount(params.Sort), params.Page, params.Size, filter.Match)

	items := make([]transactionView, 0, len(res.Items))
	for _, t := range res.Items {
		items = append(items, s.transactionView(t))
	}

	writeJSON(w, http.StatusOK, transactionListView{
		Items:         items,
		Page:          res.Page,
		Size:          res.Size,
		TotalItems:    res.TotalItems,
		TotalPages:    res.TotalPages,
		Sort:          string(params.Sort),
		StatusOptions: s.codes.Labels(gateway.PaymentStatusCodes),
		TypeOptions:   s.codes.Labels(gateway.PaymentTypeCodes),
	})
}
