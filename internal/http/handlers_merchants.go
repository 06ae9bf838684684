package http

import (
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"paydash/internal/aggregate"
	"paydash/internal/core"
	"paydash/internal/gateway"
	"paydash/internal/query"
)

type merchantListView struct {
	Items          []merchantView    `json:"items"`
	Page           int               `json:"page"`
	Size           int               `json:"size"`
	TotalItems     int               `json:"totalItems"`
	TotalPages     int               `json:"totalPages"`
	BizTypeOptions []string          `json:"bizTypeOptions"`
	StatusOptions  map[string]string `json:"statusOptions"`
}

// handleMerchants serves the merchant list view: name-or-code search,
// business type and status filters, pagination, plus the distinct
// business-type options derived from the full collection.
func (s *Server) handleMerchants(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	ctx := r.Context()
	s.codes.EnsureLoaded(ctx, false)

	q := r.URL.Query()
	filter := query.MerchantFilter{
		Search:  q.Get("name"),
		BizType: q.Get("bizType"),
		Status:  q.Get("status"),
	}
	params := parseListParams(q)

	merchants := s.merchants(ctx)
	res := query.Run(merchants, nil, params.Page, params.Size, filter.Match)

	items := make([]merchantView, 0, len(res.Items))
	for _, m := range res.Items {
		items = append(items, s.merchantView(m))
	}

	writeJSON(w, http.StatusOK, merchantListView{
		Items:          items,
		Page:           res.Page,
		Size:           res.Size,
		TotalItems:     res.TotalItems,
		TotalPages:     res.TotalPages,
		BizTypeOptions: bizTypeOptions(merchants),
		StatusOptions:  s.codes.Labels(gateway.MchtStatusCodes),
	})
}

func bizTypeOptions(merchants []core.Merchant) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, m := range merchants {
		if _, ok := seen[m.BizType]; ok || m.BizType == "" {
			continue
		}
		seen[m.BizType] = struct{}{}
		out = append(out, m.BizType)
	}
	sort.Strings(out)
	return out
}

type merchantDetailsView struct {
	merchantView
	BizNo        string    `json:"bizNo"`
	Address      string    `json:"address"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registeredAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	KPI             kpiView          `json:"kpi"`
	StatusBreakdown aggregate.Series `json:"statusBreakdown"`
	TrendRange      string           `json:"trendRange"`
	Trend           aggregate.Series `json:"trend"`
}

// handleMerchantDetails serves one merchant's profile together with the
// KPIs, status distribution and trend derived from that merchant's
// transactions.
func (s *Server) handleMerchantDetails(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	code := strings.TrimPrefix(r.URL.Path, "/api/merchants/")
	if code == "" || strings.Contains(code, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	ctx := r.Context()
	s.codes.EnsureLoaded(ctx, false)

	details, err := s.merchantDetails(ctx, code)
	if err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			writeError(w, http.StatusNotFound, "merchant not found")
			return
		}
		s.logger.ErrorContext(ctx, "merchant details fetch failed", "error", err, "mcht_code", code)
		writeError(w, http.StatusBadGateway, "gateway unavailable")
		return
	}

	own := query.Filter(s.payments(ctx), func(t core.Transaction) bool {
		return t.MchtCode == code
	})
	rng := parseGranularity(r.URL.Query().Get("range"))

	counts := aggregate.StatusCounts(own)
	breakdown := aggregate.Series{
		Labels: make([]string, 0, len(counts)),
		Values: make([]float64, 0, len(counts)),
	}
	for _, c := range counts {
		breakdown.Labels = append(breakdown.Labels, s.codes.Label(gateway.PaymentStatusCodes, c.Status))
		breakdown.Values = append(breakdown.Values, float64(c.Count))
	}

	writeJSON(w, http.StatusOK, merchantDetailsView{
		merchantView:    s.merchantView(details.Merchant),
		BizNo:           details.BizNo,
		Address:         details.Address,
		Phone:           details.Phone,
		Email:           details.Email,
		RegisteredAt:    details.RegisteredAt,
		UpdatedAt:       details.UpdatedAt,
		KPI:             kpiViewOf(aggregate.ComputeKPI(own)),
		StatusBreakdown: breakdown,
		TrendRange:      string(rng),
		Trend:           aggregate.TrendSeries(aggregate.TimeBuckets(own, rng)),
	})
}
