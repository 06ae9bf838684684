package http

import (
	"time"

	"paydash/internal/aggregate"
	"paydash/internal/core"
	"paydash/internal/gateway"
)

// View models returned to the rendering layer. Table amounts keep the
// exact decimal string alongside a display label; only chart series
// carry floats.
type (
	transactionView struct {
		PaymentCode  string    `json:"paymentCode"`
		MchtCode     string    `json:"mchtCode"`
		Amount       string    `json:"amount"`
		AmountLabel  string    `json:"amountLabel"`
		PayType      string    `json:"payType"`
		PayTypeLabel string    `json:"payTypeLabel"`
		Status       string    `json:"status"`
		StatusLabel  string    `json:"statusLabel"`
		PaymentAt    time.Time `json:"paymentAt"`
	}

	merchantView struct {
		MchtCode    string `json:"mchtCode"`
		MchtName    string `json:"mchtName"`
		BizType     string `json:"bizType"`
		Status      string `json:"status"`
		StatusLabel string `json:"statusLabel"`
	}

	kpiView struct {
		TotalAmount  string  `json:"totalAmount"`
		TotalCount   int     `json:"totalCount"`
		SuccessCount int     `json:"successCount"`
		SuccessRate  float64 `json:"successRate"`
	}

	settlementSummaryView struct {
		TotalSettled  string `json:"totalSettled"`
		MerchantCount int    `json:"merchantCount"`
		Average       string `json:"average"`
	}

	settlementRowView struct {
		MchtCode    string `json:"mchtCode"`
		TotalAmount string `json:"totalAmount"`
		AmountLabel string `json:"amountLabel"`
	}
)

func (s *Server) transactionView(t core.Transaction) transactionView {
	return transactionView{
		PaymentCode:  t.PaymentCode,
		MchtCode:     t.MchtCode,
		Amount:       t.Amount,
		AmountLabel:  formatAmount(t.AmountValue()),
		PayType:      t.PayType,
		PayTypeLabel: s.codes.Label(gateway.PaymentTypeCodes, t.PayType),
		Status:       t.Status,
		StatusLabel:  s.codes.Label(gateway.PaymentStatusCodes, t.Status),
		PaymentAt:    t.PaymentAt,
	}
}

func (s *Server) merchantView(m core.Merchant) merchantView {
	return merchantView{
		MchtCode:    m.MchtCode,
		MchtName:    m.MchtName,
		BizType:     m.BizType,
		Status:      m.Status,
		StatusLabel: s.codes.Label(gateway.MchtStatusCodes, m.Status),
	}
}

func kpiViewOf(k aggregate.KPI) kpiView {
	return kpiView{
		TotalAmount:  k.TotalAmount.String(),
		TotalCount:   k.TotalCount,
		SuccessCount: k.SuccessCount,
		SuccessRate:  k.SuccessRate,
	}
}

func settlementSummaryOf(s aggregate.Settlement) settlementSummaryView {
	return settlementSummaryView{
		TotalSettled:  s.TotalSettled.String(),
		MerchantCount: s.MerchantCount,
		Average:       s.Average.String(),
	}
}

// parseGranularity maps the range query param, defaulting to day.
func parseGranularity(v string) aggregate.Granularity {
	switch v {
	case string(aggregate.ByWeek):
		return aggregate.ByWeek
	case string(aggregate.ByMonth):
		return aggregate.ByMonth
	default:
		return aggregate.ByDay
	}
}
