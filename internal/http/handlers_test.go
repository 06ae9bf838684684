package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paydash/internal/core"
	"paydash/internal/gateway"
	"paydash/internal/gateway/memory"
	"paydash/internal/refcodes"
)

// newTestServer wires the full stack against the built-in demo seed:
// five payments across three merchants, 156700 in total, three of them
// successful.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	src := memory.NewFromFiles(t.TempDir())
	codes := refcodes.New(src, time.Minute, nil)
	s := NewServer(":0", src, codes, nil, time.Minute)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})
	return s
}

func get(t *testing.T, s *Server, target string, out any) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	if out != nil && rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = get(t, s, "/readyz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", rec.Body.String())
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/transactions", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
}

func TestSecurityHeaders(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/api/dashboard", nil)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestDashboard(t *testing.T) {
	s := newTestServer(t)

	var view dashboardView
	rec := get(t, s, "/api/dashboard", &view)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "156700", view.KPI.TotalAmount)
	assert.Equal(t, 5, view.KPI.TotalCount)
	assert.Equal(t, 3, view.KPI.SuccessCount)
	assert.InDelta(t, 60.0, view.KPI.SuccessRate, 1e-9)

	assert.Equal(t, "150000", view.Settlement.TotalSettled)
	assert.Equal(t, 2, view.Settlement.MerchantCount)
	assert.Equal(t, "75000", view.Settlement.Average)

	// Top merchants by settled amount, largest first.
	require.NotEmpty(t, view.TopMerchants.Labels)
	assert.Equal(t, "MCHT-002", view.TopMerchants.Labels[0])
	assert.Equal(t, 135000.0, view.TopMerchants.Values[0])

	// Most recent first.
	require.NotEmpty(t, view.Recent)
	assert.Equal(t, "PAY-0005", view.Recent[0].PaymentCode)
	assert.LessOrEqual(t, len(view.Recent), 5)

	assert.Equal(t, "day", view.TrendRange)
	assert.NotEmpty(t, view.Trend.Labels)
}

func TestDashboardMonthlyTrend(t *testing.T) {
	s := newTestServer(t)

	var view dashboardView
	get(t, s, "/api/dashboard?range=month", &view)

	assert.Equal(t, "month", view.TrendRange)
	require.Equal(t, []string{"2025-01", "2025-02"}, view.Trend.Labels)
	assert.Equal(t, []float64{117200, 39500}, view.Trend.Values)
}

func TestTransactionsDefaultSort(t *testing.T) {
	s := newTestServer(t)

	var view transactionListView
	rec := get(t, s, "/api/transactions", &view)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, view.Items, 5)
	assert.Equal(t, "PAY-0003", view.Items[0].PaymentCode) // 98000, largest
	assert.Equal(t, "desc", view.Sort)
	assert.Equal(t, 1, view.Page)
	assert.Equal(t, 5, view.TotalItems)
	assert.Equal(t, 1, view.TotalPages)

	// Labels resolved through the reference codes.
	assert.Equal(t, "Success", view.Items[0].StatusLabel)
	assert.Equal(t, "Card", view.Items[0].PayTypeLabel)
	assert.Equal(t, "₩ 98,000", view.Items[0].AmountLabel)
}

func TestTransactionsFilters(t *testing.T) {
	s := newTestServer(t)

	var view transactionListView
	get(t, s, "/api/transactions?status=SUCCESS", &view)
	assert.Equal(t, 3, view.TotalItems)

	get(t, s, "/api/transactions?status=FAILED&type=TRANSFER", &view)
	require.Equal(t, 1, view.TotalItems)
	assert.Equal(t, "PAY-0002", view.Items[0].PaymentCode)

	get(t, s, "/api/transactions?status=FAILED&type=CARD", &view)
	assert.Zero(t, view.TotalItems)
}

func TestTransactionsDateRange(t *testing.T) {
	s := newTestServer(t)

	// End date is inclusive: PAY-0002 lands on the end day itself.
	var view transactionListView
	get(t, s, "/api/transactions?startDate=2025-01-05&endDate=2025-01-06", &view)
	assert.Equal(t, 2, view.TotalItems)

	// A lone bound does not filter.
	get(t, s, "/api/transactions?startDate=2025-01-05", &view)
	assert.Equal(t, 5, view.TotalItems)

	get(t, s, "/api/transactions?endDate=2025-01-06", &view)
	assert.Equal(t, 5, view.TotalItems)
}

func TestTransactionsPagination(t *testing.T) {
	s := newTestServer(t)

	var view transactionListView
	get(t, s, "/api/transactions?size=2&page=2&sort=asc", &view)

	assert.Equal(t, 2, view.Page)
	assert.Equal(t, 2, view.Size)
	assert.Equal(t, 5, view.TotalItems)
	assert.Equal(t, 3, view.TotalPages)
	require.Len(t, view.Items, 2)
	// Ascending amounts: 2500, 4200 | 15000, 37000 | 98000.
	assert.Equal(t, "PAY-0001", view.Items[0].PaymentCode)
	assert.Equal(t, "PAY-0005", view.Items[1].PaymentCode)

	get(t, s, "/api/transactions?size=2&page=9", &view)
	assert.Empty(t, view.Items)
	assert.Equal(t, 3, view.TotalPages)
}

func TestMerchantsList(t *testing.T) {
	s := newTestServer(t)

	var view merchantListView
	rec := get(t, s, "/api/merchants", &view)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 3, view.TotalItems)
	assert.Equal(t, []string{"FOOD", "RETAIL"}, view.BizTypeOptions)
	require.NotEmpty(t, view.Items)
	assert.Equal(t, "Active", view.Items[0].StatusLabel)
}

func TestMerchantsSearchAndFilters(t *testing.T) {
	s := newTestServer(t)

	var view merchantListView
	get(t, s, "/api/merchants?name=brunch", &view)
	require.Equal(t, 1, view.TotalItems)
	assert.Equal(t, "MCHT-001", view.Items[0].MchtCode)

	// Search matches codes too.
	get(t, s, "/api/merchants?name=mcht-00", &view)
	assert.Equal(t, 3, view.TotalItems)

	get(t, s, "/api/merchants?bizType=RETAIL&status=INACTIVE", &view)
	require.Equal(t, 1, view.TotalItems)
	assert.Equal(t, "MCHT-003", view.Items[0].MchtCode)
}

func TestMerchantDetails(t *testing.T) {
	s := newTestServer(t)

	var view merchantDetailsView
	rec := get(t, s, "/api/merchants/MCHT-001", &view)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "Brunch Coffee", view.MchtName)
	assert.NotEmpty(t, view.BizNo)

	// KPIs over this merchant's transactions only: 15000 + 4200.
	assert.Equal(t, "19200", view.KPI.TotalAmount)
	assert.Equal(t, 2, view.KPI.TotalCount)
	assert.InDelta(t, 50.0, view.KPI.SuccessRate, 1e-9)

	require.Len(t, view.StatusBreakdown.Labels, 2)
	assert.Equal(t, []float64{1, 1}, view.StatusBreakdown.Values)
}

func TestMerchantDetailsNotFound(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/api/merchants/MCHT-404", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(t, s, "/api/merchants/a/b", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSettlements(t *testing.T) {
	s := newTestServer(t)

	var view settlementListView
	rec := get(t, s, "/api/settlements", &view)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, view.Rows, 2)
	assert.Equal(t, "MCHT-002", view.Rows[0].MchtCode)
	assert.Equal(t, "135000", view.Rows[0].TotalAmount)
	assert.Equal(t, "₩ 135,000", view.Rows[0].AmountLabel)
	assert.Equal(t, "MCHT-001", view.Rows[1].MchtCode)

	assert.Equal(t, "150000", view.Summary.TotalSettled)
	assert.Equal(t, "75000", view.Summary.Average)
}

// failingSource errors on every fetch so list views must degrade to
// empty rather than 5xx.
type failingSource struct{}

func (failingSource) ListPayments(context.Context) ([]core.Transaction, error) {
	return nil, &gateway.Error{Op: "/payments/list", Status: 500, Err: context.DeadlineExceeded}
}
func (failingSource) ListMerchants(context.Context) ([]core.Merchant, error) {
	return nil, &gateway.Error{Op: "/merchants/list", Status: 500, Err: context.DeadlineExceeded}
}
func (failingSource) GetMerchant(context.Context, string) (core.MerchantDetails, error) {
	return core.MerchantDetails{}, &gateway.Error{Op: "/merchants/details", Status: 500, Err: context.DeadlineExceeded}
}
func (failingSource) ListCodes(context.Context, gateway.CodeKind) ([]core.CodeItem, error) {
	return nil, &gateway.Error{Op: "/common", Status: 500, Err: context.DeadlineExceeded}
}

func TestViewsDegradeWhenGatewayIsDown(t *testing.T) {
	codes := refcodes.New(failingSource{}, time.Minute, nil)
	s := NewServer(":0", failingSource{}, codes, nil, time.Minute)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})

	var txView transactionListView
	rec := get(t, s, "/api/transactions", &txView)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, txView.Items)
	assert.Zero(t, txView.TotalItems)
	assert.Zero(t, txView.TotalPages)

	var dash dashboardView
	rec = get(t, s, "/api/dashboard", &dash)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", dash.KPI.TotalAmount)
	assert.Zero(t, dash.KPI.SuccessRate)
	assert.Empty(t, dash.Recent)

	// Detail lookups are the exception: they surface the failure.
	rec = get(t, s, "/api/merchants/MCHT-001", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestSnapshotCacheReusesFetch(t *testing.T) {
	src := memory.NewFromFiles(t.TempDir())
	counted := &countingSource{Source: src}
	codes := refcodes.New(counted, time.Minute, nil)
	s := NewServer(":0", counted, codes, nil, time.Minute)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})

	get(t, s, "/api/transactions", nil)
	get(t, s, "/api/transactions", nil)
	get(t, s, "/api/dashboard", nil)

	assert.Equal(t, 1, counted.payments)
}

type countingSource struct {
	gateway.Source
	payments int
}

func (c *countingSource) ListPayments(ctx context.Context) ([]core.Transaction, error) {
	c.payments++
	return c.Source.ListPayments(ctx)
}
