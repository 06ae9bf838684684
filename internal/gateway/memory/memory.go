// Package memory is an in-process gateway source seeded from local JSON
// files, used for development and tests.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"paydash/internal/core"
	"paydash/internal/gateway"
)

type Store struct {
	mu        sync.Mutex
	payments  []core.Transaction
	merchants []core.Merchant
	details   map[string]core.MerchantDetails
	codes     map[gateway.CodeKind][]core.CodeItem
}

func New(payments []core.Transaction, merchants []core.Merchant, details []core.MerchantDetails, codes map[gateway.CodeKind][]core.CodeItem) *Store {
	s := &Store{
		details: make(map[string]core.MerchantDetails),
		codes:   make(map[gateway.CodeKind][]core.CodeItem),
	}
	for _, p := range payments {
		if p.Validate() == nil {
			s.payments = append(s.payments, p)
		}
	}
	for _, m := range merchants {
		if m.Validate() == nil {
			s.merchants = append(s.merchants, m)
		}
	}
	for _, d := range details {
		if d.Validate() == nil {
			s.details[d.MchtCode] = d
		}
	}
	for kind, items := range codes {
		s.codes[kind] = items
	}
	return s
}

// NewFromFiles seeds the store from payments.json, merchants.json,
// merchant_details.json and codes.json under base. Missing or invalid
// files leave that collection on the built-in demo seed.
func NewFromFiles(base string) *Store {
	var (
		payments  []core.Transaction
		merchants []core.Merchant
		details   []core.MerchantDetails
		codes     map[gateway.CodeKind][]core.CodeItem
	)
	readJSON(filepath.Join(base, "payments.json"), &payments)
	readJSON(filepath.Join(base, "merchants.json"), &merchants)
	readJSON(filepath.Join(base, "merchant_details.json"), &details)
	readJSON(filepath.Join(base, "codes.json"), &codes)

	if len(payments) == 0 {
		payments = demoPayments()
	}
	if len(merchants) == 0 {
		merchants = demoMerchants()
	}
	if len(details) == 0 {
		details = demoDetails(merchants)
	}
	if len(codes) == 0 {
		codes = demoCodes()
	}
	return New(payments, merchants, details, codes)
}

func (s *Store) ListPayments(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.payments...), nil
}

func (s *Store) ListMerchants(_ context.Context) ([]core.Merchant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Merchant(nil), s.merchants...), nil
}

func (s *Store) GetMerchant(_ context.Context, mchtCode string) (core.MerchantDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.details[mchtCode]
	if !ok {
		return core.MerchantDetails{}, fmt.Errorf("merchant %s: %w", mchtCode, gateway.ErrNotFound)
	}
	return d, nil
}

func (s *Store) ListCodes(_ context.Context, kind gateway.CodeKind) ([]core.CodeItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.CodeItem(nil), s.codes[kind]...), nil
}

func readJSON(path string, out any) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	_ = json.Unmarshal(data, out)
}

func demoPayments() []core.Transaction {
	at := func(s string) time.Time {
		t, _ := time.Parse(time.RFC3339, s)
		return t
	}
	return []core.Transaction{
		{PaymentCode: "PAY-0001", MchtCode: "MCHT-001", Amount: "15000", PayType: "CARD", Status: core.StatusSuccess, PaymentAt: at("2025-01-05T10:12:00Z")},
		{PaymentCode: "PAY-0002", MchtCode: "MCHT-001", Amount: "4200", PayType: "TRANSFER", Status: core.StatusFailed, PaymentAt: at("2025-01-06T09:30:00Z")},
		{PaymentCode: "PAY-0003", MchtCode: "MCHT-002", Amount: "98000", PayType: "CARD", Status: core.StatusSuccess, PaymentAt: at("2025-01-12T18:45:00Z")},
		{PaymentCode: "PAY-0004", MchtCode: "MCHT-003", Amount: "2500", PayType: "MOBILE", Status: core.StatusPending, PaymentAt: at("2025-02-01T08:05:00Z")},
		{PaymentCode: "PAY-0005", MchtCode: "MCHT-002", Amount: "37000", PayType: "CARD", Status: core.StatusSuccess, PaymentAt: at("2025-02-03T14:20:00Z")},
	}
}

func demoMerchants() []core.Merchant {
	return []core.Merchant{
		{MchtCode: "MCHT-001", MchtName: "Brunch Coffee", BizType: "FOOD", Status: core.MchtStatusActive},
		{MchtCode: "MCHT-002", MchtName: "All Pays Market", BizType: "RETAIL", Status: core.MchtStatusActive},
		{MchtCode: "MCHT-003", MchtName: "Night Bookstore", BizType: "RETAIL", Status: core.MchtStatusInactive},
	}
}

func demoDetails(merchants []core.Merchant) []core.MerchantDetails {
	out := make([]core.MerchantDetails, 0, len(merchants))
	for i, m := range merchants {
		out = append(out, core.MerchantDetails{
			Merchant:     m,
			BizNo:        fmt.Sprintf("123-45-%05d", 67890+i),
			Address:      "12 Demo Street",
			Phone:        "02-0000-0000",
			Email:        "ops@example.com",
			RegisteredAt: time.Date(2024, 6, 1+i, 0, 0, 0, 0, time.UTC),
			UpdatedAt:    time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		})
	}
	return out
}

func demoCodes() map[gateway.CodeKind][]core.CodeItem {
	return map[gateway.CodeKind][]core.CodeItem{
		gateway.PaymentStatusCodes: {
			{Code: core.StatusSuccess, Description: "Success"},
			{Code: core.StatusFailed, Description: "Failed"},
			{Code: core.StatusPending, Description: "Pending"},
		},
		gateway.PaymentTypeCodes: {
			{Type: "CARD", Description: "Card"},
			{Type: "TRANSFER", Description: "Bank transfer"},
			{Type: "MOBILE", Description: "Mobile"},
		},
		gateway.MchtStatusCodes: {
			{Code: core.MchtStatusActive, Description: "Active"},
			{Code: core.MchtStatusInactive, Description: "Inactive"},
		},
	}
}
