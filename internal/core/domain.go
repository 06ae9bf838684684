package core

import (
	"errors"
	"strings"
	"time"
)

// Well-known status codes. The sets are extensible server-side; anything
// the gateway returns beyond these is carried through and displayed via
// the reference-code lookup (or as the raw code).
const (
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
	StatusPending = "PENDING"

	MchtStatusActive   = "ACTIVE"
	MchtStatusInactive = "INACTIVE"
)

type (
	// Transaction is one payment record as returned by the gateway API.
	// Records are immutable once fetched. Amount stays a decimal string
	// and is parsed on demand; see AmountValue.
	Transaction struct {
		PaymentCode string    `json:"paymentCode"`
		MchtCode    string    `json:"mchtCode"`
		Amount      string    `json:"amount"`
		PayType     string    `json:"payType"`
		Status      string    `json:"status"`
		PaymentAt   time.Time `json:"paymentAt"`
	}

	// Merchant is the summary record shown in list views. The MchtCode on a
	// transaction need not resolve to a known merchant; unresolved codes are
	// displayed as-is.
	Merchant struct {
		MchtCode string `json:"mchtCode"`
		MchtName string `json:"mchtName"`
		BizType  string `json:"bizType"`
		Status   string `json:"status"`
	}

	// MerchantDetails extends Merchant with registration data.
	MerchantDetails struct {
		Merchant
		BizNo        string    `json:"bizNo"`
		Address      string    `json:"address"`
		Phone        string    `json:"phone"`
		Email        string    `json:"email"`
		RegisteredAt time.Time `json:"registeredAt"`
		UpdatedAt    time.Time `json:"updatedAt"`
	}

	// CodeItem is one entry from the common-code endpoints. The payment-type
	// endpoint keys its entries by "type" instead of "code"; Key handles both.
	CodeItem struct {
		Code        string `json:"code"`
		Type        string `json:"type"`
		Description string `json:"description"`
	}
)

var (
	ErrEmptyPaymentCode  = errors.New("empty payment code")
	ErrEmptyMerchantCode = errors.New("empty merchant code")
	ErrEmptyMerchantName = errors.New("empty merchant name")
)

// Key returns the lookup code for the item regardless of which field the
// source endpoint populated.
func (c CodeItem) Key() string {
	if c.Code != "" {
		return c.Code
	}
	return c.Type
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.PaymentCode) == "" {
		return ErrEmptyPaymentCode
	}
	if strings.TrimSpace(t.MchtCode) == "" {
		return ErrEmptyMerchantCode
	}
	return nil
}

func (m Merchant) Validate() error {
	if strings.TrimSpace(m.MchtCode) == "" {
		return ErrEmptyMerchantCode
	}
	if strings.TrimSpace(m.MchtName) == "" {
		return ErrEmptyMerchantName
	}
	return nil
}
