package gateway

import (
	"context"

	"paydash/internal/core"
)

// CodeKind names one of the gateway's common-code endpoints.
type CodeKind string

const (
	PaymentStatusCodes CodeKind = "payment-status"
	PaymentTypeCodes   CodeKind = "payment-type"
	MchtStatusCodes    CodeKind = "mcht-status"
)

// Ports for the gateway data source. The dashboard is read-only; every
// port is a fetch.
type (
	PaymentLister interface {
		ListPayments(ctx context.Context) ([]core.Transaction, error)
	}

	MerchantLister interface {
		ListMerchants(ctx context.Context) ([]core.Merchant, error)
	}

	// MerchantGetter returns the detail variant for one merchant code.
	MerchantGetter interface {
		GetMerchant(ctx context.Context, mchtCode string) (core.MerchantDetails, error)
	}

	// CodeLister returns the code→description entries for one kind.
	CodeLister interface {
		ListCodes(ctx context.Context, kind CodeKind) ([]core.CodeItem, error)
	}

	// Source bundles every port a view can need.
	Source interface {
		PaymentLister
		MerchantLister
		MerchantGetter
		CodeLister
	}
)
