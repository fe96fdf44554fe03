package domain

import (
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCOD   PaymentMethod = "cod"
	PaymentVNPay PaymentMethod = "vnpay"
	PaymentMoMo  PaymentMethod = "momo"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCOD, PaymentVNPay, PaymentMoMo:
		return true
	default:
		return false
	}
}

// RequiresRedirect reports whether the method needs an online payment step.
func (m PaymentMethod) RequiresRedirect() bool {
	return m != PaymentCOD
}

type OrderLine struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type OrderRequest struct {
	IdempotencyKey string        `json:"-"`
	Lines          []OrderLine   `json:"items"`
	ShippingName   string        `json:"shipping_name"`
	ShippingPhone  string        `json:"shipping_phone"`
	ShippingAddr   string        `json:"shipping_address"`
	Note           string        `json:"note,omitempty"`
	PaymentMethod  PaymentMethod `json:"payment_method"`
}

type Order struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Total  decimal.Decimal `json:"total"`
}

type PaymentRedirect struct {
	URL string `json:"payment_url"`
}

func OrderLines(items []LineItem) []OrderLine {
	lines := make([]OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, OrderLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return lines
}
