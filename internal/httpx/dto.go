package httpx

import (
	"github.com/nikolayk812/grocery-cart/internal/domain"
	"github.com/shopspring/decimal"
)

type AddItemRequest struct {
	ProductID string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Unit      string          `json:"unit"`
	Quantity  *int            `json:"quantity,omitempty"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CheckoutRequest struct {
	ShippingName  string `json:"shipping_name"`
	ShippingPhone string `json:"shipping_phone"`
	ShippingAddr  string `json:"shipping_address"`
	Note          string `json:"note"`
	PaymentMethod string `json:"payment_method"`
}

type LineItemResponse struct {
	ProductID string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Unit      string          `json:"unit"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type MoneyResponse struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

type CartResponse struct {
	Namespace  string             `json:"namespace"`
	Guest      bool               `json:"guest"`
	Items      []LineItemResponse `json:"items"`
	TotalItems int                `json:"total_items"`
	Subtotal   MoneyResponse      `json:"subtotal"`
}

type CountResponse struct {
	TotalItems int `json:"total_items"`
}

type CheckoutResponse struct {
	Order        domain.Order `json:"order"`
	PaymentURL   string       `json:"payment_url,omitempty"`
	PaymentError string       `json:"payment_error,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func mapLineItems(items []domain.LineItem) []LineItemResponse {
	out := make([]LineItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, LineItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Image:     item.Image,
			Unit:      item.Unit,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal(),
		})
	}
	return out
}
