package domain

import (
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Product struct {
	ProductID string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Unit      string          `json:"unit"`
}

type LineItem struct {
	Product
	Quantity int `json:"quantity"`
}

// MaxQuantity caps the units of one product in a cart.
const MaxQuantity = 999

// Cart is an ordered list of line items scoped to one namespace.
// Product identifiers are unique and every quantity is in [1, MaxQuantity].
type Cart struct {
	Namespace Namespace
	Items     []LineItem
}

// Add increases the quantity of an existing line or appends a new one.
// The resulting quantity saturates at MaxQuantity.
func (c *Cart) Add(p Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	if i := c.index(p.ProductID); i >= 0 {
		// compare before adding, the sum may overflow
		if quantity > MaxQuantity-c.Items[i].Quantity {
			c.Items[i].Quantity = MaxQuantity
			return
		}
		c.Items[i].Quantity += quantity
		return
	}

	c.Items = append(c.Items, LineItem{Product: p, Quantity: min(quantity, MaxQuantity)})
}

// SetQuantity reports whether the cart changed. Quantities outside
// [1, MaxQuantity] are ignored.
func (c *Cart) SetQuantity(productID string, quantity int) bool {
	if !ValidQuantity(quantity) {
		return false
	}

	i := c.index(productID)
	if i < 0 || c.Items[i].Quantity == quantity {
		return false
	}

	c.Items[i].Quantity = quantity
	return true
}

func (c *Cart) Remove(productID string) bool {
	i := c.index(productID)
	if i < 0 {
		return false
	}

	c.Items = slices.Delete(c.Items, i, i+1)
	return true
}

func (c *Cart) Clear() {
	c.Items = nil
}

func (c *Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

func (c *Cart) Subtotal(unit currency.Unit) Money {
	sum := Zero(unit)
	for _, item := range c.Items {
		sum.Amount = sum.Amount.Add(item.LineTotal())
	}
	return sum
}

func (c *Cart) Clone() Cart {
	return Cart{
		Namespace: c.Namespace,
		Items:     slices.Clone(c.Items),
	}
}

func (c *Cart) index(productID string) int {
	return slices.IndexFunc(c.Items, func(item LineItem) bool {
		return item.ProductID == productID
	})
}

func ValidQuantity(quantity int) bool {
	return quantity >= 1 && quantity <= MaxQuantity
}

func (li LineItem) LineTotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

var (
	ErrEmptyProductID   = errors.New("product id is empty")
	ErrInvalidQuantity  = errors.New("quantity out of range")
	ErrDuplicateProduct = errors.New("duplicate product id")
)

// ValidateItems checks a list read back from storage.
func ValidateItems(items []LineItem) error {
	seen := make(map[string]struct{}, len(items))

	for i, item := range items {
		if item.ProductID == "" {
			return fmt.Errorf("item[%d]: %w", i, ErrEmptyProductID)
		}
		if !ValidQuantity(item.Quantity) {
			return fmt.Errorf("item[%d] %s quantity %d: %w", i, item.ProductID, item.Quantity, ErrInvalidQuantity)
		}
		if _, ok := seen[item.ProductID]; ok {
			return fmt.Errorf("item[%d] %s: %w", i, item.ProductID, ErrDuplicateProduct)
		}
		seen[item.ProductID] = struct{}{}
	}

	return nil
}
