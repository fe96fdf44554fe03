package kvstore

import (
	"encoding/json"
	"fmt"

	"github.com/nikolayk812/grocery-cart/internal/domain"
)

// Encode always produces a JSON array, "[]" for an empty cart.
func Encode(items []domain.LineItem) (string, error) {
	if items == nil {
		items = []domain.LineItem{}
	}

	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("json.Marshal: %w", err)
	}

	return string(b), nil
}

// Decode accepts prices as JSON numbers or strings. Anything that is not a
// JSON array of line items is reported as ErrCorruptRecord.
func Decode(raw string) ([]domain.LineItem, error) {
	var items []domain.LineItem

	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptRecord, err)
	}

	return items, nil
}
