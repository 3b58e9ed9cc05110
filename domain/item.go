package domain

import (
	"math"
	"strings"
	"time"
)

// StockStatus summarizes an item's quantity against its threshold.
type StockStatus string

const (
	StockLow    StockStatus = "low"
	StockMedium StockStatus = "medium"
	StockGood   StockStatus = "good"
)

// Item is a consumable tracked in the household inventory.
type Item struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Quantity    int       `json:"quantity"`
	MinQuantity int       `json:"min_quantity"`
	Unit        string    `json:"unit"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (i *Item) Validate() error {
	if i == nil {
		return ErrInvalidPayload
	}
	if strings.TrimSpace(i.Name) == "" {
		return Invalidf("item name is required")
	}
	if i.Quantity < 0 {
		return Invalidf("item quantity must not be negative")
	}
	if i.MinQuantity < 0 {
		return Invalidf("item minimum quantity must not be negative")
	}
	return nil
}

// Adjust changes the quantity by delta, never going below zero and
// saturating at math.MaxInt.
func (i *Item) Adjust(delta int) {
	if i == nil {
		return
	}
	if delta > 0 && i.Quantity > math.MaxInt-delta {
		i.Quantity = math.MaxInt
		return
	}
	i.Quantity = max(0, i.Quantity+delta)
}

func (i *Item) Status() StockStatus {
	switch {
	case i.Quantity <= i.MinQuantity:
		return StockLow
	case i.Quantity <= i.MinQuantity*2:
		return StockMedium
	default:
		return StockGood
	}
}

func (i *Item) IsLowStock() bool {
	return i != nil && i.Status() == StockLow
}
