package domain

import "github.com/shopspring/decimal"

// Item is a read-only inventory entry offered as an autocomplete suggestion.
type Item struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Rate        decimal.Decimal `json:"rate"`
}
