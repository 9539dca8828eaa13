// Package devstore is a gorm-backed implementation of the quotation store's
// REST contract for local development and end-to-end tests of the client.
package devstore

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Quotation struct {
	ID            snowflake.ID    `gorm:"primaryKey"`
	BillTo        string          `gorm:"not null"`
	StateName     string          `gorm:"column:state_name"`
	ContactNo     string          `gorm:"not null"`
	CustomerGSTIN string          `gorm:"column:customer_gstin"`
	EstimateNo    string          `gorm:"index"`
	EstimateDate  *datatypes.Date `gorm:"column:estimate_date"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	QuotationDate time.Time       `gorm:"not null"`
	Items         []QuotationItem `gorm:"foreignKey:QuotationID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time       `gorm:"not null;index"`
	UpdatedAt     time.Time       `gorm:"not null"`
}

func (Quotation) TableName() string { return "quotations" }

// QuotationItem keeps its row order in Position.
type QuotationItem struct {
	ID          snowflake.ID    `gorm:"primaryKey"`
	QuotationID snowflake.ID    `gorm:"not null;index"`
	Position    int             `gorm:"not null"`
	Description string          `gorm:"not null"`
	Qty         int64           `gorm:"not null"`
	Rate        decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
}

func (QuotationItem) TableName() string { return "quotation_items" }

type InventoryItem struct {
	ID          snowflake.ID    `gorm:"primaryKey"`
	Description string          `gorm:"not null;uniqueIndex"`
	Rate        decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

func (InventoryItem) TableName() string { return "inventory_items" }

// Stats feeds the dashboard counters of the list response.
type Stats struct {
	TotalQuotations int64
	TotalValue      decimal.Decimal
	ThisMonth       int64
	LastMonth       int64
}

// GrowthPercentage compares this month with the previous one, rounded to one
// decimal. A month following an empty one counts as 100% growth.
func (s Stats) GrowthPercentage() float64 {
	if s.LastMonth == 0 {
		if s.ThisMonth > 0 {
			return 100
		}
		return 0
	}
	diff := decimal.NewFromInt(s.ThisMonth - s.LastMonth)
	pct := diff.Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(s.LastMonth)).Round(1)
	f, _ := pct.Float64()
	return f
}

var models = []any{&Quotation{}, &QuotationItem{}, &InventoryItem{}}
