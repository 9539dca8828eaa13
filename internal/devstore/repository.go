package devstore

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/quotedesk/pkg/db/pagination"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not_found")

type Repository interface {
	List(ctx context.Context, db *gorm.DB, page pagination.Pagination) ([]Quotation, int64, error)
	Stats(ctx context.Context, db *gorm.DB, now time.Time) (Stats, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (Quotation, error)
	Insert(ctx context.Context, db *gorm.DB, q *Quotation) error
	Replace(ctx context.Context, db *gorm.DB, q *Quotation) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	ListInventory(ctx context.Context, db *gorm.DB) ([]InventoryItem, error)
	InsertInventory(ctx context.Context, db *gorm.DB, item *InventoryItem) error
	UpdateInventory(ctx context.Context, db *gorm.DB, item *InventoryItem) error
	DeleteInventory(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}

type repo struct{}

func NewRepository() Repository {
	return &repo{}
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *repo) List(ctx context.Context, db *gorm.DB, page pagination.Pagination) ([]Quotation, int64, error) {
	var total int64
	if err := db.WithContext(ctx).Model(&Quotation{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []Quotation
	err := db.WithContext(ctx).
		Preload("Items", orderedItems).
		Order("created_at DESC").
		Order("id DESC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repo) Stats(ctx context.Context, db *gorm.DB, now time.Time) (Stats, error) {
	var out Stats
	if err := db.WithContext(ctx).Model(&Quotation{}).Count(&out.TotalQuotations).Error; err != nil {
		return Stats{}, err
	}

	var sum decimal.NullDecimal
	row := db.WithContext(ctx).Model(&Quotation{}).Select("SUM(total_amount)").Row()
	if err := row.Scan(&sum); err != nil {
		return Stats{}, err
	}
	out.TotalValue = decimal.Zero
	if sum.Valid {
		out.TotalValue = sum.Decimal.Round(2)
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prevStart := monthStart.AddDate(0, -1, 0)
	if err := db.WithContext(ctx).Model(&Quotation{}).
		Where("created_at >= ?", monthStart).
		Count(&out.ThisMonth).Error; err != nil {
		return Stats{}, err
	}
	if err := db.WithContext(ctx).Model(&Quotation{}).
		Where("created_at >= ? AND created_at < ?", prevStart, monthStart).
		Count(&out.LastMonth).Error; err != nil {
		return Stats{}, err
	}
	return out, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (Quotation, error) {
	var q Quotation
	err := db.WithContext(ctx).Preload("Items", orderedItems).First(&q, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Quotation{}, ErrNotFound
	}
	return q, err
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, q *Quotation) error {
	return db.WithContext(ctx).Create(q).Error
}

// Replace overwrites the header columns and swaps the item rows wholesale.
func (r *repo) Replace(ctx context.Context, db *gorm.DB, q *Quotation) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Quotation{ID: q.ID}).
			Select("bill_to", "state_name", "contact_no", "customer_gstin", "estimate_no",
				"estimate_date", "total_amount", "quotation_date", "updated_at").
			Updates(q)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("quotation_id = ?", q.ID).Delete(&QuotationItem{}).Error; err != nil {
			return err
		}
		if len(q.Items) == 0 {
			return nil
		}
		return tx.Create(&q.Items).Error
	})
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quotation_id = ?", id).Delete(&QuotationItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&Quotation{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *repo) ListInventory(ctx context.Context, db *gorm.DB) ([]InventoryItem, error) {
	var items []InventoryItem
	err := db.WithContext(ctx).Order("description ASC").Find(&items).Error
	return items, err
}

func (r *repo) InsertInventory(ctx context.Context, db *gorm.DB, item *InventoryItem) error {
	return db.WithContext(ctx).Create(item).Error
}

func (r *repo) UpdateInventory(ctx context.Context, db *gorm.DB, item *InventoryItem) error {
	res := db.WithContext(ctx).Model(&InventoryItem{ID: item.ID}).
		Select("description", "rate", "updated_at").
		Updates(item)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repo) DeleteInventory(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	res := db.WithContext(ctx).Delete(&InventoryItem{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
