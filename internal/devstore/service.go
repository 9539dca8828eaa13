package devstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/quotedesk/internal/clock"
	"github.com/smallbiznis/quotedesk/internal/config"
	"github.com/smallbiznis/quotedesk/internal/quotation/contract"
	"github.com/smallbiznis/quotedesk/internal/quotation/domain"
	"github.com/smallbiznis/quotedesk/internal/quotation/draft"
	"github.com/smallbiznis/quotedesk/pkg/db"
	"github.com/smallbiznis/quotedesk/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrInvalidID     = errors.New("invalid_id")
	ErrDuplicateItem = errors.New("duplicate_item")
	ErrMissingFields = errors.New("missing_fields")
	ErrNegativeRate  = errors.New("negative_rate")
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     Repository
	Clock    clock.Clock
	Document *config.DocumentConfigHolder
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     Repository
	clock    clock.Clock
	document *config.DocumentConfigHolder
}

func NewService(p Params) *Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("devstore.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		clock:    p.Clock,
		document: p.Document,
	}
}

// Migrate creates the tables when they are missing.
func (s *Service) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(models...)
}

func (s *Service) List(ctx context.Context, page pagination.Pagination) (contract.ListResponse, error) {
	page = page.Normalize()
	rows, total, err := s.repo.List(ctx, s.db, page)
	if err != nil {
		return contract.ListResponse{}, err
	}
	stats, err := s.repo.Stats(ctx, s.db, s.clock.Now().UTC())
	if err != nil {
		return contract.ListResponse{}, err
	}

	out := make([]contract.Quotation, 0, len(rows))
	for _, row := range rows {
		out = append(out, contract.FromDomain(row.toDomain()))
	}
	info := pagination.BuildPageInfo(page, total)
	return contract.ListResponse{
		Quotations: out,
		Stats: &contract.Stats{
			TotalQuotations:  int(stats.TotalQuotations),
			TotalValue:       contract.NewDecimal(stats.TotalValue),
			ThisMonth:        int(stats.ThisMonth),
			GrowthPercentage: stats.GrowthPercentage(),
		},
		Pagination: &contract.Pagination{
			Page:    info.Page,
			Pages:   info.Pages,
			Total:   info.Total,
			PerPage: info.PerPage,
		},
	}, nil
}

func (s *Service) Get(ctx context.Context, rawID string) (contract.Quotation, error) {
	id, err := parseID(rawID)
	if err != nil {
		return contract.Quotation{}, err
	}
	row, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return contract.Quotation{}, err
	}
	return contract.FromDomain(row.toDomain()), nil
}

func (s *Service) Create(ctx context.Context, body contract.Quotation) (domain.ID, error) {
	q, err := decodeQuotation(body)
	if err != nil {
		return "", err
	}

	now := s.clock.Now().UTC()
	row := s.newRecord(s.genID.Generate(), q, now)
	row.CreatedAt = now
	if err := s.repo.Insert(ctx, s.db, &row); err != nil {
		return "", err
	}
	s.log.Info("quotation created", zap.String("quotation_id", row.ID.String()), zap.Int("items", len(row.Items)))
	return domain.ID(row.ID.String()), nil
}

func (s *Service) Update(ctx context.Context, rawID string, body contract.Quotation) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	q, err := decodeQuotation(body)
	if err != nil {
		return err
	}

	row := s.newRecord(id, q, s.clock.Now().UTC())
	if err := s.repo.Replace(ctx, s.db, &row); err != nil {
		return err
	}
	s.log.Info("quotation updated", zap.String("quotation_id", row.ID.String()))
	return nil
}

func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, s.db, id); err != nil {
		return err
	}
	s.log.Info("quotation deleted", zap.String("quotation_id", id.String()))
	return nil
}

func (s *Service) Inventory(ctx context.Context) ([]contract.InventoryItem, error) {
	rows, err := s.repo.ListInventory(ctx, s.db)
	if err != nil {
		return nil, err
	}
	out := make([]contract.InventoryItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, contract.InventoryItem{
			ID:          domain.ID(row.ID.String()),
			Description: row.Description,
			Rate:        contract.NewDecimal(row.Rate),
		})
	}
	return out, nil
}

type InventoryInput struct {
	Description string          `json:"description"`
	Rate        decimal.Decimal `json:"rate"`
}

func (in InventoryInput) validate() error {
	if strings.TrimSpace(in.Description) == "" || in.Rate.IsZero() {
		return ErrMissingFields
	}
	if in.Rate.IsNegative() {
		return ErrNegativeRate
	}
	return nil
}

func (s *Service) CreateInventory(ctx context.Context, in InventoryInput) (contract.InventoryItem, error) {
	if err := in.validate(); err != nil {
		return contract.InventoryItem{}, err
	}
	now := s.clock.Now().UTC()
	item := InventoryItem{
		ID:          s.genID.Generate(),
		Description: strings.TrimSpace(in.Description),
		Rate:        in.Rate.Round(2),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.InsertInventory(ctx, s.db, &item); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return contract.InventoryItem{}, ErrDuplicateItem
		}
		return contract.InventoryItem{}, err
	}
	return contract.InventoryItem{
		ID:          domain.ID(item.ID.String()),
		Description: item.Description,
		Rate:        contract.NewDecimal(item.Rate),
	}, nil
}

func (s *Service) UpdateInventory(ctx context.Context, rawID string, in InventoryInput) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	if err := in.validate(); err != nil {
		return err
	}
	item := InventoryItem{
		ID:          id,
		Description: strings.TrimSpace(in.Description),
		Rate:        in.Rate.Round(2),
		UpdatedAt:   s.clock.Now().UTC(),
	}
	if err := s.repo.UpdateInventory(ctx, s.db, &item); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return ErrDuplicateItem
		}
		return err
	}
	return nil
}

func (s *Service) DeleteInventory(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	return s.repo.DeleteInventory(ctx, s.db, id)
}

// CompanyInfo serves the issuer block from document.yml.
func (s *Service) CompanyInfo() contract.CompanyInfo {
	return contract.CompanyFromConfig(s.document.Get().Company)
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// decodeQuotation applies the same rules the editor checks before saving and
// re-derives every amount.
func decodeQuotation(body contract.Quotation) (domain.Quotation, error) {
	q, err := body.ToDomain()
	if err != nil {
		return domain.Quotation{}, &domain.ValidationError{Field: "items", Message: err.Error()}
	}
	if err := draft.Validate(q); err != nil {
		return domain.Quotation{}, err
	}
	return q, nil
}

func (s *Service) newRecord(id snowflake.ID, q domain.Quotation, now time.Time) Quotation {
	row := Quotation{
		ID:            id,
		BillTo:        strings.TrimSpace(q.CustomerInfo.BillTo),
		StateName:     q.CustomerInfo.StateName,
		ContactNo:     strings.TrimSpace(q.CustomerInfo.ContactNo),
		CustomerGSTIN: q.CustomerInfo.CustomerGSTIN,
		EstimateNo:    q.CustomerInfo.EstimateNo,
		TotalAmount:   q.Totals.TotalAmount,
		QuotationDate: now,
		UpdatedAt:     now,
	}
	if q.CustomerInfo.EstimateDate != nil {
		d := datatypes.Date(*q.CustomerInfo.EstimateDate)
		row.EstimateDate = &d
	}
	if q.QuotationDate != nil {
		row.QuotationDate = q.QuotationDate.UTC()
	}
	row.Items = make([]QuotationItem, 0, len(q.Items))
	for i, item := range q.Items {
		row.Items = append(row.Items, QuotationItem{
			ID:          s.genID.Generate(),
			QuotationID: id,
			Position:    i,
			Description: item.Description,
			Qty:         item.Qty,
			Rate:        item.Rate,
			Amount:      item.Amount,
		})
	}
	return row
}

func (q Quotation) toDomain() domain.Quotation {
	out := domain.Quotation{
		ID: domain.ID(q.ID.String()),
		CustomerInfo: domain.CustomerInfo{
			BillTo:        q.BillTo,
			StateName:     q.StateName,
			ContactNo:     q.ContactNo,
			CustomerGSTIN: q.CustomerGSTIN,
			EstimateNo:    q.EstimateNo,
		},
		Items:  make([]domain.LineItem, 0, len(q.Items)),
		Totals: domain.Totals{TotalAmount: q.TotalAmount},
	}
	if q.EstimateDate != nil {
		d := time.Time(*q.EstimateDate)
		out.CustomerInfo.EstimateDate = &d
	}
	quotationDate := q.QuotationDate
	createdAt := q.CreatedAt
	out.QuotationDate = &quotationDate
	out.CreatedAt = &createdAt
	for _, item := range q.Items {
		out.Items = append(out.Items, domain.LineItem{
			Description: item.Description,
			Qty:         item.Qty,
			Rate:        item.Rate,
			Amount:      item.Amount,
		})
	}
	return out
}
