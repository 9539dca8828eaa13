package workspace

import (
	"context"
	"fmt"

	"github.com/smallbiznis/quotedesk/internal/artifact"
	"github.com/smallbiznis/quotedesk/internal/clock"
	inventorydomain "github.com/smallbiznis/quotedesk/internal/inventory/domain"
	"github.com/smallbiznis/quotedesk/internal/quotation/contract"
	"github.com/smallbiznis/quotedesk/internal/quotation/domain"
	"github.com/smallbiznis/quotedesk/internal/render"
	"github.com/smallbiznis/quotedesk/internal/share"
	"go.uber.org/zap"
)

// Store is the slice of the remote store client the workspace uses.
type Store interface {
	List(ctx context.Context, page, perPage int) (contract.ListResponse, error)
	Get(ctx context.Context, id domain.ID) (domain.Quotation, error)
	Create(ctx context.Context, q domain.Quotation) (domain.ID, error)
	Update(ctx context.Context, id domain.ID, q domain.Quotation) error
	Delete(ctx context.Context, id domain.ID) error
	CompanyInfo(ctx context.Context) (contract.CompanyInfo, error)
}

// Inventory serves the primed inventory snapshot.
type Inventory interface {
	Items() []inventorydomain.Item
}

// PrintSurface receives rendered HTML to show and print. It returns
// render.ErrSurfaceBlocked when it cannot be opened.
type PrintSurface interface {
	Open(ctx context.Context, art render.Artifact) error
}

// Download is a rendered file plus where it was archived, if anywhere.
type Download struct {
	render.Artifact
	Stored *artifact.Stored
}

// Documents produces print, download and share output for quotations. It
// keeps no per-session state.
type Documents struct {
	store    Store
	renderer *render.Service
	company  *CompanyResolver
	sink     artifact.Sink
	clock    clock.Clock
	log      *zap.Logger
}

func NewDocuments(store Store, renderer *render.Service, company *CompanyResolver, sink artifact.Sink, clk clock.Clock, log *zap.Logger) *Documents {
	return &Documents{
		store:    store,
		renderer: renderer,
		company:  company,
		sink:     sink,
		clock:    clk,
		log:      log.Named("documents"),
	}
}

func (d *Documents) Load(ctx context.Context, id domain.ID) (domain.Quotation, error) {
	if id.IsZero() {
		return domain.Quotation{}, domain.ErrInvalidID
	}
	return d.store.Get(ctx, id)
}

// Print renders q as HTML and hands it to surface. Download of the same
// document produces the same bytes.
func (d *Documents) Print(ctx context.Context, q domain.Quotation, variant domain.Variant, surface PrintSurface) (render.Artifact, error) {
	company := d.company.Resolve(ctx)
	art, err := d.renderer.Artifact(ctx, q, &company, variant, render.FormatHTML, render.PurposePrint)
	if err != nil {
		return render.Artifact{}, err
	}
	if surface == nil {
		return render.Artifact{}, render.ErrSurfaceBlocked
	}
	if err := surface.Open(ctx, art); err != nil {
		return render.Artifact{}, err
	}
	return art, nil
}

// Download renders q in format and archives it when a sink is configured.
// A sink failure aborts the download.
func (d *Documents) Download(ctx context.Context, q domain.Quotation, variant domain.Variant, format render.Format) (Download, error) {
	company := d.company.Resolve(ctx)
	art, err := d.renderer.Artifact(ctx, q, &company, variant, format, render.PurposeDownload)
	if err != nil {
		return Download{}, err
	}
	out := Download{Artifact: art}
	if d.sink == nil {
		return out, nil
	}

	stored, err := d.sink.Store(ctx, artifact.Object{
		Company:     company.Name,
		Variant:     string(variant),
		Filename:    art.Filename,
		ContentType: art.ContentType,
		Body:        art.Body,
	})
	if err != nil {
		d.log.Error("archive download failed", zap.String("filename", art.Filename), zap.Error(err))
		return Download{}, fmt.Errorf("%w: %w", artifact.ErrSinkUnavailable, err)
	}
	out.Stored = &stored
	return out, nil
}

// Share builds the WhatsApp link for q.
func (d *Documents) Share(ctx context.Context, q domain.Quotation, variant domain.Variant) (share.Link, error) {
	company := d.company.Resolve(ctx)
	doc := d.renderer.Document(q, &company, variant)

	date := d.clock.Now()
	if q.QuotationDate != nil {
		date = *q.QuotationDate
	} else if q.CreatedAt != nil {
		date = *q.CreatedAt
	}
	return share.Build(doc, q.CustomerInfo.BillTo, q.CustomerInfo.ContactNo, render.FormatDate(date), d.renderer.CountryCode())
}
