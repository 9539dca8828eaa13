package render

import (
	"context"
	"time"

	"github.com/smallbiznis/quotedesk/internal/clock"
	"github.com/smallbiznis/quotedesk/internal/config"
	"github.com/smallbiznis/quotedesk/internal/observability/metrics"
	"github.com/smallbiznis/quotedesk/internal/quotation/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Purpose string

const (
	PurposePrint    Purpose = "print"
	PurposeDownload Purpose = "download"
)

// Artifact is one serialized document ready to be sent or stored.
type Artifact struct {
	Filename    string
	ContentType string
	Format      Format
	Body        []byte
	Document    Document
}

type Params struct {
	fx.In

	Holder        *config.DocumentConfigHolder
	Clock         clock.Clock
	Log           *zap.Logger
	Metrics       *metrics.Metrics       `optional:"true"`
	RenderMetrics *metrics.RenderMetrics `optional:"true"`
}

// Service binds the current document configuration and the render targets.
type Service struct {
	holder  *config.DocumentConfigHolder
	clock   clock.Clock
	targets Targets
	log     *zap.Logger
	metrics *metrics.Metrics
	timing  *metrics.RenderMetrics
}

func NewService(p Params) *Service {
	pdfCurrency := func() string { return p.Holder.Get().PDFCurrency }
	return &Service{
		holder: p.Holder,
		clock:  p.Clock,
		targets: NewTargets(
			NewHTMLRenderer(),
			&PDFRenderer{currency: pdfCurrency},
			NewXLSXRenderer(),
		),
		log:     p.Log.Named("render"),
		metrics: p.Metrics,
		timing:  p.RenderMetrics,
	}
}

// Company returns the configured issuer details.
func (s *Service) Company() config.CompanyInfo {
	return s.holder.Get().Company
}

// CountryCode is the dialing prefix for share links.
func (s *Service) CountryCode() string {
	return s.holder.Get().CountryCode
}

// Document renders q with the current configuration. A nil company uses the
// configured one.
func (s *Service) Document(q domain.Quotation, company *config.CompanyInfo, variant domain.Variant) Document {
	cfg := s.holder.Get()
	issuer := cfg.Company
	if company != nil {
		issuer = *company
	}
	return Render(q, issuer, cfg.Bank, variant, OptionsFromConfig(cfg, variant, s.clock.Now()))
}

// Artifact renders q and serializes it as format.
func (s *Service) Artifact(ctx context.Context, q domain.Quotation, company *config.CompanyInfo, variant domain.Variant, format Format, purpose Purpose) (Artifact, error) {
	target, err := s.targets.Get(format)
	if err != nil {
		return Artifact{}, err
	}

	start := time.Now()
	doc := s.Document(q, company, variant)
	body, err := target.Render(doc)
	if err != nil {
		s.log.Error("render failed",
			zap.String("variant", string(variant)),
			zap.String("format", string(format)),
			zap.Error(err),
		)
		return Artifact{}, err
	}

	s.timing.Observe(string(format), len(body), time.Since(start))
	s.metrics.RecordRender(ctx, string(variant), string(format), string(purpose))

	return Artifact{
		Filename:    Filename(doc, format),
		ContentType: target.ContentType(),
		Format:      format,
		Body:        body,
		Document:    doc,
	}, nil
}

var Module = fx.Module("render",
	fx.Provide(NewService),
)
