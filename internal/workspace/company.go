package workspace

import (
	"context"
	"strings"
	"sync"

	"github.com/smallbiznis/quotedesk/internal/config"
	"go.uber.org/zap"
)

// CompanyResolver returns the issuer details shown on documents: the store's
// company info merged over the configured defaults. A successful fetch is
// cached; failures fall back to the defaults and are retried next time.
type CompanyResolver struct {
	store    Store
	defaults func() config.CompanyInfo
	log      *zap.Logger

	mu     sync.Mutex
	remote *config.CompanyInfo
}

func NewCompanyResolver(store Store, defaults func() config.CompanyInfo, log *zap.Logger) *CompanyResolver {
	return &CompanyResolver{store: store, defaults: defaults, log: log.Named("company")}
}

func (r *CompanyResolver) Resolve(ctx context.Context) config.CompanyInfo {
	base := r.defaults()

	r.mu.Lock()
	remote := r.remote
	r.mu.Unlock()

	if remote == nil {
		info, err := r.store.CompanyInfo(ctx)
		if err != nil {
			r.log.Warn("company info unavailable, using configured defaults", zap.Error(err))
			return base
		}
		fetched := info.ToConfig()
		remote = &fetched

		r.mu.Lock()
		r.remote = remote
		r.mu.Unlock()
	}
	return MergeCompany(base, *remote)
}

// MergeCompany overlays the non-empty fields of override on base.
func MergeCompany(base, override config.CompanyInfo) config.CompanyInfo {
	pick := func(b, o string) string {
		if strings.TrimSpace(o) != "" {
			return o
		}
		return b
	}
	return config.CompanyInfo{
		Name:        pick(base.Name, override.Name),
		Description: pick(base.Description, override.Description),
		Phone:       pick(base.Phone, override.Phone),
		Address:     pick(base.Address, override.Address),
		GSTIN:       pick(base.GSTIN, override.GSTIN),
		Branch:      pick(base.Branch, override.Branch),
		Email:       pick(base.Email, override.Email),
	}
}
