package workspace

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/smallbiznis/quotedesk/internal/clock"
	inventorydomain "github.com/smallbiznis/quotedesk/internal/inventory/domain"
	"github.com/smallbiznis/quotedesk/internal/inventory/matcher"
	"github.com/smallbiznis/quotedesk/internal/observability/logger"
	"github.com/smallbiznis/quotedesk/internal/observability/metrics"
	"github.com/smallbiznis/quotedesk/internal/pagination"
	"github.com/smallbiznis/quotedesk/internal/quotation/contract"
	"github.com/smallbiznis/quotedesk/internal/quotation/domain"
	"github.com/smallbiznis/quotedesk/internal/quotation/draft"
	"github.com/smallbiznis/quotedesk/internal/render"
	"go.uber.org/zap"
)

// maxSuggestions caps one suggestion list.
const maxSuggestions = 10

// ListView is the visible page of the quotation list.
type ListView struct {
	Quotations []contract.Quotation `json:"quotations"`
	Stats      contract.Stats       `json:"stats"`
	Pagination pagination.State     `json:"pagination"`
	Window     []pagination.Entry   `json:"window"`
	Loading    bool                 `json:"loading"`
}

// DraftView is the form state.
type DraftView struct {
	EditingID domain.ID          `json:"editingId,omitempty"`
	Draft     contract.Quotation `json:"draft"`
	Saving    bool               `json:"saving"`
}

// Session is one user's workspace: the draft form, the list page, the
// banner and the suggestion memo.
type Session struct {
	id        string
	store     Store
	documents *Documents
	inventory Inventory
	clock     clock.Clock
	log       *zap.Logger
	metrics   *metrics.Metrics

	list     *pagination.Controller[contract.Quotation]
	loaded   atomic.Bool
	saving   atomic.Bool
	throttle *matcher.Throttle
	lastSeen atomic.Int64

	mu        sync.Mutex
	draft     domain.Quotation
	editingID domain.ID
	banner    *Banner
}

func newSession(id string, store Store, documents *Documents, inventory Inventory, clk clock.Clock, log *zap.Logger, m *metrics.Metrics) *Session {
	s := &Session{
		id:        id,
		store:     store,
		documents: documents,
		inventory: inventory,
		clock:     clk,
		log:       logger.WithSession(log, id),
		metrics:   m,
		throttle:  matcher.NewThrottle(),
		draft:     draft.New(clk.Now()),
	}
	s.list = pagination.NewController(s.fetchPage, s.log)
	s.touch()
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) touch() { s.lastSeen.Store(s.clock.Now().UnixNano()) }

func (s *Session) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastSeen.Load()))
}

func (s *Session) fetchPage(ctx context.Context, page, perPage int) (pagination.Page[contract.Quotation], error) {
	resp, err := s.store.List(ctx, page, perPage)
	if err != nil {
		return pagination.Page[contract.Quotation]{}, err
	}
	return pagination.Page[contract.Quotation]{
		Items:      resp.Quotations,
		Pagination: resp.State(),
		Summary:    resp.StatsOrZero(),
	}, nil
}

// List returns the visible page, loading page 1 on first use.
func (s *Session) List(ctx context.Context) (ListView, error) {
	s.touch()
	if s.loaded.CompareAndSwap(false, true) {
		if err := s.refresh(ctx, 1); err != nil {
			s.loaded.Store(false)
			return s.listView(), err
		}
	}
	return s.listView(), nil
}

// Navigate moves the list to target: first, prev, next, last or a page
// number. Out-of-range and current-page targets are no-ops.
func (s *Session) Navigate(ctx context.Context, target string) (ListView, error) {
	s.touch()
	var err error
	switch strings.ToLower(strings.TrimSpace(target)) {
	case "first":
		_, err = s.list.First(ctx)
	case "prev":
		_, err = s.list.Prev(ctx)
	case "next":
		_, err = s.list.Next(ctx)
	case "last":
		_, err = s.list.Last(ctx)
	default:
		page, convErr := strconv.Atoi(target)
		if convErr != nil {
			return s.listView(), ErrInvalidPage
		}
		_, err = s.list.GoTo(ctx, page)
	}
	if err != nil {
		s.fail(prefixFetch, err)
	}
	return s.listView(), err
}

func (s *Session) Pagination() pagination.State {
	return s.list.State()
}

func (s *Session) refresh(ctx context.Context, page int) error {
	if err := s.list.Refresh(ctx, page); err != nil {
		s.fail(prefixFetch, err)
		return err
	}
	return nil
}

func (s *Session) listView() ListView {
	state := s.list.State()
	stats, _ := s.list.Summary().(contract.Stats)
	return ListView{
		Quotations: s.list.Items(),
		Stats:      stats,
		Pagination: state,
		Window:     pagination.Window(state),
		Loading:    s.list.Loading(),
	}
}

// Draft returns the form state.
func (s *Session) Draft() DraftView {
	s.touch()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draftViewLocked()
}

func (s *Session) draftViewLocked() DraftView {
	return DraftView{
		EditingID: s.editingID,
		Draft:     contract.FromDomain(s.draft),
		Saving:    s.saving.Load(),
	}
}

// NewDraft discards the form and starts a blank quotation.
func (s *Session) NewDraft() DraftView {
	s.touch()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = draft.Reset(s.clock.Now())
	s.editingID = ""
	s.throttle.Reset()
	return s.draftViewLocked()
}

// mutate applies fn to the draft. The draft is left unchanged when fn fails.
func (s *Session) mutate(fn func(domain.Quotation) (domain.Quotation, error)) (DraftView, error) {
	s.touch()
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := fn(s.draft)
	if err != nil {
		return s.draftViewLocked(), err
	}
	s.draft = next
	return s.draftViewLocked(), nil
}

func (s *Session) SetCustomerField(key, value string) (DraftView, error) {
	return s.mutate(func(q domain.Quotation) (domain.Quotation, error) {
		return draft.SetCustomerField(q, key, value)
	})
}

func (s *Session) SetItemField(index int, field, value string) (DraftView, error) {
	return s.mutate(func(q domain.Quotation) (domain.Quotation, error) {
		return draft.SetItemField(q, index, field, value)
	})
}

func (s *Session) AddItem() DraftView {
	view, _ := s.mutate(func(q domain.Quotation) (domain.Quotation, error) {
		return draft.AddItem(q), nil
	})
	return view
}

func (s *Session) RemoveItem(index int) DraftView {
	view, _ := s.mutate(func(q domain.Quotation) (domain.Quotation, error) {
		return draft.RemoveItem(q, index), nil
	})
	return view
}

// SelectSuggestion fills item index from an inventory entry.
func (s *Session) SelectSuggestion(index int, item inventorydomain.Item) (DraftView, error) {
	return s.mutate(func(q domain.Quotation) (domain.Quotation, error) {
		return matcher.SelectSuggestion(q, index, item)
	})
}

// Suggestions matches query against the inventory snapshot.
func (s *Session) Suggestions(ctx context.Context, query string) []inventorydomain.Item {
	s.touch()
	hits := s.throttle.Suggest(query, s.inventory.Items())
	if len(hits) > maxSuggestions {
		hits = hits[:maxSuggestions]
	}
	s.metrics.RecordSuggestions(ctx, len(hits))
	return hits
}

// Save validates the draft and creates or replaces it in the store, then
// reloads the list page that was visible when the save started. A second
// Save while one is outstanding returns ErrSaveInProgress without a store call.
func (s *Session) Save(ctx context.Context) (domain.ID, error) {
	s.touch()
	if !s.saving.CompareAndSwap(false, true) {
		return "", ErrSaveInProgress
	}
	defer s.saving.Store(false)

	s.mu.Lock()
	doc := s.draft.Clone()
	editingID := s.editingID
	s.mu.Unlock()

	if err := draft.Validate(doc); err != nil {
		s.fail("", err)
		return "", err
	}

	page := s.list.State().CurrentPage
	s.clearBanner()

	mode := "create"
	id := editingID
	var err error
	if editingID.IsZero() {
		id, err = s.store.Create(ctx, doc)
	} else {
		mode = "update"
		err = s.store.Update(ctx, editingID, doc)
	}
	if err != nil {
		s.metrics.RecordSave(ctx, mode, "error")
		s.fail(prefixSave, err)
		return "", err
	}
	s.metrics.RecordSave(ctx, mode, "ok")

	if mode == "create" {
		s.succeed(msgCreated)
	} else {
		s.succeed(msgUpdated)
	}
	s.log.Info("quotation saved", zap.String("mode", mode), zap.String("quotation_id", id.String()))

	s.mu.Lock()
	s.draft = draft.Reset(s.clock.Now())
	s.editingID = ""
	s.mu.Unlock()

	s.loaded.Store(true)
	if err := s.list.Refresh(ctx, page); err != nil {
		s.log.Warn("list refresh after save failed", zap.Error(err))
	}
	return id, nil
}

// Edit loads a stored quotation into the form.
func (s *Session) Edit(ctx context.Context, id domain.ID) (DraftView, error) {
	s.touch()
	q, err := s.documents.Load(ctx, id)
	if err != nil {
		s.fail(prefixLoad, err)
		return s.Draft(), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = draft.FromPersisted(q)
	s.editingID = id
	return s.draftViewLocked(), nil
}

// Delete removes a stored quotation and reloads the visible page.
func (s *Session) Delete(ctx context.Context, id domain.ID) error {
	s.touch()
	if id.IsZero() {
		return domain.ErrInvalidID
	}
	page := s.list.State().CurrentPage
	if err := s.store.Delete(ctx, id); err != nil {
		s.metrics.RecordDelete(ctx, "error")
		s.fail(prefixDelete, err)
		return err
	}
	s.metrics.RecordDelete(ctx, "ok")
	s.succeed(msgDeleted)

	s.mu.Lock()
	if s.editingID == id {
		s.draft = draft.Reset(s.clock.Now())
		s.editingID = ""
	}
	s.mu.Unlock()

	s.loaded.Store(true)
	if err := s.list.Refresh(ctx, page); err != nil {
		s.log.Warn("list refresh after delete failed", zap.Error(err))
	}
	return nil
}

// Print renders a stored quotation and opens it on surface.
func (s *Session) Print(ctx context.Context, id domain.ID, variant domain.Variant, surface PrintSurface) (render.Artifact, error) {
	q, err := s.lookup(ctx, id)
	if err != nil {
		return render.Artifact{}, err
	}
	art, err := s.documents.Print(ctx, q, variant, surface)
	if err != nil {
		s.fail("", err)
		return render.Artifact{}, err
	}
	return art, nil
}

// lookup prefers the row on the visible page over a store round-trip.
func (s *Session) lookup(ctx context.Context, id domain.ID) (domain.Quotation, error) {
	s.touch()
	for _, row := range s.list.Items() {
		if row.ID == id {
			if q, err := row.ToDomain(); err == nil {
				return q, nil
			}
			break
		}
	}
	q, err := s.documents.Load(ctx, id)
	if err != nil {
		s.fail(prefixLoad, err)
		return domain.Quotation{}, err
	}
	return q, nil
}

// Banner returns the current banner, or nil.
func (s *Session) Banner() *Banner {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.banner == nil {
		return nil
	}
	b := *s.banner
	return &b
}

func (s *Session) DismissBanner() {
	s.clearBanner()
}

func (s *Session) clearBanner() {
	s.mu.Lock()
	s.banner = nil
	s.mu.Unlock()
}

func (s *Session) succeed(msg string) {
	s.setBanner(BannerSuccess, msg)
}

func (s *Session) fail(prefix string, err error) {
	s.setBanner(BannerError, prefix+userMessage(err))
}

func (s *Session) setBanner(kind BannerKind, msg string) {
	s.mu.Lock()
	s.banner = &Banner{Kind: kind, Message: msg, At: s.clock.Now()}
	s.mu.Unlock()
}
