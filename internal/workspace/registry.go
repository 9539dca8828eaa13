package workspace

import (
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/quotedesk/internal/clock"
	"github.com/smallbiznis/quotedesk/internal/observability/metrics"
	"go.uber.org/zap"
)

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Registry holds the live sessions keyed by browser session id.
type Registry struct {
	store     Store
	documents *Documents
	inventory Inventory
	clock     clock.Clock
	log       *zap.Logger
	metrics   *metrics.Metrics

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(store Store, documents *Documents, inventory Inventory, clk clock.Clock, log *zap.Logger, m *metrics.Metrics) *Registry {
	return &Registry{
		store:     store,
		documents: documents,
		inventory: inventory,
		clock:     clk,
		log:       log.Named("workspace"),
		metrics:   m,
		sessions:  make(map[string]*Session),
	}
}

// NewSessionID returns a fresh session id.
func NewSessionID() string {
	return uuid.NewString()
}

// Session returns the session for id, creating it on first use.
func (r *Registry) Session(id string) (*Session, error) {
	if !sessionIDPattern.MatchString(id) {
		return nil, ErrInvalidSession
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		return s, nil
	}
	s := newSession(id, r.store, r.documents, r.inventory, r.clock, r.log, r.metrics)
	r.sessions[id] = s
	r.log.Debug("session opened", zap.String("session_id", id))
	return s, nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than maxIdle and returns how many
// were dropped. A session with a save in flight is kept.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	now := r.clock.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	dropped := 0
	for id, s := range r.sessions {
		if s.saving.Load() || s.idleSince(now) <= maxIdle {
			continue
		}
		delete(r.sessions, id)
		dropped++
	}
	if dropped > 0 {
		r.log.Debug("idle sessions dropped", zap.Int("count", dropped))
	}
	return dropped
}
