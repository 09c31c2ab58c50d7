package usecase

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/colormatch/backend/internal/domain"
	"github.com/colormatch/backend/internal/metrics"
)

// DefaultSessionTTL is how long an idle session is kept
const DefaultSessionTTL = 24 * time.Hour

type sessionEntry struct {
	mu      sync.Mutex
	session domain.Session
	loading atomic.Bool
}

// snapshot returns a copy that is safe to hand out. Callers hold e.mu.
func (e *sessionEntry) snapshot() domain.Session {
	s := e.session
	s.SelectedProducts = slices.Clone(e.session.SelectedProducts)
	s.Loading = e.loading.Load()
	return s
}

// SessionService keeps per-user selection state and the last match results in memory
type SessionService struct {
	mu         sync.RWMutex
	sessions   map[string]*sessionEntry
	colors     ColorFinder
	normalizer *RequestNormalizer
	ttl        time.Duration
	now        func() time.Time
	logger     *zap.Logger
}

// NewSessionService creates a session store backed by colors for matching
func NewSessionService(colors ColorFinder, normalizer *RequestNormalizer, ttl time.Duration, logger *zap.Logger) *SessionService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionService{
		sessions:   make(map[string]*sessionEntry),
		colors:     colors,
		normalizer: normalizer,
		ttl:        ttl,
		now:        time.Now,
		logger:     logger.Named("sessions"),
	}
}

// Create starts a session with the default color and no products selected
func (s *SessionService) Create() domain.Session {
	s.sweepExpired()

	entry := &sessionEntry{
		session: domain.Session{
			ID:               uuid.NewString(),
			SelectedColor:    domain.DefaultSelectedColor,
			SelectedProducts: []string{},
			Results:          []domain.ScoredRecord{},
			Groups:           []domain.ResultGroup{},
			UpdatedAt:        s.now(),
		},
	}

	// Snapshot before publishing; afterwards other requests may hold the entry.
	created := entry.snapshot()

	s.mu.Lock()
	s.sessions[created.ID] = entry
	count := len(s.sessions)
	s.mu.Unlock()

	metrics.ActiveSessions.Set(float64(count))
	s.logger.Debug("session created", zap.String("session_id", created.ID))

	return created
}

// Get returns the current state of a session
func (s *SessionService) Get(id string) (domain.Session, error) {
	entry, err := s.lookup(id)
	if err != nil {
		return domain.Session{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.snapshot(), nil
}

// SetColor replaces the selected target color
func (s *SessionService) SetColor(id, hex string) (domain.Session, error) {
	entry, err := s.lookup(id)
	if err != nil {
		return domain.Session{}, err
	}

	_, canonical, err := s.normalizer.NormalizeColor(hex)
	if err != nil {
		return domain.Session{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.session.SelectedColor = canonical
	entry.session.UpdatedAt = s.now()
	return entry.snapshot(), nil
}

// ToggleProduct deselects product if it is selected and selects it otherwise
func (s *SessionService) ToggleProduct(id, product string) (domain.Session, error) {
	entry, err := s.lookup(id)
	if err != nil {
		return domain.Session{}, err
	}

	name, ok := s.normalizer.CanonicalCategory(product)
	if !ok {
		return domain.Session{}, fmt.Errorf("%w: unknown product category %q", domain.ErrInvalidRequest, product)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	selected := entry.session.SelectedProducts
	if i := slices.Index(selected, name); i >= 0 {
		entry.session.SelectedProducts = slices.Delete(slices.Clone(selected), i, i+1)
	} else {
		entry.session.SelectedProducts = append(slices.Clone(selected), name)
	}
	entry.session.UpdatedAt = s.now()

	return entry.snapshot(), nil
}

// Run matches the session's selection against the catalog and stores the
// results. Only one run per session may be in flight; a concurrent call fails
// with ErrMatchInProgress. The loading flag is cleared however the run ends.
func (s *SessionService) Run(ctx context.Context, id string) (domain.Session, error) {
	entry, err := s.lookup(id)
	if err != nil {
		return domain.Session{}, err
	}

	entry.mu.Lock()
	request := &domain.MatchRequest{
		Color:      entry.session.SelectedColor,
		Categories: slices.Clone(entry.session.SelectedProducts),
	}
	entry.mu.Unlock()

	if len(request.Categories) == 0 {
		return domain.Session{}, domain.ErrNoCategories
	}

	if err := s.beginRun(id, entry); err != nil {
		return domain.Session{}, err
	}
	defer entry.loading.Store(false)

	response, err := s.colors.FindSimilarColors(ctx, request)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	entry.session.UpdatedAt = s.now()
	if err != nil {
		entry.session.LastError = err.Error()
		s.logger.Warn("session match failed", zap.String("session_id", id), zap.Error(err))
		return domain.Session{}, err
	}

	entry.session.LastError = ""
	entry.session.Results = response.Results
	entry.session.Groups = response.Groups

	snap := entry.snapshot()
	snap.Loading = false
	return snap, nil
}

// Count returns the number of live sessions
func (s *SessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// beginRun sets the loading flag of entry. The entry must still be registered
// under id once the flag is set; sweepExpired never removes a loading entry, so
// a run that passes this check cannot be orphaned.
func (s *SessionService) beginRun(id string, entry *sessionEntry) error {
	if !entry.loading.CompareAndSwap(false, true) {
		return domain.ErrMatchInProgress
	}

	s.mu.RLock()
	current, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || current != entry {
		entry.loading.Store(false)
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	return nil
}

func (s *SessionService) lookup(id string) (*sessionEntry, error) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	return entry, nil
}

// sweepExpired drops idle sessions that are not running a match
func (s *SessionService) sweepExpired() {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, entry := range s.sessions {
		if entry.loading.Load() {
			continue
		}
		entry.mu.Lock()
		idle := entry.session.UpdatedAt.Before(cutoff)
		entry.mu.Unlock()
		if idle {
			delete(s.sessions, id)
		}
	}
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
}
