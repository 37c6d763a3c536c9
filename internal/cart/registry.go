package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"ftour-be/internal/logger"

	"go.uber.org/zap"
)

const (
	defaultSaveTimeout = 5 * time.Second

	sessionIdleTTL  = 24 * time.Hour
	cleanupInterval = 10 * time.Minute
)

type session struct {
	mu       sync.Mutex
	cart     *Cart
	lastSeen time.Time
}

// Registry owns one cart per session id. Access to a single cart is
// serialized; different sessions never contend beyond the map lookup.
// Sessions idle for longer than sessionIdleTTL are dropped by Run and
// rehydrated from the repository on their next use.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*session
	repo     SnapshotRepository
	timeout  time.Duration
	now      func() time.Time
}

// NewRegistry creates a registry. A nil repo disables persistence.
func NewRegistry(repo SnapshotRepository) *Registry {
	return &Registry{
		sessions: make(map[string]*session),
		repo:     repo,
		timeout:  defaultSaveTimeout,
		now:      time.Now,
	}
}

// With runs fn with exclusive access to the session's cart, rehydrating it
// from the repository on first use.
func (r *Registry) With(ctx context.Context, sessionID string, fn func(*Cart) error) error {
	if sessionID == "" {
		return ErrMissingSession
	}

	s := r.session(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart == nil {
		c, err := r.load(ctx, sessionID)
		if err != nil {
			return err
		}
		s.cart = c
	}
	return fn(s.cart)
}

func (r *Registry) session(sessionID string) *session {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		s = &session{}
		r.sessions[sessionID] = s
	}
	s.lastSeen = r.now()
	return s
}

// Run evicts idle sessions until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.cleanup()
		}
	}
}

func (r *Registry) cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, s := range r.sessions {
		if r.now().Sub(s.lastSeen) <= sessionIdleTTL {
			continue
		}
		// a session held by With is in use whatever its timestamp says
		if !s.mu.TryLock() {
			continue
		}
		delete(r.sessions, id)
		s.mu.Unlock()
		evicted++
	}

	if evicted > 0 {
		logger.L().Debug("idle cart sessions evicted",
			zap.String("layer", "registry"),
			zap.Int("evicted", evicted),
			zap.Int("remaining", len(r.sessions)),
		)
	}
}

func (r *Registry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) load(ctx context.Context, sessionID string) (*Cart, error) {
	if r.repo == nil {
		return New(), nil
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "registry"),
		zap.String("session_id", sessionID),
	)

	c := New(WithObserver(r.persist(sessionID)))
	snap, found, err := r.repo.Load(ctx, sessionID)
	if errors.Is(err, ErrInvalidSnapshot) {
		// the next mutation overwrites the stored row
		log.Warn("discarding undecodable cart snapshot", zap.Error(err))
		return c, nil
	}
	if err != nil {
		return nil, err
	}
	if found {
		if err := c.Restore(snap); err != nil {
			log.Warn("discarding invalid cart snapshot", zap.Error(err))
		}
	}
	return c, nil
}

func (r *Registry) persist(sessionID string) Observer {
	return func(snap Snapshot) {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if err := r.repo.Save(ctx, sessionID, snap); err != nil {
			logger.L().Warn("cart persistence failed",
				zap.String("layer", "registry"),
				zap.String("session_id", sessionID),
				zap.Error(err),
			)
		}
	}
}
