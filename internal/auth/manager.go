package auth

import (
	"context"
	"log"
	"sync"
	"time"

	apperrors "eatfit/internal/errors"
	"eatfit/internal/model"
	"eatfit/internal/session"
)

// Gateway is the slice of the API client the auth manager needs.
type Gateway interface {
	Login(ctx context.Context, creds model.Credentials) (model.Token, error)
	Signup(ctx context.Context, input model.SignupInput) (*model.UserProfile, error)
	CurrentUser(ctx context.Context) (*model.UserProfile, error)
	UpdateCurrentUser(ctx context.Context, patch model.ProfileUpdate) (*model.UserProfile, error)
	SetToken(token string)
	ClearToken()
}

// Snapshot is the observable auth state at a point in time. IsAuthenticated
// with a nil User means the session is provisional: a token exists but the
// profile has not been fetched (or the fetch failed non-fatally).
type Snapshot struct {
	IsAuthenticated bool
	User            *model.UserProfile
	Loading         bool
}

// Manager owns the session lifecycle. Every mutation funnels through the
// named transitions (Bootstrap, Login, Signup, Logout, RefreshProfile,
// UpdateProfile); subscribers get a snapshot after each change. Callers are
// expected to await one session-mutating call before issuing the next; the
// mutex only guards snapshot reads, it does not serialize transitions.
type Manager struct {
	api   Gateway
	store session.Store
	now   func() time.Time

	mu   sync.RWMutex
	snap Snapshot
	subs []func(Snapshot)
}

// NewManager creates a manager over the given API client and session store.
func NewManager(api Gateway, store session.Store) *Manager {
	return &Manager{api: api, store: store, now: time.Now}
}

// Snapshot returns the current auth state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap
}

// Subscribe registers fn to be called after every state change.
func (m *Manager) Subscribe(fn func(Snapshot)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// Bootstrap restores the session persisted by a previous process. A stored,
// unexpired token authenticates optimistically with the cached profile
// before a refetch reconciles against the server; fetch failures other than
// 401 keep the optimistic state so a dead network never blocks startup.
func (m *Manager) Bootstrap(ctx context.Context) {
	m.setState(func(s *Snapshot) { s.Loading = true })

	sess, err := m.store.Load()
	if err != nil {
		log.Printf("session restore: %v", err)
	}

	if sess.Token == "" {
		m.setState(func(s *Snapshot) { *s = Snapshot{} })
		return
	}
	if TokenExpired(sess.Token, m.now()) {
		if err := m.store.Clear(); err != nil {
			log.Printf("session clear: %v", err)
		}
		m.setState(func(s *Snapshot) { *s = Snapshot{} })
		return
	}

	m.api.SetToken(sess.Token)
	m.setState(func(s *Snapshot) {
		*s = Snapshot{IsAuthenticated: true, User: sess.Profile, Loading: true}
	})

	profile, err := m.api.CurrentUser(ctx)
	switch {
	case err == nil:
		m.persistProfile(profile)
		m.setState(func(s *Snapshot) {
			s.User = profile
			s.Loading = false
		})
	case apperrors.IsAuth(err):
		// the server rejected the stored token; demote
		m.Logout()
	default:
		m.setState(func(s *Snapshot) { s.Loading = false })
	}
}

// Login authenticates, persists the token, and eagerly fetches the profile.
// On failure the state stays Unauthenticated and the store is untouched.
func (m *Manager) Login(ctx context.Context, creds model.Credentials) error {
	m.setState(func(s *Snapshot) { s.Loading = true })

	tok, err := m.api.Login(ctx, creds)
	if err != nil {
		m.setState(func(s *Snapshot) { *s = Snapshot{} })
		return err
	}

	m.api.SetToken(tok.AccessToken)
	if err := m.store.SaveToken(tok.AccessToken); err != nil {
		log.Printf("session persist: %v", err)
	}
	m.setState(func(s *Snapshot) {
		*s = Snapshot{IsAuthenticated: true, Loading: true}
	})

	profile, err := m.api.CurrentUser(ctx)
	if err != nil {
		// tolerated: authenticated with the profile still unknown
		m.setState(func(s *Snapshot) { s.Loading = false })
		return nil
	}
	m.persistProfile(profile)
	m.setState(func(s *Snapshot) {
		s.User = profile
		s.Loading = false
	})
	return nil
}

// Signup creates the account and chains a login with the same credentials;
// the persisted token always comes from the login call.
func (m *Manager) Signup(ctx context.Context, input model.SignupInput) error {
	m.setState(func(s *Snapshot) { s.Loading = true })

	if _, err := m.api.Signup(ctx, input); err != nil {
		m.setState(func(s *Snapshot) { *s = Snapshot{} })
		return err
	}
	return m.Login(ctx, model.Credentials{Email: input.Email, Password: input.Password})
}

// Logout drops the in-memory user, the attached token, and the persisted
// session. It is best-effort and idempotent: a storage failure is logged
// and the transition to Unauthenticated happens regardless.
func (m *Manager) Logout() {
	m.api.ClearToken()
	if err := m.store.Clear(); err != nil {
		log.Printf("session clear: %v", err)
	}
	m.setState(func(s *Snapshot) { *s = Snapshot{} })
}

// RefreshProfile refetches the profile from the server. A 401 demotes to
// Unauthenticated; other failures keep the current state.
func (m *Manager) RefreshProfile(ctx context.Context) error {
	if !m.Snapshot().IsAuthenticated {
		return apperrors.ErrNoSession
	}
	m.setState(func(s *Snapshot) { s.Loading = true })

	profile, err := m.api.CurrentUser(ctx)
	if err != nil {
		if apperrors.IsAuth(err) {
			m.Logout()
		} else {
			m.setState(func(s *Snapshot) { s.Loading = false })
		}
		return err
	}

	m.persistProfile(profile)
	m.setState(func(s *Snapshot) {
		s.User = profile
		s.Loading = false
	})
	return nil
}

// UpdateProfile sends a partial update and adopts the server's response as
// the new cached profile.
func (m *Manager) UpdateProfile(ctx context.Context, patch model.ProfileUpdate) error {
	if !m.Snapshot().IsAuthenticated {
		return apperrors.ErrNoSession
	}
	m.setState(func(s *Snapshot) { s.Loading = true })

	profile, err := m.api.UpdateCurrentUser(ctx, patch)
	if err != nil {
		m.setState(func(s *Snapshot) { s.Loading = false })
		return err
	}

	m.persistProfile(profile)
	m.setState(func(s *Snapshot) {
		s.User = profile
		s.Loading = false
	})
	return nil
}

func (m *Manager) persistProfile(profile *model.UserProfile) {
	if err := m.store.SaveProfile(profile); err != nil {
		log.Printf("profile cache persist: %v", err)
	}
}

// setState mutates the snapshot under lock, then notifies subscribers
// outside it.
func (m *Manager) setState(fn func(*Snapshot)) {
	m.mu.Lock()
	fn(&m.snap)
	snap := m.snap
	subs := make([]func(Snapshot), len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}
