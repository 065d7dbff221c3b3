// Package session owns the authentication state of one dashboard user: who
// is logged in, which tokens the gateway should send, and the transitions
// between anonymous and authenticated.
package session

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jrsteele09/go-inventory-dashboard/credentials"
	"github.com/jrsteele09/go-inventory-dashboard/gateway"
	apperrors "github.com/jrsteele09/go-inventory-dashboard/internal/errors"
	"github.com/jrsteele09/go-inventory-dashboard/metrics"
	"github.com/jrsteele09/go-inventory-dashboard/users"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// User facing messages
const (
	MsgFieldsRequired = "Por favor completa todos los campos"
	MsgLoginFailed    = "Error al iniciar sesión"
)

// Gateway is the part of the backend client the store needs.
type Gateway interface {
	ObtainToken(ctx context.Context, email, password string) (credentials.Pair, error)
	RefreshToken(ctx context.Context, refresh string) (string, error)
	GetUserProfile(ctx context.Context) (*users.Profile, error)
}

type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// Snapshot is a copy of the session state for rendering.
type Snapshot struct {
	State        State
	User         *users.Profile
	AccessToken  string
	RefreshToken string
	Loading      bool
	Error        string
}

func (s Snapshot) IsAuthenticated() bool {
	return s.State == Authenticated
}

// AccessExpiry is the exp claim of the access token, if it has one.
func (s Snapshot) AccessExpiry() (time.Time, bool) {
	tok := credentials.Pair{Access: s.AccessToken, Refresh: s.RefreshToken}.Token()
	return tok.Expiry, !tok.Expiry.IsZero()
}

// Store holds one session. It is safe for concurrent use; Login and
// CheckAuth never interleave.
type Store struct {
	gw      Gateway
	vault   *credentials.Vault
	metrics *metrics.Recorder

	mu   sync.RWMutex
	snap Snapshot

	// serializes credential transitions
	flow   sync.Mutex
	logins singleflight.Group

	checkOnce sync.Once
	lastSeen  atomic.Int64
}

func NewStore(gw Gateway, vault *credentials.Vault, m *metrics.Recorder) *Store {
	s := &Store{gw: gw, vault: vault, metrics: m}
	s.Touch()
	return s
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.snap
	if snap.User != nil {
		u := *snap.User
		snap.User = &u
	}
	return snap
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.State == Authenticated
}

func (s *Store) update(fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.snap)
}

func (s *Store) reset(errMsg string) {
	s.update(func(sn *Snapshot) {
		*sn = Snapshot{Error: errMsg}
	})
}

// Touch marks the store as used now
func (s *Store) Touch() {
	s.lastSeen.Store(time.Now().UnixNano())
}

func (s *Store) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// Login exchanges the credentials for tokens, persists them, loads the
// profile and only then commits the authenticated state. Empty fields are
// rejected before any network call.
//
// Concurrent calls with the same credentials share one attempt. A call with
// different credentials waits for the running one and then makes its own.
func (s *Store) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		s.update(func(sn *Snapshot) { sn.Error = MsgFieldsRequired })
		s.metrics.ObserveLogin(metrics.LoginInvalid)
		return apperrors.NewValidation("", MsgFieldsRequired)
	}

	_, err, _ := s.logins.Do(email+"\x00"+password, func() (any, error) {
		s.flow.Lock()
		defer s.flow.Unlock()
		return nil, s.login(ctx, email, password)
	})
	return err
}

func (s *Store) login(ctx context.Context, email, password string) error {
	s.update(func(sn *Snapshot) {
		sn.Loading = true
		sn.Error = ""
	})

	pair, err := s.gw.ObtainToken(ctx, email, password)
	if err != nil {
		// a 401 has already wiped storage in the gateway
		return s.loginFailed(ctx, err, apperrors.Is(err, apperrors.ErrUnauthorized))
	}
	if err := s.vault.Save(ctx, pair); err != nil {
		return s.loginFailed(ctx, err, true)
	}

	profile, err := s.gw.GetUserProfile(ctx)
	if err != nil {
		return s.loginFailed(ctx, err, true)
	}

	s.update(func(sn *Snapshot) {
		*sn = Snapshot{
			State:        Authenticated,
			User:         profile,
			AccessToken:  pair.Access,
			RefreshToken: pair.Refresh,
		}
	})
	s.metrics.ObserveLogin(metrics.LoginSuccess)
	log.Ctx(ctx).Info().Int64("user_id", profile.ID).Msg("login succeeded")
	return nil
}

// loginFailed records the error. When wipe is set the session falls back to
// anonymous and whatever was persisted is removed.
func (s *Store) loginFailed(ctx context.Context, err error, wipe bool) error {
	msg := gateway.Detail(err)
	if msg == "" {
		msg = MsgLoginFailed
	}
	if wipe {
		if clearErr := s.vault.Clear(ctx); clearErr != nil {
			log.Ctx(ctx).Error().Err(clearErr).Msg("clear credentials after failed login")
		}
		s.reset(msg)
	} else {
		s.update(func(sn *Snapshot) {
			sn.Loading = false
			sn.Error = msg
		})
	}
	s.metrics.ObserveLogin(metrics.LoginFailed)
	log.Ctx(ctx).Warn().Err(err).Msg("login failed")
	return err
}

// Logout clears both stored tokens and resets the state. It is safe to call
// in any state.
func (s *Store) Logout(ctx context.Context) error {
	s.flow.Lock()
	defer s.flow.Unlock()

	err := s.vault.Clear(ctx)
	s.reset("")
	return err
}

// CheckAuth restores the session from storage. Without a stored token it
// stays anonymous and makes no call. With one it is optimistically
// authenticated while the profile loads; any failure clears storage.
func (s *Store) CheckAuth(ctx context.Context) error {
	s.flow.Lock()
	defer s.flow.Unlock()

	s.update(func(sn *Snapshot) { sn.Loading = true })

	pair, ok, err := s.vault.Load(ctx)
	if err != nil {
		s.reset("")
		return err
	}
	if !ok {
		s.reset("")
		return nil
	}

	s.update(func(sn *Snapshot) {
		sn.State = Authenticated
		sn.User = nil
		sn.AccessToken = pair.Access
		sn.RefreshToken = pair.Refresh
	})

	profile, err := s.gw.GetUserProfile(ctx)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("stored session rejected")
		if clearErr := s.vault.Clear(ctx); clearErr != nil {
			log.Ctx(ctx).Error().Err(clearErr).Msg("clear credentials after failed check")
		}
		s.reset("")
		return err
	}

	s.update(func(sn *Snapshot) {
		sn.User = profile
		sn.Loading = false
	})
	return nil
}

// ensureChecked runs CheckAuth once per store, the first time it is handed
// out.
func (s *Store) ensureChecked(ctx context.Context) {
	s.checkOnce.Do(func() {
		if err := s.CheckAuth(ctx); err != nil {
			log.Ctx(ctx).Debug().Err(err).Msg("check auth")
		}
	})
}

// SetUser replaces the profile and nothing else.
func (s *Store) SetUser(profile *users.Profile) {
	s.update(func(sn *Snapshot) { sn.User = profile })
}

// Refresh trades the stored refresh token for a new access token. It is an
// explicit action, never triggered by a 401.
func (s *Store) Refresh(ctx context.Context) error {
	s.flow.Lock()
	defer s.flow.Unlock()

	pair, ok, err := s.vault.Load(ctx)
	if err != nil {
		return err
	}
	if !ok || pair.Refresh == "" {
		return apperrors.ErrNoCredentials
	}

	access, err := s.gw.RefreshToken(ctx, pair.Refresh)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUnauthorized) {
			s.reset("")
		}
		return err
	}
	if err := s.vault.SetAccessToken(ctx, access); err != nil {
		return err
	}
	s.update(func(sn *Snapshot) { sn.AccessToken = access })
	return nil
}
