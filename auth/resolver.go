package auth

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/cardline/portal-rest/http_errors"
)

// Account is the directory record behind the demo login path and the
// account-status lookup. The services layer adapts its user model to this.
type Account struct {
	ID       string
	Name     string
	Email    string
	Roles    []string
	IsLocked bool
}

// AccountDirectory looks up portal accounts. FindByEmail returns (nil, nil)
// when no account matches; an error means the lookup itself failed.
type AccountDirectory interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
}

// Provisioner registers an account with the provisioning collaborator.
// EnsureAccount is expected to be idempotent on the collaborator's side; the
// resolver only guarantees it tolerates failure.
type Provisioner interface {
	EnsureAccount(ctx context.Context, userID, email string) error
}

type ResolverOptions struct {
	// IdentityURL is the identity endpoint, e.g. https://portal.example.com/.auth/me
	IdentityURL string
	// LogoutURL is the identity provider's logout endpoint. Best effort only.
	LogoutURL string
	// HTTPClient defaults to a client with a 10s timeout.
	HTTPClient *http.Client
	// Directory backs the demo login path and the account-status lookup.
	// Optional: without it the demo login is disabled and isLocked stays false.
	Directory AccountDirectory
	// Provisioner, when set, is called after each user's first successful
	// resolution. Optional.
	Provisioner Provisioner
}

// Resolver turns the identity provider's response into an AuthState. All
// identity-provider failures are absorbed here: the only error Resolve's
// callers ever see from this type is the demo login's credential rejection.
type Resolver struct {
	opts        ResolverOptions
	client      *http.Client
	mu          sync.Mutex
	state       AuthState
	provisioned map[string]struct{}
}

func NewResolver(opts ResolverOptions) *Resolver {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &Resolver{
		opts:        opts,
		client:      client,
		state:       AuthState{Loading: true},
		provisioned: make(map[string]struct{}),
	}
}

// State returns the current snapshot. Before the first Resolve completes it
// reports Loading, so the routing layer can hold off on redirect decisions.
func (r *Resolver) State() AuthState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Resolver) setState(state AuthState) AuthState {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = state
	return state
}

// Resolve queries the identity endpoint and derives the AuthState. It never
// returns an error: an unreachable endpoint, a non-JSON response or an
// absent client principal all degrade to the unauthenticated state, which
// lets the caller fall through to the demo login.
func (r *Resolver) Resolve(ctx context.Context) AuthState {
	cp := r.fetchClientPrincipal(ctx)
	if cp == nil {
		return r.setState(AuthState{})
	}

	principal, err := NewPrincipal(cp)
	if err != nil {
		log.Warnf("identity claims malformed for user %s: %v", cp.UserID, err)
	}

	if r.opts.Directory != nil && principal.Email != "" {
		account, lookupErr := r.opts.Directory.FindByEmail(ctx, principal.Email)
		if lookupErr != nil {
			log.Warnf("account status lookup failed for %s: %v", principal.Email, lookupErr)
		} else if account != nil {
			principal.IsLocked = account.IsLocked
		}
	}

	state := r.setState(AuthState{Principal: principal})
	r.provision(ctx, principal.ID, principal.Email)
	return state
}

func (r *Resolver) fetchClientPrincipal(ctx context.Context) *ClientPrincipal {
	if r.opts.IdentityURL == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.opts.IdentityURL, nil)
	if err != nil {
		log.Warnf("identity request failed: %v", err)
		return nil
	}

	res, err := r.client.Do(req)
	if err != nil {
		log.Infof("identity endpoint unreachable, falling back to local auth: %v", err)
		return nil
	}
	defer res.Body.Close()

	// A non-JSON content type means no identity provider is configured in
	// front of us (local development serves the SPA's HTML here instead).
	contentType := res.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		log.Infof("identity endpoint returned %q, falling back to local auth", contentType)
		return nil
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		log.Warnf("identity response read failed: %v", err)
		return nil
	}

	payload, err := ParseIdentityPayload(body)
	if err != nil {
		log.Warnf("identity response is not valid JSON: %v", err)
		return nil
	}

	return payload.ClientPrincipal
}

// provision registers the account with the provisioning collaborator once
// per user per resolver lifetime. The resolver is shared across requests, so
// the guard must be keyed by user; create-if-absent on the collaborator's
// side covers process restarts. Failures are logged and never retried;
// sign-in must not block on this call.
func (r *Resolver) provision(ctx context.Context, userID, email string) {
	if r.opts.Provisioner == nil || userID == "" {
		return
	}

	r.mu.Lock()
	if _, done := r.provisioned[userID]; done {
		r.mu.Unlock()
		return
	}
	r.provisioned[userID] = struct{}{}
	r.mu.Unlock()

	if err := r.opts.Provisioner.EnsureAccount(ctx, userID, email); err != nil {
		log.Warnf("account provisioning failed for %s: %v", userID, err)
	}
}

// Login is the local/demo login path used when no identity provider is
// available. It is a development fallback, not a security boundary: any
// password is accepted for an existing, unlocked account. A missing account
// and a locked account produce the same rejection.
func (r *Resolver) Login(ctx context.Context, email, password string) (*Principal, error) {
	if r.opts.Directory == nil {
		return nil, http_errors.InvalidCredentialsError()
	}

	account, err := r.opts.Directory.FindByEmail(ctx, email)
	if err != nil {
		log.Errorf("account lookup failed during login: %v", err)
		return nil, http_errors.InvalidCredentialsError()
	}

	if account == nil || account.IsLocked {
		return nil, http_errors.InvalidCredentialsError()
	}

	principal := &Principal{
		ID:          account.ID,
		DisplayName: account.Name,
		Email:       account.Email,
		Roles:       dedupe(account.Roles),
	}

	r.setState(AuthState{Principal: principal})
	r.provision(ctx, principal.ID, principal.Email)
	return principal, nil
}

// Logout clears the local session. The identity provider's logout endpoint
// is notified best effort; the local state is gone either way.
func (r *Resolver) Logout(ctx context.Context) {
	if r.opts.LogoutURL != "" {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.opts.LogoutURL, nil)
		if err == nil {
			res, doErr := r.client.Do(req)
			if doErr != nil {
				log.Infof("identity provider logout failed, clearing local state only: %v", doErr)
			} else {
				if res.StatusCode >= 300 {
					log.Infof("identity provider logout returned %d, clearing local state only", res.StatusCode)
				}
				res.Body.Close()
			}
		}
	}

	r.setState(AuthState{})
}
