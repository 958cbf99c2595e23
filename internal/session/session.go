// Package session resolves who is using the dashboard.
package session

import (
	"context"
	"errors"
	"log/slog"

	"github.com/MrJamesThe3rd/backoffice/internal/api"
	"github.com/MrJamesThe3rd/backoffice/internal/role"
)

// SupersededNotice is shown once when another login invalidated the session.
const SupersededNotice = "Your session ended because your account signed in from another location."

// LoginPath is the entry point unauthenticated users are sent to.
const LoginPath = "/login"

//go:generate mockgen -source=session.go -destination=session_mock.go -package=session
type IdentitySource interface {
	Me(ctx context.Context) (*api.User, error)
}

// Navigator carries out what a failed resolution requires from the front end.
type Navigator interface {
	Notify(message string)
	RedirectToLogin()
}

// Identity is the authenticated user. It is built once per shell mount and only
// read afterwards; a role change needs a new resolution.
type Identity struct {
	id   string
	name string
	role role.Role
}

func NewIdentity(id, name string, r role.Role) Identity {
	return Identity{id: id, name: name, role: r}
}

func (i Identity) ID() string      { return i.id }
func (i Identity) Name() string    { return i.name }
func (i Identity) Role() role.Role { return i.role }

// ReadOnly reports whether mutating affordances must be hidden for this user.
func (i Identity) ReadOnly() bool {
	return role.IsReadOnly(i.role)
}

// Kind tells the outcome of a resolution apart.
type Kind int

const (
	Unauthenticated Kind = iota
	Authenticated
	SupersededElsewhere
)

func (k Kind) String() string {
	switch k {
	case Authenticated:
		return "authenticated"
	case SupersededElsewhere:
		return "superseded"
	}

	return "unauthenticated"
}

// Status is the result of Resolve. Identity is only set when Kind is Authenticated.
type Status struct {
	Kind     Kind
	Identity Identity
}

type Resolver struct {
	source IdentitySource
}

func NewResolver(source IdentitySource) *Resolver {
	return &Resolver{source: source}
}

// Resolve asks the API who the current session belongs to. Nothing is cached, so a
// revoked session is noticed on the next mount.
func (r *Resolver) Resolve(ctx context.Context) Status {
	u, err := r.source.Me(ctx)
	if err == nil {
		return Status{Kind: Authenticated, Identity: NewIdentity(u.ID, u.Name, u.Role)}
	}

	if api.IsSuperseded(err) {
		return Status{Kind: SupersededElsewhere}
	}

	if !errors.Is(err, api.ErrUnauthorized) {
		slog.Warn("resolving session failed", "error", err)
	}

	return Status{Kind: Unauthenticated}
}

// Mount resolves the session and performs the redirect a failure calls for. The
// notice is only raised for a superseded session.
func (r *Resolver) Mount(ctx context.Context, nav Navigator) (Identity, bool) {
	st := r.Resolve(ctx)

	switch st.Kind {
	case Authenticated:
		return st.Identity, true
	case SupersededElsewhere:
		nav.Notify(SupersededNotice)
	}

	nav.RedirectToLogin()

	return Identity{}, false
}

type identityKey struct{}

// WithIdentity returns a context carrying id for the rest of the mount.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity stored by WithIdentity.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
