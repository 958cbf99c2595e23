package main

import (
	"context"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/backoffice/internal/balance"
	"github.com/MrJamesThe3rd/backoffice/internal/nav"
	"github.com/MrJamesThe3rd/backoffice/internal/session"
)

// mountedMsg is the outcome of mounting a screen. It is dropped when id no
// longer matches the latest navigation.
type mountedMsg struct {
	id         string
	path       string
	identity   session.Identity
	toLogin    bool
	notice     string
	redirected bool
	forbidden  bool
}

// navigator records what the session resolver asks of the terminal.
type navigator struct {
	notice  string
	toLogin bool
}

func (n *navigator) Notify(message string) { n.notice = message }
func (n *navigator) RedirectToLogin()      { n.toLogin = true }

type mounter struct {
	resolver *session.Resolver
	gate     *balance.Gate
}

func newMountID() string {
	return uuid.NewString()
}

// mount runs the checks every screen goes through before it is shown. A terminal
// screen change is always a navigation, so a closed period redirects rather than
// blocks.
func (m mounter) mount(ctx context.Context, id, path string) mountedMsg {
	var n navigator

	identity, ok := m.resolver.Mount(ctx, &n)
	if !ok {
		return mountedMsg{id: id, path: path, toLogin: n.toLogin, notice: n.notice}
	}

	out := mountedMsg{id: id, path: path, identity: identity}

	st := m.gate.Check(ctx, identity)
	if balance.Decide(st, path, true) == balance.Redirect {
		out.path = balance.SetupPath
		out.redirected = true
	}

	out.forbidden = !nav.Allowed(identity.Role(), nav.Entries, out.path)

	return out
}
