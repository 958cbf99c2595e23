package view

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/backoffice/internal/api"
)

// Fetches runs the remote reads behind one page concurrently. A failed read leaves
// its section empty and is reported by Wait; only a lost session fails the page.
type Fetches struct {
	g       *errgroup.Group
	ctx     context.Context
	mountID string

	mu     sync.Mutex
	failed []string
}

func NewFetches(ctx context.Context, mountID string) *Fetches {
	g, ctx := errgroup.WithContext(ctx)
	return &Fetches{g: g, ctx: ctx, mountID: mountID}
}

// Go starts fetch for the named page section.
func (f *Fetches) Go(section string, fetch func(ctx context.Context) error) {
	f.g.Go(func() error {
		err := fetch(f.ctx)
		if err == nil || errors.Is(err, api.ErrUnauthorized) {
			return err
		}

		slog.Warn("page section unavailable", "section", section, "error", err, "mount_id", f.mountID)

		f.mu.Lock()
		f.failed = append(f.failed, section)
		f.mu.Unlock()

		return nil
	})
}

// Wait blocks until every fetch returned. It yields the sections that could not be
// loaded, sorted, and the session error that should abort the page, if any.
func (f *Fetches) Wait() ([]string, error) {
	err := f.g.Wait()

	f.mu.Lock()
	defer f.mu.Unlock()

	slices.Sort(f.failed)

	return f.failed, err
}
