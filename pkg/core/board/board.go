// Package board keeps an optimistic local copy of one owner's link
// collection for an admin session.
//
// Edits are applied to the local copy before they are persisted. A failed
// reorder re-fetches the authoritative list; any other failure leaves the
// local copy as is and marks the board stale until the next Load.
package board

import (
	"context"
	"slices"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/go-linkinbio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-linkinbio/pkg/core/services"
	"github.com/wadjakorntonsri/go-linkinbio/pkg/ports"
)

type Board struct {
	svc     ports.LinkService
	ownerID string
	log     zerolog.Logger

	mu    sync.Mutex
	links []domain.Link
	stale bool
}

func New(svc ports.LinkService, ownerID string, log zerolog.Logger) *Board {
	return &Board{
		svc:     svc,
		ownerID: ownerID,
		log:     log.With().Str("owner_id", ownerID).Logger(),
		stale:   true,
	}
}

// Load replaces the local copy with the persisted collection.
func (b *Board) Load(ctx context.Context) error {
	links, err := b.svc.List(ctx, b.ownerID)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.links = links
	b.stale = false
	b.mu.Unlock()
	return nil
}

// Links returns a copy of the local collection in display order.
func (b *Board) Links() []domain.Link {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.links)
}

func (b *Board) Visible() []domain.Link {
	return services.VisibleOnly(b.Links())
}

func (b *Board) Search(query string) []domain.Link {
	return services.FilterByTitle(b.Links(), query)
}

// Stale reports whether the local copy may differ from the store.
func (b *Board) Stale() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stale
}

// Add creates a link and appends the stored record locally.
func (b *Board) Add(ctx context.Context, title, url string, icon domain.Icon) (*domain.Link, error) {
	link, err := b.svc.Create(ctx, b.ownerID, title, url, icon)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	b.links = append(b.links, *link)
	b.mu.Unlock()
	return link, nil
}

// Edit applies patch locally, then persists it.
func (b *Board) Edit(ctx context.Context, id string, patch domain.LinkPatch) error {
	patch, err := patch.Normalize()
	if err != nil {
		return err
	}
	if err := b.apply(id, patch.Apply); err != nil {
		return err
	}

	link, err := b.svc.Update(ctx, id, patch)
	return b.settle(id, link, err, "edit")
}

func (b *Board) Toggle(ctx context.Context, id string, enabled bool) error {
	if err := b.apply(id, func(l *domain.Link) { l.Enabled = enabled }); err != nil {
		return err
	}

	link, err := b.svc.Toggle(ctx, id, enabled)
	return b.settle(id, link, err, "toggle")
}

// Remove drops the link locally, then deletes it.
func (b *Board) Remove(ctx context.Context, id string) error {
	b.mu.Lock()
	i := b.indexOf(id)
	if i < 0 {
		b.mu.Unlock()
		return errors.Wrapf(domain.ErrNotFound, "link %s", id)
	}
	b.links = slices.Delete(b.links, i, i+1)
	b.mu.Unlock()

	return b.settle(id, nil, b.svc.Delete(ctx, id), "remove")
}

// Move reorders the local copy to ids, then persists the order. On failure
// the local copy is re-fetched and the reorder error returned.
func (b *Board) Move(ctx context.Context, ids []string) error {
	b.mu.Lock()
	if len(ids) != len(b.links) {
		b.mu.Unlock()
		return domain.InvalidInput("ids", "expected %d ids, got %d", len(b.links), len(ids))
	}
	moved := make([]domain.Link, 0, len(ids))
	for pos, id := range ids {
		i := b.indexOf(id)
		if i < 0 {
			b.mu.Unlock()
			return errors.Wrapf(domain.ErrNotFound, "link %s", id)
		}
		l := b.links[i]
		l.Order = pos
		moved = append(moved, l)
	}
	b.links = moved
	b.mu.Unlock()

	err := b.svc.Reorder(ctx, b.ownerID, ids)
	if err == nil {
		return nil
	}

	b.log.Warn().Err(err).Msg("reorder failed, resyncing")
	if loadErr := b.Load(ctx); loadErr != nil {
		b.markStale()
		b.log.Error().Err(loadErr).Msg("resync after reorder failed")
	}
	return err
}

// MoveTo moves one link to position pos and persists the full order.
func (b *Board) MoveTo(ctx context.Context, id string, pos int) error {
	b.mu.Lock()
	order := make([]string, 0, len(b.links))
	for _, l := range b.links {
		if l.ID != id {
			order = append(order, l.ID)
		}
	}
	found := len(order) != len(b.links)
	b.mu.Unlock()

	if !found {
		return errors.Wrapf(domain.ErrNotFound, "link %s", id)
	}
	pos = max(0, min(pos, len(order)))
	order = slices.Insert(order, pos, id)
	return b.Move(ctx, order)
}

func (b *Board) apply(id string, fn func(*domain.Link)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.indexOf(id)
	if i < 0 {
		return errors.Wrapf(domain.ErrNotFound, "link %s", id)
	}
	fn(&b.links[i])
	return nil
}

// settle records the outcome of a persisted edit. Successful writes replace
// the local record with the stored one.
func (b *Board) settle(id string, stored *domain.Link, err error, op string) error {
	if err != nil {
		b.markStale()
		b.log.Warn().Err(err).Str("link_id", id).Str("op", op).Msg("optimistic update not persisted")
		return err
	}
	if stored != nil {
		b.mu.Lock()
		if i := b.indexOf(id); i >= 0 {
			b.links[i] = *stored
		}
		b.mu.Unlock()
	}
	return nil
}

func (b *Board) markStale() {
	b.mu.Lock()
	b.stale = true
	b.mu.Unlock()
}

// indexOf must be called with mu held.
func (b *Board) indexOf(id string) int {
	return slices.IndexFunc(b.links, func(l domain.Link) bool { return l.ID == id })
}
