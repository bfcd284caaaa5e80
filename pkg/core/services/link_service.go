package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"time"

	"github.com/wadjakorntonsri/go-linkinbio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-linkinbio/pkg/ports"
)

// LinkService manages each owner's ordered link collection.
// It does not serialize operations on the same owner.
type LinkService struct {
	links    ports.LinkRepository
	profiles ports.ProfileRepository
	ipSalt   string
}

func NewLinkService(links ports.LinkRepository, profiles ports.ProfileRepository, ipSalt string) *LinkService {
	return &LinkService{links: links, profiles: profiles, ipSalt: ipSalt}
}

// List returns the owner's links sorted by order. An owner without links
// yields an empty slice.
func (s *LinkService) List(ctx context.Context, ownerID string) ([]domain.Link, error) {
	if err := s.ensureOwner(ctx, ownerID); err != nil {
		return nil, err
	}
	links, err := s.links.FetchAll(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if links == nil {
		links = []domain.Link{}
	}
	return links, nil
}

// ListVisible is List restricted to enabled links.
func (s *LinkService) ListVisible(ctx context.Context, ownerID string) ([]domain.Link, error) {
	links, err := s.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return VisibleOnly(links), nil
}

// Create appends a link at the end of the owner's collection.
func (s *LinkService) Create(ctx context.Context, ownerID, title, url string, icon domain.Icon) (*domain.Link, error) {
	title, err := domain.ValidateTitle(title)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateURL(url); err != nil {
		return nil, err
	}
	icon, err = icon.Normalize()
	if err != nil {
		return nil, err
	}

	if err := s.ensureOwner(ctx, ownerID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	link := &domain.Link{
		OwnerID:   ownerID,
		Title:     title,
		URL:       url,
		Icon:      icon,
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.links.Insert(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

// Update applies a partial edit. The order is never changed here.
func (s *LinkService) Update(ctx context.Context, id string, patch domain.LinkPatch) (*domain.Link, error) {
	patch, err := patch.Normalize()
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return s.links.Get(ctx, id)
	}
	return s.links.Patch(ctx, id, patch)
}

// Delete removes the link. Remaining orders are not compacted.
func (s *LinkService) Delete(ctx context.Context, id string) error {
	return s.links.Remove(ctx, id)
}

func (s *LinkService) Toggle(ctx context.Context, id string, enabled bool) (*domain.Link, error) {
	return s.links.Patch(ctx, id, domain.LinkPatch{Enabled: &enabled})
}

// Reorder sets the order of ids[i] to i. Each position is an independent
// write: on failure the collection may be partially reordered and the
// returned error matches domain.ErrReorderFailed.
func (s *LinkService) Reorder(ctx context.Context, ownerID string, ids []string) error {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			return domain.InvalidInput("ids", "empty link id")
		}
		if _, dup := seen[id]; dup {
			return domain.InvalidInput("ids", "link %s listed twice", id)
		}
		seen[id] = struct{}{}
	}

	if err := s.ensureOwner(ctx, ownerID); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	patches := make([]domain.OrderPatch, len(ids))
	for i, id := range ids {
		patches[i] = domain.OrderPatch{ID: id, Order: i}
	}

	var rerr *domain.ReorderError
	for i, err := range s.links.PatchMany(ctx, ownerID, patches) {
		if err == nil {
			continue
		}
		if rerr == nil {
			rerr = &domain.ReorderError{LinkID: ids[i], Position: i, Err: err}
		}
		rerr.Failed++
	}
	if rerr != nil {
		return rerr
	}
	return nil
}

// Resolve returns an enabled link for the public redirect.
func (s *LinkService) Resolve(ctx context.Context, id string) (*domain.Link, error) {
	link, err := s.links.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !link.Enabled {
		return nil, domain.ErrNotFound
	}
	return link, nil
}

// RecordClick counts one click on an enabled link.
func (s *LinkService) RecordClick(ctx context.Context, id, referer, userAgent, ip string) (*domain.Link, error) {
	link, err := s.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}

	visit := &domain.Visit{
		LinkID:    link.ID,
		Referer:   referer,
		UserAgent: userAgent,
		IPHash:    s.hashIP(ip),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.links.RecordVisit(ctx, visit); err != nil {
		return nil, err
	}
	link.ClickCount++
	return link, nil
}

func (s *LinkService) GetLinkStats(ctx context.Context, id string) (*domain.LinkStats, error) {
	if _, err := s.links.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.links.GetLinkStats(ctx, id)
}

// GetOwnerStats sums clicks over the collection and returns the most
// clicked links first.
func (s *LinkService) GetOwnerStats(ctx context.Context, ownerID string, limit int) (*domain.OwnerStats, error) {
	if limit < 1 {
		limit = 10
	}
	links, err := s.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	stats := &domain.OwnerStats{TopLinks: []domain.Link{}}
	for _, l := range links {
		stats.TotalClicks += l.ClickCount
	}

	top := make([]domain.Link, len(links))
	copy(top, links)
	sort.SliceStable(top, func(i, j int) bool { return top[i].ClickCount > top[j].ClickCount })
	if len(top) > limit {
		top = top[:limit]
	}
	stats.TopLinks = append(stats.TopLinks, top...)
	return stats, nil
}

func (s *LinkService) ensureOwner(ctx context.Context, ownerID string) error {
	if strings.TrimSpace(ownerID) == "" {
		return domain.ErrNotFound
	}
	_, err := s.profiles.GetProfile(ctx, ownerID)
	return err
}

func (s *LinkService) hashIP(ip string) string {
	if ip == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(s.ipSalt + ip))
	return hex.EncodeToString(sum[:])
}

var _ ports.LinkService = (*LinkService)(nil)
