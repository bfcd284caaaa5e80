package ports

import (
	"context"

	"github.com/wadjakorntonsri/go-linkinbio/pkg/core/domain"
)

// LinkRepository is the persistence collaborator for link collections.
// Failed calls return errors matching domain.ErrPersistence; unknown ids
// return domain.ErrNotFound.
type LinkRepository interface {
	FetchAll(ctx context.Context, ownerID string) ([]domain.Link, error) // sorted by order
	Get(ctx context.Context, id string) (*domain.Link, error)
	Insert(ctx context.Context, link *domain.Link) error // assigns ID and Order
	Patch(ctx context.Context, id string, patch domain.LinkPatch) (*domain.Link, error)
	Remove(ctx context.Context, id string) error
	// PatchMany writes each position independently and returns one result per
	// patch. Ids not owned by ownerID match nothing and report success.
	PatchMany(ctx context.Context, ownerID string, patches []domain.OrderPatch) []error

	// Stats
	RecordVisit(ctx context.Context, visit *domain.Visit) error
	GetLinkStats(ctx context.Context, linkID string) (*domain.LinkStats, error)
}

// ProfileRepository stores link collection owners.
type ProfileRepository interface {
	CreateProfile(ctx context.Context, profile *domain.Profile) error
	GetProfile(ctx context.Context, id string) (*domain.Profile, error)
	GetProfileBySlug(ctx context.Context, slug string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, profile *domain.Profile) error
	DeleteProfile(ctx context.Context, id string) error // Removes links and visits too
	ListProfiles(ctx context.Context, limit, offset int, search string) ([]domain.Profile, error)
	CountProfiles(ctx context.Context, search string) (int64, error)
}

// LinkService is the ordered link collection manager
type LinkService interface {
	List(ctx context.Context, ownerID string) ([]domain.Link, error)
	ListVisible(ctx context.Context, ownerID string) ([]domain.Link, error)
	Create(ctx context.Context, ownerID, title, url string, icon domain.Icon) (*domain.Link, error)
	Update(ctx context.Context, id string, patch domain.LinkPatch) (*domain.Link, error)
	Delete(ctx context.Context, id string) error
	Toggle(ctx context.Context, id string, enabled bool) (*domain.Link, error)
	Reorder(ctx context.Context, ownerID string, ids []string) error

	Resolve(ctx context.Context, id string) (*domain.Link, error) // enabled links only

	// Stats
	RecordClick(ctx context.Context, id, referer, userAgent, ip string) (*domain.Link, error)
	GetLinkStats(ctx context.Context, id string) (*domain.LinkStats, error)
	GetOwnerStats(ctx context.Context, ownerID string, limit int) (*domain.OwnerStats, error)
}

// ProfileService defines business logic for profiles and the public page
type ProfileService interface {
	CreateProfile(ctx context.Context, in domain.ProfileInput) (*domain.Profile, error)
	GetProfile(ctx context.Context, id string) (*domain.Profile, error)
	GetProfileBySlug(ctx context.Context, slug string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, id string, in domain.ProfileInput) (*domain.Profile, error)
	DeleteProfile(ctx context.Context, id string) error
	ListProfiles(ctx context.Context, page, limit int, search string) ([]domain.Profile, int64, error)
	PublicPage(ctx context.Context, slug, query string) (*domain.Profile, error)
}
