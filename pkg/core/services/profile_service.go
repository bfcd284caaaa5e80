package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/wadjakorntonsri/go-linkinbio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-linkinbio/pkg/ports"
)

type ProfileService struct {
	repo  ports.ProfileRepository
	links ports.LinkService
}

func NewProfileService(repo ports.ProfileRepository, links ports.LinkService) *ProfileService {
	return &ProfileService{repo: repo, links: links}
}

func (s *ProfileService) CreateProfile(ctx context.Context, in domain.ProfileInput) (*domain.Profile, error) {
	in, err := in.Normalize()
	if err != nil {
		return nil, err
	}

	// Check if slug exists
	if err := s.ensureSlugFree(ctx, in.Slug); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	profile := &domain.Profile{
		ID:          id.String(),
		Slug:        in.Slug,
		DisplayName: in.DisplayName,
		Bio:         in.Bio,
		AvatarURL:   in.AvatarURL,
		Email:       in.Email,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	return s.repo.GetProfile(ctx, id)
}

func (s *ProfileService) GetProfileBySlug(ctx context.Context, slug string) (*domain.Profile, error) {
	return s.repo.GetProfileBySlug(ctx, slug)
}

func (s *ProfileService) UpdateProfile(ctx context.Context, id string, in domain.ProfileInput) (*domain.Profile, error) {
	in, err := in.Normalize()
	if err != nil {
		return nil, err
	}

	profile, err := s.repo.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	// Check slug uniqueness if changed
	if in.Slug != profile.Slug {
		if err := s.ensureSlugFree(ctx, in.Slug); err != nil {
			return nil, err
		}
	}

	profile.Slug = in.Slug
	profile.DisplayName = in.DisplayName
	profile.Bio = in.Bio
	profile.AvatarURL = in.AvatarURL
	profile.Email = in.Email
	profile.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) DeleteProfile(ctx context.Context, id string) error {
	return s.repo.DeleteProfile(ctx, id)
}

func (s *ProfileService) ListProfiles(ctx context.Context, page, limit int, search string) ([]domain.Profile, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	profiles, err := s.repo.ListProfiles(ctx, limit, offset, search)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountProfiles(ctx, search)
	if err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

// PublicPage returns the profile with its enabled links, narrowed by query.
func (s *ProfileService) PublicPage(ctx context.Context, slug, query string) (*domain.Profile, error) {
	profile, err := s.repo.GetProfileBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	links, err := s.links.ListVisible(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	profile.Email = ""
	profile.Links = FilterByTitle(links, query)
	return profile, nil
}

func (s *ProfileService) ensureSlugFree(ctx context.Context, slug string) error {
	existing, err := s.repo.GetProfileBySlug(ctx, slug)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing != nil:
		return errors.Wrapf(domain.ErrConflict, "slug %q is taken", slug)
	}
	return nil
}

var _ ports.ProfileService = (*ProfileService)(nil)
