package domain

import (
	"regexp"
	"strings"
	"time"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{1,31}$`)

// Profile owns a link collection and is published at /u/{slug}.
type Profile struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	DisplayName string    `json:"display_name"`
	Bio         string    `json:"bio"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Email       string    `json:"email,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Links       []Link    `json:"links,omitempty"` // Populated for the public page
}

// ProfileInput is the editable part of a profile.
type ProfileInput struct {
	Slug        string `json:"slug"`
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio"`
	AvatarURL   string `json:"avatar_url"`
	Email       string `json:"email"`
}

// Normalize lower-cases and checks the slug and the optional avatar URL.
func (in ProfileInput) Normalize() (ProfileInput, error) {
	in.Slug = strings.ToLower(strings.TrimSpace(in.Slug))
	if !slugPattern.MatchString(in.Slug) {
		return ProfileInput{}, InvalidInput("slug", "%q must be 2-32 characters of a-z, 0-9, '-' or '_'", in.Slug)
	}
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	if in.DisplayName == "" {
		in.DisplayName = in.Slug
	}
	in.AvatarURL = strings.TrimSpace(in.AvatarURL)
	if in.AvatarURL != "" {
		if err := ValidateURL(in.AvatarURL); err != nil {
			return ProfileInput{}, err
		}
	}
	in.Email = strings.TrimSpace(in.Email)
	return in, nil
}
