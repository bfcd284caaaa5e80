package domain

import (
	"regexp"
	"strings"
	"time"
)

// urlPattern is the rule every link and custom icon URL must satisfy.
var urlPattern = regexp.MustCompile(`^https?://.+\..+`)

// Link is one entry of an owner's ordered collection.
type Link struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	Title      string    `json:"title"`
	URL        string    `json:"url"`
	Icon       Icon      `json:"icon"`
	Order      int       `json:"order"`
	Enabled    bool      `json:"enabled"`
	ClickCount int64     `json:"click_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// LinkPatch carries the fields of an edit. Nil fields are left unchanged.
type LinkPatch struct {
	Title   *string `json:"title,omitempty"`
	URL     *string `json:"url,omitempty"`
	Icon    *Icon   `json:"icon,omitempty"`
	Enabled *bool   `json:"enabled,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p LinkPatch) IsEmpty() bool {
	return p.Title == nil && p.URL == nil && p.Icon == nil && p.Enabled == nil
}

// Normalize validates every supplied field and returns the patch with the
// title trimmed and the icon normalized. Any invalid field rejects the patch.
func (p LinkPatch) Normalize() (LinkPatch, error) {
	out := p
	if p.Title != nil {
		title, err := ValidateTitle(*p.Title)
		if err != nil {
			return LinkPatch{}, err
		}
		out.Title = &title
	}
	if p.URL != nil {
		if err := ValidateURL(*p.URL); err != nil {
			return LinkPatch{}, err
		}
	}
	if p.Icon != nil {
		icon, err := p.Icon.Normalize()
		if err != nil {
			return LinkPatch{}, err
		}
		out.Icon = &icon
	}
	return out, nil
}

// Apply copies the supplied fields onto l.
func (p LinkPatch) Apply(l *Link) {
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.URL != nil {
		l.URL = *p.URL
	}
	if p.Icon != nil {
		l.Icon = *p.Icon
	}
	if p.Enabled != nil {
		l.Enabled = *p.Enabled
	}
}

// OrderPatch assigns a new position to one link during a reorder.
type OrderPatch struct {
	ID    string
	Order int
}

// ValidateURL checks raw against the absolute http(s) URL rule.
func ValidateURL(raw string) error {
	if !urlPattern.MatchString(raw) {
		return InvalidInput("url", "%q must start with http:// or https:// and contain a host", raw)
	}
	return nil
}

// ValidateTitle returns the trimmed title or an error when it is blank.
func ValidateTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", InvalidInput("title", "must not be empty")
	}
	return trimmed, nil
}
