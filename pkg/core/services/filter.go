package services

import (
	"strings"

	"github.com/wadjakorntonsri/go-linkinbio/pkg/core/domain"
)

// FilterByTitle keeps the links whose title contains query, ignoring case.
// A blank query returns links unchanged. Relative order is preserved.
func FilterByTitle(links []domain.Link, query string) []domain.Link {
	if strings.TrimSpace(query) == "" {
		return links
	}
	needle := strings.ToLower(query)
	out := make([]domain.Link, 0, len(links))
	for _, l := range links {
		if strings.Contains(strings.ToLower(l.Title), needle) {
			out = append(out, l)
		}
	}
	return out
}

// VisibleOnly keeps enabled links in their existing order.
func VisibleOnly(links []domain.Link) []domain.Link {
	out := make([]domain.Link, 0, len(links))
	for _, l := range links {
		if l.Enabled {
			out = append(out, l)
		}
	}
	return out
}
