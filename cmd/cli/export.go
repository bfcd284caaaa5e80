package main

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/wadjakorntonsri/go-linkinbio/pkg/core/domain"
)

// Document is the export format: one profile with its links in display order.
type Document struct {
	Profile domain.ProfileInput `json:"profile"`
	Links   []DocumentLink      `json:"links"`
}

type DocumentLink struct {
	Title   string      `json:"title"`
	URL     string      `json:"url"`
	Icon    domain.Icon `json:"icon"`
	Enabled bool        `json:"enabled"`
}

var exportOwner string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a profile and its links as JSON",
	Long: `Export writes the profile identified by --owner (its slug) and all of
its links, in display order, to stdout.

Example:
  linkbio export --owner alice > alice.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return linkbio.export(cmd.Context(), os.Stdout, exportOwner)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOwner, "owner", "", "profile slug (required)")
	_ = exportCmd.MarkFlagRequired("owner")
}

func (a *app) export(ctx context.Context, w io.Writer, slug string) error {
	profile, err := a.profiles.GetProfileBySlug(ctx, slug)
	if err != nil {
		return errors.Wrapf(err, "profile %q", slug)
	}
	links, err := a.links.List(ctx, profile.ID)
	if err != nil {
		return errors.Wrap(err, "list links")
	}

	doc := Document{
		Profile: domain.ProfileInput{
			Slug:        profile.Slug,
			DisplayName: profile.DisplayName,
			Bio:         profile.Bio,
			AvatarURL:   profile.AvatarURL,
			Email:       profile.Email,
		},
		Links: make([]DocumentLink, 0, len(links)),
	}
	for _, l := range links {
		doc.Links = append(doc.Links, DocumentLink{Title: l.Title, URL: l.URL, Icon: l.Icon, Enabled: l.Enabled})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}
