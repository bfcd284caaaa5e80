package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/wadjakorntonsri/go-linkinbio/pkg/core/board"
	"github.com/wadjakorntonsri/go-linkinbio/pkg/core/domain"
)

var importFile string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a profile exported with linkbio export",
	Long: `Import creates the profile in --file if its slug is free, then appends
every link that the profile does not already have (same title and URL).

Example:
  linkbio import --file alice.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := os.Open(importFile)
		if err != nil {
			return errors.Wrap(err, "open import file")
		}
		defer file.Close()

		imported, skipped, err := linkbio.importDocument(cmd.Context(), file)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d links (%d skipped)\n", imported, skipped)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importFile, "file", "", "JSON file to import (required)")
	_ = importCmd.MarkFlagRequired("file")
}

func (a *app) importDocument(ctx context.Context, r io.Reader) (imported, skipped int, err error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return 0, 0, errors.Wrap(err, "decode import file")
	}

	profile, err := a.profiles.GetProfileBySlug(ctx, doc.Profile.Slug)
	if errors.Is(err, domain.ErrNotFound) {
		profile, err = a.profiles.CreateProfile(ctx, doc.Profile)
	}
	if err != nil {
		return 0, 0, errors.Wrapf(err, "profile %q", doc.Profile.Slug)
	}

	b := board.New(a.links, profile.ID, a.log)
	if err := b.Load(ctx); err != nil {
		return 0, 0, err
	}

	existing := make(map[[2]string]struct{})
	for _, l := range b.Links() {
		existing[[2]string{l.Title, l.URL}] = struct{}{}
	}

	for _, l := range doc.Links {
		if _, ok := existing[[2]string{l.Title, l.URL}]; ok {
			skipped++
			continue
		}
		created, err := b.Add(ctx, l.Title, l.URL, l.Icon)
		if err != nil {
			a.log.Warn().Err(err).Str("title", l.Title).Msg("link not imported")
			skipped++
			continue
		}
		if !l.Enabled {
			if err := b.Toggle(ctx, created.ID, false); err != nil {
				a.log.Warn().Err(err).Str("link_id", created.ID).Msg("link imported enabled")
			}
		}
		existing[[2]string{l.Title, l.URL}] = struct{}{}
		imported++
	}

	a.log.Info().Str("slug", profile.Slug).Int("imported", imported).Int("skipped", skipped).Msg("import finished")
	return imported, skipped, nil
}
