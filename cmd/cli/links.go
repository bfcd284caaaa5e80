package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/wadjakorntonsri/go-linkinbio/pkg/core/board"
	"github.com/wadjakorntonsri/go-linkinbio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-linkinbio/pkg/core/services"
)

var (
	linksOwner   string
	listVisible  bool
	listQuery    string
	addTitle     string
	addURL       string
	addIcon      string
	moveOrder    []string
	toggleEnable string
)

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "Manage the links of a profile",
}

var linksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List links in display order",
	Long: `List prints the links of --owner in display order.

Example:
  linkbio links list --owner alice
  linkbio links list --owner alice --visible
  linkbio links list --owner alice --q git --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := linkbio.board(cmd.Context(), linksOwner)
		if err != nil {
			return err
		}
		links := b.Search(listQuery)
		if listVisible {
			links = services.VisibleOnly(links)
		}
		return printLinks(os.Stdout, links)
	},
}

var linksAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Append a link",
	Long: `Add appends a link at the end of the collection.

Icons are predefined names (see --icon) or custom image URLs.

Example:
  linkbio links add --owner alice --title GitHub --url https://github.com/alice --icon github`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		icon, err := domain.ParseIcon(addIcon)
		if err != nil {
			return err
		}
		b, err := linkbio.board(cmd.Context(), linksOwner)
		if err != nil {
			return err
		}
		link, err := b.Add(cmd.Context(), addTitle, addURL, icon)
		if err != nil {
			return err
		}
		return printLink(os.Stdout, link, "Created link")
	},
}

var linksToggleCmd = &cobra.Command{
	Use:   "toggle <link-id>",
	Short: "Show or hide a link on the public page",
	Long: `Toggle flips the visibility of a link, or sets it with --enabled.

Example:
  linkbio links toggle 0190f1d2-... --owner alice
  linkbio links toggle 0190f1d2-... --owner alice --enabled=false`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := linkbio.board(cmd.Context(), linksOwner)
		if err != nil {
			return err
		}
		current, ok := find(b.Links(), args[0])
		if !ok {
			return errors.Wrapf(domain.ErrNotFound, "link %s", args[0])
		}

		enabled := !current.Enabled
		if toggleEnable != "" {
			if enabled, err = strconv.ParseBool(toggleEnable); err != nil {
				return errors.Wrap(err, "--enabled")
			}
		}
		if err := b.Toggle(cmd.Context(), current.ID, enabled); err != nil {
			return err
		}
		updated, _ := find(b.Links(), current.ID)
		return printLink(os.Stdout, &updated, "Updated link")
	},
}

var linksMoveCmd = &cobra.Command{
	Use:   "move [<link-id> <position>]",
	Short: "Reorder links",
	Long: `Move puts one link at a zero-based position, or sets the whole order
with --order.

Example:
  linkbio links move 0190f1d2-... 0 --owner alice
  linkbio links move --owner alice --order id3,id1,id2`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(moveOrder) > 0 {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(2)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := linkbio.board(cmd.Context(), linksOwner)
		if err != nil {
			return err
		}

		if len(moveOrder) > 0 {
			err = b.Move(cmd.Context(), moveOrder)
		} else {
			pos, convErr := strconv.Atoi(args[1])
			if convErr != nil {
				return errors.Wrap(domain.ErrInvalidInput, "position must be a number")
			}
			err = b.MoveTo(cmd.Context(), args[0], pos)
		}
		if err != nil {
			if b.Stale() {
				fmt.Fprintln(os.Stderr, "warning: local view may be out of date")
			}
			return err
		}
		return printLinks(os.Stdout, b.Links())
	},
}

var linksRemoveCmd = &cobra.Command{
	Use:     "rm <link-id>",
	Aliases: []string{"delete"},
	Short:   "Delete a link",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := linkbio.board(cmd.Context(), linksOwner)
		if err != nil {
			return err
		}
		if err := b.Remove(cmd.Context(), args[0]); err != nil {
			return err
		}
		if !jsonOutput {
			fmt.Printf("Deleted link: %s\n", args[0])
		}
		return nil
	},
}

func init() {
	linksCmd.PersistentFlags().StringVar(&linksOwner, "owner", "", "profile slug (required)")
	_ = linksCmd.MarkPersistentFlagRequired("owner")

	linksListCmd.Flags().BoolVar(&listVisible, "visible", false, "only enabled links")
	linksListCmd.Flags().StringVar(&listQuery, "q", "", "filter by title")

	linksAddCmd.Flags().StringVar(&addTitle, "title", "", "link title (required)")
	linksAddCmd.Flags().StringVar(&addURL, "url", "", "link URL (required)")
	linksAddCmd.Flags().StringVar(&addIcon, "icon", "", "icon name ("+strings.Join(domain.PredefinedIconNames(), ", ")+") or image URL (default: link)")
	_ = linksAddCmd.MarkFlagRequired("title")
	_ = linksAddCmd.MarkFlagRequired("url")

	linksToggleCmd.Flags().StringVar(&toggleEnable, "enabled", "", "set visibility instead of flipping it (true|false)")

	linksMoveCmd.Flags().StringSliceVar(&moveOrder, "order", nil, "every link id in the new order")

	linksCmd.AddCommand(linksListCmd, linksAddCmd, linksToggleCmd, linksMoveCmd, linksRemoveCmd)
}

// board loads the collection of the profile with the given slug.
func (a *app) board(ctx context.Context, slug string) (*board.Board, error) {
	profile, err := a.profiles.GetProfileBySlug(ctx, slug)
	if err != nil {
		return nil, errors.Wrapf(err, "profile %q", slug)
	}
	b := board.New(a.links, profile.ID, a.log)
	if err := b.Load(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

func find(links []domain.Link, id string) (domain.Link, bool) {
	for _, l := range links {
		if l.ID == id {
			return l, true
		}
	}
	return domain.Link{}, false
}

func printLink(w io.Writer, link *domain.Link, verb string) error {
	if jsonOutput {
		return writeJSON(w, link)
	}
	_, err := fmt.Fprintf(w, "%s: %s\n", verb, link.ID)
	return err
}

func printLinks(w io.Writer, links []domain.Link) error {
	if jsonOutput {
		return writeJSON(w, links)
	}
	if len(links) == 0 {
		_, err := fmt.Fprintln(w, "No links")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "POS\tID\tTITLE\tURL\tICON\tVISIBLE\tCLICKS")
	for _, l := range links {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%t\t%d\n",
			l.Order, l.ID, truncate(l.Title, 40), l.URL, l.Icon.Value, l.Enabled, l.ClickCount)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n-3])) + "..."
}
