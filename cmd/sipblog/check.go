package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/sip-protocol/blog-sip/content"
	"github.com/sip-protocol/blog-sip/markdown"
)

// errCheckFailed signals invalid content; the details are already printed.
var errCheckFailed = errors.New("content check failed")

func newCheckCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate every post and author and list the posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			coll, err := content.Load(c.cfg.ContentDir)
			return check(cmd.OutOrStdout(), coll, err, c.cfg.Production)
		},
	}
}

// check prints loadErr's individual problems, or a table of the loaded
// posts when there are none.
func check(w io.Writer, coll *content.Collection, loadErr error, production bool) error {
	if loadErr != nil {
		problems := splitErrors(loadErr)
		for _, p := range problems {
			fmt.Fprintf(w, "%s %v\n", color.RedString("ERROR"), p)
		}
		fmt.Fprintf(w, "\n%d problem(s) found\n", len(problems))
		return errCheckFailed
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Title", "Category", "Published", "Reading time", "Status"})
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	drafts := 0
	for _, p := range content.SortByDate(coll.Posts) {
		status := color.GreenString("published")
		if p.Draft {
			drafts++
			status = color.YellowString("draft")
			if production {
				status = color.YellowString("draft (hidden)")
			}
		}
		table.Append([]string{
			p.ID,
			p.Title,
			string(p.Category),
			p.PubDate.UTC().Format("2006-01-02"),
			markdown.FormatReadingTime(p.Minutes()),
			status,
		})
	}
	table.Render()

	fmt.Fprintf(w, "\n%s %s posts (%d drafts), %s authors\n",
		color.GreenString("OK"),
		strconv.Itoa(len(coll.Posts)), drafts,
		strconv.Itoa(len(coll.Authors)))
	return nil
}

// splitErrors flattens errors.Join trees into their leaves.
func splitErrors(err error) []error {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		var out []error
		for _, e := range joined.Unwrap() {
			out = append(out, splitErrors(e)...)
		}
		return out
	}
	return []error{err}
}
