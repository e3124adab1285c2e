package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sip-protocol/blog-sip/content"
	"github.com/sip-protocol/blog-sip/scaffold"
)

func newNewCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Scaffold a draft post or an author profile",
	}
	cmd.AddCommand(newPostCmd(c), newAuthorCmd(c))
	return cmd
}

func newPostCmd(c *cli) *cobra.Command {
	var (
		d        scaffold.PostData
		category string
		tags     []string
	)
	cmd := &cobra.Command{
		Use:   "post <title>",
		Short: "Create content/blog/<slug>.md as a draft",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d.Title = strings.Join(args, " ")
			if category != "" {
				cat := content.Category(category)
				if !slices.Contains(content.Categories, cat) {
					return fmt.Errorf("unknown category %q (want one of %s)", category, categoryList())
				}
				d.Category = cat
			}
			d.Tags = tags
			path, err := scaffold.NewPost(c.cfg.ContentDir, d)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.GreenString("created"), path)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&category, "category", "c", "", "post category ("+categoryList()+")")
	f.StringVarP(&d.Author, "author", "a", "", "author name")
	f.StringVarP(&d.Description, "description", "d", "", "summary shown in feeds (defaults to the title)")
	f.StringSliceVarP(&tags, "tags", "t", nil, "comma-separated tags")
	f.StringVar(&d.Slug, "slug", "", "public slug when it differs from the file name")
	return cmd
}

func newAuthorCmd(c *cli) *cobra.Command {
	var d scaffold.AuthorData
	cmd := &cobra.Command{
		Use:   "author <name>",
		Short: "Create content/authors/<slug>.json",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d.Name = strings.Join(args, " ")
			path, err := scaffold.NewAuthor(c.cfg.ContentDir, d)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.GreenString("created"), path)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&d.Bio, "bio", "", "short biography")
	f.StringVar(&d.Twitter, "twitter", "", "twitter handle")
	f.StringVar(&d.GitHub, "github", "", "github username")
	return cmd
}

func categoryList() string {
	names := make([]string, len(content.Categories))
	for i, cat := range content.Categories {
		names[i] = string(cat)
	}
	return strings.Join(names, ", ")
}
