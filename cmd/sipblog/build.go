package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	sipblog "github.com/sip-protocol/blog-sip"
	"github.com/sip-protocol/blog-sip/content"
	"github.com/sip-protocol/blog-sip/feed"
	"github.com/sip-protocol/blog-sip/internal/logger"
	"github.com/sip-protocol/blog-sip/ogimage"
	"github.com/sip-protocol/blog-sip/views"
)

// ogConcurrency bounds parallel OG image renders.
const ogConcurrency = 4

func newBuildCmd(c *cli) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Write rss.xml, llms.txt, sitemap.xml, robots.txt and og/*.png",
		RunE: func(cmd *cobra.Command, args []string) error {
			coll, err := content.Load(c.cfg.ContentDir)
			if err != nil {
				return fmt.Errorf("load content: %w", err)
			}
			n, err := build(cmd.Context(), c.cfg, coll.Posts, outDir, ogimage.NewRenderer())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d files to %s\n", n, outDir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "dist", "output directory")
	return cmd
}

// build writes every derived output for posts into outDir and returns the
// number of files written.
func build(ctx context.Context, cfg sipblog.SiteConfig, posts []content.Post, outDir string, og sipblog.OGRenderer) (int, error) {
	site := cfg.Feed()

	rss, err := feed.RSS(site, posts, cfg.Production)
	if err != nil {
		return 0, fmt.Errorf("render rss: %w", err)
	}
	sitemap, err := feed.Sitemap(site, posts, cfg.Production)
	if err != nil {
		return 0, fmt.Errorf("render sitemap: %w", err)
	}
	files := map[string][]byte{
		"rss.xml":     rss,
		"llms.txt":    []byte(feed.LLMs(site, posts)),
		"sitemap.xml": sitemap,
		"robots.txt":  []byte(feed.Robots(site, cfg.Production)),
	}
	for name, data := range files {
		if err := writeFile(filepath.Join(outDir, name), data); err != nil {
			return 0, err
		}
	}

	pages := feed.OGPages(posts)
	ids := make([]string, 0, len(pages))
	for id := range pages {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ogConcurrency)
	for _, id := range ids {
		id := id
		page := pages[id]
		g.Go(func() error {
			png, err := og.Render(gctx, ogimage.Card{
				Title:       page.Title,
				Description: page.Description,
				Accent:      views.CategoryStyleFor(page.Category).Accent(),
			})
			if err != nil {
				return fmt.Errorf("render og image %s: %w", id, err)
			}
			return writeFile(filepath.Join(outDir, filepath.FromSlash(feed.OGImagePath(id))), png)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	logger.InfoWithFields("build complete", logger.Fields{
		"out":       outDir,
		"posts":     len(posts),
		"og_images": len(ids),
	})
	return len(files) + len(ids), nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
