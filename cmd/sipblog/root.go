package main

import (
	"fmt"

	"github.com/spf13/cobra"

	sipblog "github.com/sip-protocol/blog-sip"
	"github.com/sip-protocol/blog-sip/internal/logger"
)

// cli holds state shared by every subcommand.
type cli struct {
	configPath string
	contentDir string
	production bool
	cfg        sipblog.SiteConfig
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "sipblog",
		Short: "SIP Protocol blog content tools and feed server",
		Long: `sipblog validates the blog's content collection, generates its RSS feed,
llms.txt index, sitemap and Open Graph images, and serves them together with
the newsletter signup endpoint.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" || cmd.Name() == "help" {
				return nil
			}
			cfg, err := sipblog.LoadConfig(c.configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if c.contentDir != "" {
				cfg.ContentDir = c.contentDir
			}
			if cmd.Flags().Changed("production") {
				cfg.Production = c.production
			}
			logger.Init(cfg.LogLevel)
			c.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./sipblog.yaml)")
	root.PersistentFlags().StringVar(&c.contentDir, "content", "", "content directory (overrides CONTENT_DIR)")
	root.PersistentFlags().BoolVar(&c.production, "production", false, "hide drafts from generated outputs (overrides PRODUCTION)")

	root.AddCommand(
		newServeCmd(c),
		newBuildCmd(c),
		newCheckCmd(c),
		newNewCmd(c),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the sipblog version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sipblog %s\n", version)
		},
	}
}
