package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

func newDiscoverCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:          "discover",
		Short:        "Print the artist links of the genre listing, one per line",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			cfg, logCloser, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer logCloser.Close()

			session, interstitials, err := newSession(cfg)
			if err != nil {
				slog.Error("Failed to start browser session", "error", err)
				return err
			}
			defer session.Close()

			discoverer, _, _, err := newExtraction(cfg, session, interstitials, nil)
			if err != nil {
				return err
			}

			listing, err := cfg.ListingURL()
			if err != nil {
				return err
			}

			links, err := discoverer.Discover(ctx, listing, discoverOptions(cfg))
			if err != nil {
				return err
			}
			for _, link := range links {
				fmt.Fprintln(cmd.OutOrStdout(), link)
			}
			return nil
		},
	}
}
