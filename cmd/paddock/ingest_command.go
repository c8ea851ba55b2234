package main

import (
	"fmt"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"paddock/internal/ingest"
	"paddock/internal/logging"
	"paddock/internal/store"
	"paddock/internal/upstream"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var sessionsFlag string
	var strictFlag bool
	var noCacheFlag bool

	cmd := &cobra.Command{
		Use:   "ingest <year>",
		Short: "Ingest every missing session of a season",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("invalid year %q", args[0])
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if sessionsFlag != "" {
				kinds, err := store.ParseSessionKinds(sessionsFlag)
				if err != nil {
					return err
				}
				selected := make([]string, 0, len(kinds))
				for _, kind := range kinds {
					selected = append(selected, string(kind))
				}
				cfg.Ingest.SessionKinds = selected
			}
			if strictFlag {
				cfg.Ingest.Strict = true
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}

			st, err := store.Open(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			var opts []upstream.Option
			if !noCacheFlag {
				opts = append(opts, upstream.WithCache(upstream.NewCache(cfg.Paths.CacheDir)))
			}
			client, err := upstream.NewClient(cfg.Upstream, opts...)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			season := ingest.NewSeason(cfg, st, client, logger)
			stats, err := season.Run(runCtx, year)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Outcome", "Sessions"},
				[][]string{
					{"Newly ingested", strconv.Itoa(stats.NewlyIngested)},
					{"Already complete", strconv.Itoa(stats.AlreadyComplete)},
					{"Not available", strconv.Itoa(stats.NotAvailable)},
					{"Failed", strconv.Itoa(stats.Failed)},
				},
				[]columnAlignment{alignLeft, alignRight},
			))
			if stats.Failed > 0 {
				fmt.Fprintf(out, "Failures recorded in %s\n", stats.FailureLogPath)
				fmt.Fprintf(out, "Re-run `paddock ingest %d` to retry the missing categories.\n", year)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionsFlag, "sessions", "", "Comma-separated session kinds to ingest (default from config)")
	cmd.Flags().BoolVar(&strictFlag, "strict", false, "Stop a session at the first category failure")
	cmd.Flags().BoolVar(&noCacheFlag, "no-cache", false, "Bypass the upstream response cache")
	return cmd
}
