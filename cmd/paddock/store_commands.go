package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"paddock/internal/store"
)

func newStoreCommand(ctx *commandContext) *cobra.Command {
	storeCmd := &cobra.Command{
		Use:   "store",
		Short: "Inspect the local database",
	}

	storeCmd.AddCommand(newStoreHealthCommand(ctx))
	storeCmd.AddCommand(newStoreStatsCommand(ctx))

	return storeCmd
}

func newStoreHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check database integrity and schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			st, err := store.Open(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			health, err := st.CheckHealth(cmd.Context())
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Database: %s\n", health.DBPath)
			fmt.Fprintf(out, "Exists: %s\n", yesNo(health.DatabaseExists))
			fmt.Fprintf(out, "Readable: %s\n", yesNo(health.DatabaseReadable))
			fmt.Fprintf(out, "Integrity: %s\n", yesNo(health.IntegrityCheck))
			fmt.Fprintf(out, "Sessions: %d\n", health.SessionCount)
			if len(health.MissingTables) > 0 {
				fmt.Fprintf(out, "Missing tables: %s\n", strings.Join(health.MissingTables, ", "))
			}
			return err
		},
	}
}

func newStoreStatsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <year>",
		Short: "Show per-session row counts for a season",
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
			st, err := store.Open(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			counts, err := st.SeasonCategoryCounts(cmd.Context(), year)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(counts) == 0 {
				fmt.Fprintf(out, "No sessions stored for %d\n", year)
				return nil
			}

			rows := make([][]string, 0, len(counts))
			for _, c := range counts {
				rows = append(rows, []string{
					strconv.Itoa(c.Round),
					string(c.Kind),
					c.EventName,
					strconv.Itoa(c.Results),
					strconv.Itoa(c.Laps),
					strconv.Itoa(c.Weather),
					strconv.Itoa(c.TrackStatus),
					strconv.Itoa(c.Messages),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Round", "Kind", "Event", "Results", "Laps", "Weather", "Track", "Messages"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}
	return cmd
}
