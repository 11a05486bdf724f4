package main

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/padel-ratings/internal/club"
	"github.com/mauv0809/padel-ratings/internal/config"
	"github.com/mauv0809/padel-ratings/internal/database"
	"github.com/mauv0809/padel-ratings/internal/recalc"
	"github.com/mauv0809/padel-ratings/internal/stats"
	"github.com/spf13/cobra"
)

// pipeline is opened lazily by the root command so --help works without a database.
var (
	pipeline   *recalc.Pipeline
	dbTeardown func()
)

var rootCmd = &cobra.Command{
	Use:   "padel-recalc",
	Short: "Rebuild rating statistics directly against the database",
	Long: `Runs a recalculation in-process, bypassing the job queue. Useful for
backfills and for checking a scope after manual data fixes.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
			log.SetLevel(level)
		}
		db, teardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		dbTeardown = teardown
		pipeline = recalc.New(club.New(db), stats.NewStore(db), nil, cfg.Rating.Model())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if dbTeardown != nil {
			dbTeardown()
		}
	},
}

var globalCmd = &cobra.Command{
	Use:   "global",
	Short: "Rebuild the global scope and rating history",
	RunE: func(cmd *cobra.Command, args []string) error {
		counts, err := pipeline.Global(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("global: %d matches, %d players\n", counts.MatchCount, counts.PlayerCount)
		return nil
	},
}

var leagueCmd = &cobra.Command{
	Use:   "league <id>",
	Short: "Rebuild a league and all of its seasons",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		result, err := pipeline.League(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Printf("league %d: %d matches, %d players\n", id, result.LeagueMatchCount, result.PlayerCount)
		for _, seasonID := range slices.Sorted(maps.Keys(result.SeasonCounts)) {
			counts := result.SeasonCounts[seasonID]
			fmt.Printf("  season %d: %d matches, %d players\n", seasonID, counts.MatchCount, counts.PlayerCount)
		}
		return nil
	},
}

var seasonCmd = &cobra.Command{
	Use:   "season <id>",
	Short: "Rebuild a single season",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		counts, err := pipeline.Season(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Printf("season %d: %d matches, %d players\n", id, counts.MatchCount, counts.PlayerCount)
		return nil
	},
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("id must be a number, got %q", raw)
	}
	return id, nil
}

func init() {
	rootCmd.AddCommand(globalCmd, leagueCmd, seasonCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Recalculation failed: %s\n", err)
		os.Exit(1)
	}
}
