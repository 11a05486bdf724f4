package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/mauv0809/padel-ratings/internal/queue"
	"github.com/mauv0809/padel-ratings/internal/stats"
	"github.com/spf13/cobra"
)

var (
	scopeKind string
	scopeID   int64
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(jobCmd)
	rootCmd.AddCommand(enqueueCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(partnersCmd)

	for _, cmd := range []*cobra.Command{leaderboardCmd, partnersCmd} {
		cmd.Flags().StringVar(&scopeKind, "scope", "global", "Scope to read: global, league or season")
		cmd.Flags().Int64Var(&scopeID, "id", 0, "League or season id for scoped reads")
	}
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running, pending and recent recalculation jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		var snapshot queue.StatusSnapshot
		if err := getJSON("/recalc/status", &snapshot); err != nil {
			return err
		}
		renderStatus(os.Stdout, &snapshot)
		return nil
	},
}

var jobCmd = &cobra.Command{
	Use:   "job <id>",
	Short: "Show a single recalculation job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var job queue.Job
		if err := getJSON("/recalc/jobs/"+url.PathEscape(args[0]), &job); err != nil {
			return err
		}
		renderJobs(os.Stdout, []queue.Job{job})
		return nil
	},
}

var enqueueCmd = &cobra.Command{
	Use:   "enqueue <global|league|season> [id]",
	Short: "Queue a recalculation",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := url.Values{"type": {args[0]}}
		if len(args) == 2 {
			query.Set("id", args[1])
		}
		return performPostRequest("/recalc/enqueue?" + query.Encode())
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Print the leaderboard of a scope",
	RunE: func(cmd *cobra.Command, args []string) error {
		var board []stats.PlayerSummary
		if err := getJSON("/leaderboard?"+scopeQuery().Encode(), &board); err != nil {
			return err
		}
		renderLeaderboard(os.Stdout, board)
		return nil
	},
}

var partnersCmd = &cobra.Command{
	Use:   "partners <player-id>",
	Short: "Print a player's partnership and opponent records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
			return fmt.Errorf("player id must be a number: %w", err)
		}
		query := scopeQuery().Encode()
		var partners, opponents []stats.PairStats
		if err := getJSON("/players/"+args[0]+"/partners?"+query, &partners); err != nil {
			return err
		}
		if err := getJSON("/players/"+args[0]+"/opponents?"+query, &opponents); err != nil {
			return err
		}
		fmt.Println("Partners")
		renderPairs(os.Stdout, partners)
		fmt.Println("Opponents")
		renderPairs(os.Stdout, opponents)
		return nil
	},
}

func scopeQuery() url.Values {
	query := url.Values{"scope": {scopeKind}}
	if scopeKind != "global" {
		query.Set("id", strconv.FormatInt(scopeID, 10))
	}
	return query
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	return printResponse(resp)
}

func performPostRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Post(url, "application/json", nil)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}

// getJSON decodes a 200 response into out; any other status is returned as an error.
func getJSON(endpoint string, out any) error {
	resp, err := http.Get(host + endpoint)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
