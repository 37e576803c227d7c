package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vanshika/demolab/internal/network"
	"github.com/vanshika/demolab/internal/service"
)

func init() {
	rootCmd.AddCommand(pathCmd)

	centralityCmd.Flags().StringP("measure", "m", network.Degree, "Centrality measure: "+strings.Join(network.CentralityMeasures, ", "))
	rootCmd.AddCommand(centralityCmd)

	transitivityCmd.Flags().StringSlice("add", nil, "Friendship to add, as A:B (repeatable)")
	transitivityCmd.Flags().StringSlice("remove", nil, "Friendship to remove, as A:B (repeatable)")
	rootCmd.AddCommand(transitivityCmd)

	recommendCmd.Flags().IntP("limit", "n", 5, "Maximum number of suggestions")
	rootCmd.AddCommand(recommendCmd)
}

// mustLoadNetwork reads the social network from the data root, exits on error.
func mustLoadNetwork() *service.SocialNetworkService {
	cfg := mustLoadConfig()
	svc, err := service.LoadSocialNetworkCSV(cfg.Data.Root, newLogger(cfg))
	if err != nil {
		exitWithError(ExitDataError, "loading social network: %v", err)
	}
	return svc
}

var pathCmd = &cobra.Command{
	Use:   "path <individual> <individual>",
	Short: "Find the strongest path between two individuals",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		svc := mustLoadNetwork()
		report, err := svc.StrongestPath(args)
		switch {
		case errors.Is(err, service.ErrNoPath):
			exitWithError(ExitDataError, "%s and %s are not connected", args[0], args[1])
		case err != nil:
			exitWithError(ExitDataError, "%v", err)
		}
		// The view is for rendering only.
		report.Graph = nil
		emit(report, func() {
			outputHuman("%s\n", strings.Join(report.Path, " -> "))
			outputHuman("%d individuals, %d cumulative interactions\n", report.Length, report.CumulativeInteractions)
		})
	},
}

var centralityCmd = &cobra.Command{
	Use:   "centrality",
	Short: "Score every individual with a centrality measure",
	Run: func(cmd *cobra.Command, args []string) {
		measure, _ := cmd.Flags().GetString("measure")
		svc := mustLoadNetwork()
		report, err := svc.Centrality(measure)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		emit(report.Scores, func() {
			outputHuman("%s\n%s\n\n", report.Measure, report.Definition)
			for _, s := range report.Scores {
				outputHuman("%-24s %.4f\n", s.Individual, s.Value)
			}
		})
	},
}

var transitivityCmd = &cobra.Command{
	Use:   "transitivity",
	Short: "Measure transitivity, optionally after editing friendships",
	Run: func(cmd *cobra.Command, args []string) {
		add, _ := cmd.Flags().GetStringSlice("add")
		remove, _ := cmd.Flags().GetStringSlice("remove")
		svc := mustLoadNetwork()

		edges, err := editEdges(svc.Graph().EdgePairs(), add, remove)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		var report service.TransitivityReport
		if len(add) == 0 && len(remove) == 0 {
			report = svc.Transitivity(nil)
		} else {
			report = svc.Transitivity(edges)
		}
		emit(report, func() {
			outputHuman("original %.2f%%\ncurrent  %.2f%% (%s)\n", report.OriginalPercent, report.CurrentPercent, report.Trend)
		})
	},
}

// editEdges applies A:B additions and removals to pairs in either
// orientation.
func editEdges(pairs [][2]string, add, remove []string) ([][2]string, error) {
	parse := func(raw string) ([2]string, error) {
		a, b, ok := strings.Cut(raw, ":")
		a, b = strings.TrimSpace(a), strings.TrimSpace(b)
		if !ok || a == "" || b == "" || a == b {
			return [2]string{}, fmt.Errorf("invalid friendship %q: expected A:B", raw)
		}
		return [2]string{a, b}, nil
	}
	same := func(x, y [2]string) bool {
		return x == y || (x[0] == y[1] && x[1] == y[0])
	}

	out := append([][2]string{}, pairs...)
	for _, raw := range remove {
		e, err := parse(raw)
		if err != nil {
			return nil, err
		}
		kept := out[:0]
		for _, p := range out {
			if !same(p, e) {
				kept = append(kept, p)
			}
		}
		out = kept
	}
	for _, raw := range add {
		e, err := parse(raw)
		if err != nil {
			return nil, err
		}
		exists := false
		for _, p := range out {
			exists = exists || same(p, e)
		}
		if !exists {
			out = append(out, e)
		}
	}
	return out, nil
}

var recommendCmd = &cobra.Command{
	Use:   "recommend <individual>",
	Short: "Suggest new friendships that close triangles",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")
		svc := mustLoadNetwork()
		recs, err := svc.Recommendations(args[0], limit)
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		emit(recs, func() {
			if len(recs) == 0 {
				outputHuman("No suggestions for %s\n", args[0])
				return
			}
			for _, r := range recs {
				outputHuman("%-24s via %s (transitivity %.4f)\n", r.Individual, strings.Join(r.CommonFriends, ", "), r.ProjectedTransitivity)
			}
		})
	},
}
