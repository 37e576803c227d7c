package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vanshika/demolab/internal/classify"
	"github.com/vanshika/demolab/internal/llm"
	"github.com/vanshika/demolab/internal/service"
	"github.com/vanshika/demolab/internal/tasks"
)

func init() {
	gridsearchCmd.Flags().StringSlice("kernel", nil, "Kernels to search (default all)")
	gridsearchCmd.Flags().Float64Slice("c", nil, "Regularisation values to search")
	gridsearchCmd.Flags().Float64Slice("gamma", nil, "Kernel coefficients to search")
	gridsearchCmd.Flags().Uint64("seed", 0, "Split seed (default 42)")
	rootCmd.AddCommand(gridsearchCmd)

	explainCmd.Flags().StringP("question", "q", "", "Question about the sales model")
	explainCmd.Flags().Int("preset", -1, "Ask one of the predefined questions by position")
	rootCmd.AddCommand(explainCmd)
}

var gridsearchCmd = &cobra.Command{
	Use:   "gridsearch",
	Short: "Tune an SVM on the iris dataset",
	Run: func(cmd *cobra.Command, args []string) {
		kernels, _ := cmd.Flags().GetStringSlice("kernel")
		cs, _ := cmd.Flags().GetFloat64Slice("c")
		gammas, _ := cmd.Flags().GetFloat64Slice("gamma")

		params := service.GridSearchParams{C: cs, Gamma: gammas}
		for _, k := range kernels {
			params.Kernels = append(params.Kernels, classify.Kernel(strings.ToLower(k)))
		}
		if cmd.Flags().Changed("seed") {
			seed, _ := cmd.Flags().GetUint64("seed")
			params.Seed = &seed
		}

		cfg := mustLoadConfig()
		logger := newLogger(cfg)
		manager := tasks.NewManager(1, 0, logger)
		defer manager.Close()

		svc, err := service.LoadReactivity(cfg.Data.Root, manager, logger)
		if err != nil {
			exitWithError(ExitDataError, "loading iris: %v", err)
		}
		snap, err := svc.StartGridSearch(params)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if _, err := manager.Wait(ctx, snap.ID); err != nil {
			_ = manager.Cancel(snap.ID)
			exitWithError(ExitError, "grid search interrupted: %v", err)
		}
		report, err := svc.GridSearchResult(snap.ID)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		emit(report, func() {
			outputHuman("best: kernel=%s C=%g gamma=%g\naccuracy: %.4f\n\n", report.Best.Kernel, report.Best.C, report.Best.Gamma, report.Accuracy)
			outputHuman("%-12s%s\n", "", strings.Join(report.Classes, "  "))
			for i, row := range report.Matrix {
				outputHuman("%-12s", report.Classes[i])
				for _, n := range row {
					outputHuman("%-*d  ", len(report.Classes[i]), n)
				}
				outputHuman("\n")
			}
		})
	},
}

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Ask the assistant about the fitted sales model",
	Run: func(cmd *cobra.Command, args []string) {
		question, _ := cmd.Flags().GetString("question")
		preset, _ := cmd.Flags().GetInt("preset")
		if preset >= 0 {
			if preset >= len(llm.PredefinedQuestions) {
				exitWithError(ExitError, "preset must be below %d", len(llm.PredefinedQuestions))
			}
			question = llm.PredefinedQuestions[preset]
		}
		if strings.TrimSpace(question) == "" {
			exitWithError(ExitError, "--question or --preset is required")
		}

		cfg := mustLoadConfig()
		client, err := llm.NewClient(llm.Config{
			APIKey:            cfg.LLM.APIKey,
			BaseURL:           cfg.LLM.BaseURL,
			Model:             cfg.LLM.Model,
			Temperature:       cfg.LLM.Temperature,
			Timeout:           cfg.LLM.Timeout,
			RequestsPerSecond: cfg.LLM.RequestsPerSecond,
		})
		if errors.Is(err, llm.ErrNotConfigured) {
			exitWithError(ExitUnavailable, "%s", service.MsgMissingAPIKey)
		}
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}

		svc, err := service.LoadAdvisor(cfg.Data.Root, client, newLogger(cfg))
		if err != nil {
			exitWithError(ExitDataError, "loading advertising data: %v", err)
		}
		answer, err := svc.Ask(cmd.Context(), question)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		emit(answer, func() {
			outputHuman("%s\n\n%s\n", answer.Question, answer.Answer)
		})
	},
}
