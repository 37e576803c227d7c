package service

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/vanshika/demolab/internal/llm"
)

// LoadOptions names the inputs of LoadAll.
type LoadOptions struct {
	Root string
	// Store serves the social network instead of the CSV files when set.
	Store     FriendshipStore
	Completer llm.Completer
	Tasks     TaskRunner
}

// LoadAll builds every demo service concurrently. A demo whose dataset file
// is missing is left nil and logged; any other failure aborts the load.
func LoadAll(ctx context.Context, opts LoadOptions, logger *slog.Logger) (Services, error) {
	var s Services
	g, ctx := errgroup.WithContext(ctx)

	load := func(name string, fn func() error) {
		g.Go(func() error {
			err := fn()
			if errors.Is(err, fs.ErrNotExist) {
				logger.Warn("dataset missing, demo disabled", slog.String("demo", name), slog.Any("error", err))
				return nil
			}
			if err != nil {
				logger.Error("load demo", slog.String("demo", name), slog.Any("error", err))
				return err
			}
			logger.Debug("demo loaded", slog.String("demo", name))
			return nil
		})
	}

	load("graph-viewer", func() (err error) {
		if opts.Store != nil {
			s.Social, err = LoadSocialNetworkStore(ctx, opts.Store, logger)
			return err
		}
		s.Social, err = LoadSocialNetworkCSV(opts.Root, logger)
		return err
	})
	load("data-interactivity", func() (err error) {
		s.Explorer, err = LoadExplorer(opts.Root, logger)
		return err
	})
	load("plot-interactivity", func() (err error) {
		s.Indicators, err = LoadIndicators(opts.Root, logger)
		return err
	})
	load("llm", func() (err error) {
		s.Advisor, err = LoadAdvisor(opts.Root, opts.Completer, logger)
		return err
	})
	if opts.Tasks != nil {
		load("interactivity", func() (err error) {
			s.Reactivity, err = LoadReactivity(opts.Root, opts.Tasks, logger)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return Services{}, err
	}
	s.Wrangler = NewWranglerService(opts.Root, logger)
	return s, nil
}
