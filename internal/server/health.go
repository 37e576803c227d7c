package server

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/vanshika/demolab/internal/graph"
)

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) error
}

// GraphHealthService verifies the optional friendship store. A nil client
// means the network is served from CSV and is always healthy.
type GraphHealthService struct {
	Client graph.Client
}

// Probe implements the HealthService interface.
func (s GraphHealthService) Probe(ctx context.Context) error {
	if s.Client == nil {
		return nil
	}
	return s.Client.VerifyConnectivity(ctx)
}

// CompositeHealth reports every failing probe.
type CompositeHealth []HealthService

func (c CompositeHealth) Probe(ctx context.Context) error {
	var errs []error
	for _, h := range c {
		if h == nil {
			continue
		}
		if err := h.Probe(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// DataRootHealth checks that the dataset directory is still readable.
type DataRootHealth struct {
	Root string
}

func (d DataRootHealth) Probe(context.Context) error {
	info, err := os.Stat(d.Root)
	if err != nil {
		return fmt.Errorf("data root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data root %s is not a directory", d.Root)
	}
	return nil
}
