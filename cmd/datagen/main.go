package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vanshika/demolab/internal/generator"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		individuals = flag.Int("individuals", cfg.Individuals, "number of individuals in the social network")
		friends     = flag.Int("friends", cfg.FriendsPerNode, "friendships drawn per individual before de-duplication")
		households  = flag.Int("households", cfg.Households, "rows in 401k.csv")
		countries   = flag.Int("countries", cfg.Countries, "countries in gdp.csv and countries.json")
		firstYear   = flag.Int("first-year", cfg.FirstYear, "first year of the indicator series")
		lastYear    = flag.Int("last-year", cfg.LastYear, "last year of the indicator series")
		missing     = flag.Float64("missing-chance", cfg.MissingChance, "probability of a blank indicator value")
		adRows      = flag.Int("advertising-rows", cfg.AdvertisingRows, "rows in advertising.csv")
		irisRows    = flag.Int("iris-per-species", cfg.IrisPerSpecies, "iris samples per species")
		seed        = flag.Uint64("seed", cfg.Seed, "random seed for deterministic generation")
		outputDir   = flag.String("output-dir", "data", "directory to write the datasets to")
	)
	flag.Parse()

	genCfg := generator.Config{
		Individuals:     *individuals,
		FriendsPerNode:  *friends,
		MaxInteractions: cfg.MaxInteractions,
		Households:      *households,
		Countries:       *countries,
		FirstYear:       *firstYear,
		LastYear:        *lastYear,
		MissingChance:   clampProbability(*missing),
		AdvertisingRows: *adRows,
		IrisPerSpecies:  *irisRows,
		Seed:            *seed,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	gen := generator.New(genCfg)
	dataset, err := gen.Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	if err := generator.WriteDataset(dataset, *outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write dataset: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Generated %d friendships, %d interactions and %d households into %s\n",
		len(dataset.Friendships), len(dataset.Interactions), dataset.Households.Len(), *outputDir)
}

func clampProbability(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
