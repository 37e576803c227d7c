package generator

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/demolab/internal/service"
	"github.com/vanshika/demolab/internal/tasks"
)

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Individuals = 12
	cfg.Households = 80
	cfg.Countries = 5
	cfg.FirstYear = 2015
	cfg.AdvertisingRows = 60
	cfg.IrisPerSpecies = 10
	cfg.Seed = 7
	return cfg
}

func TestGenerateIsDeterministic(t *testing.T) {
	a, err := New(smallConfig()).Generate(context.Background())
	require.NoError(t, err)
	b, err := New(smallConfig()).Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, a.Friendships, b.Friendships)
	assert.Equal(t, a.Households.Records(), b.Households.Records())
	assert.Equal(t, 80, a.Households.Len())
	assert.Equal(t, 5*5, a.Indicators.Len())
	assert.Len(t, a.Countries.Features, 5)
	assert.Equal(t, 30, a.Iris.Len())

	for _, f := range a.Friendships {
		assert.NotEqual(t, f.IndividualA, f.IndividualB)
		assert.Positive(t, f.Interactions)
	}
}

func TestGenerateHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(smallConfig()).Generate(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestWrittenDatasetsLoad(t *testing.T) {
	ds, err := New(smallConfig()).Generate(context.Background())
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "data")
	require.NoError(t, WriteDataset(ds, dir))
	for _, name := range Files {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := tasks.NewManager(1, time.Minute, logger)
	defer manager.Close()

	svc, err := service.LoadAll(context.Background(), service.LoadOptions{Root: dir, Tasks: manager}, logger)
	require.NoError(t, err)
	assert.NotNil(t, svc.Social)
	assert.NotNil(t, svc.Explorer)
	assert.NotNil(t, svc.Indicators)
	assert.NotNil(t, svc.Advisor)
	assert.NotNil(t, svc.Reactivity)
	assert.Len(t, svc.Social.Friendships().Records(), len(ds.Friendships))
}
