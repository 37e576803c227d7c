package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/demolab/internal/classify"
	"github.com/vanshika/demolab/internal/dataset"
	"github.com/vanshika/demolab/internal/figure"
	"github.com/vanshika/demolab/internal/tasks"
)

func TestSum(t *testing.T) {
	got, err := Sum("1", " 2.5")
	require.NoError(t, err)
	assert.Equal(t, 3.5, got)

	_, err = Sum("one", "2")
	require.ErrorIs(t, err, ErrInvalidInput)

	assert.Equal(t, "2", SumText("1", "1"))
	assert.Equal(t, NotCalculable, SumText("x", "1"))
}

func TestBarPlot(t *testing.T) {
	plot := BarPlot("3", "-5")
	require.Equal(t, "Figure", plot.Type)
	fig, ok := plot.Props["figure"].(figure.Figure)
	require.True(t, ok)
	assert.Equal(t, []float64{3, -5, -2}, fig.Series[0].X)
	assert.Equal(t, []string{figure.Green, figure.Red, figure.Red}, fig.Series[0].Colors)

	invalid := BarPlot("3", "five")
	require.Len(t, invalid.Children, 1)
	assert.Equal(t, MsgNonNumeric, invalid.Children[0].Props["text"])
}

func TestTextHelpers(t *testing.T) {
	assert.Equal(t, "txet yM", Backwards("My text"))
	assert.Equal(t, "", Backwards(""))
	assert.Len(t, Vertical("héllo").Children, 5)
}

func irisLike(t *testing.T) *dataset.Frame {
	t.Helper()
	f := dataset.New("", "x", "y", irisTarget)
	centers := map[string][2]float64{"setosa": {0, 0}, "versicolor": {6, 6}, "virginica": {0, 6}}
	offsets := [][2]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}, {0.5, 0.5}}
	n := 0
	for _, species := range []string{"setosa", "versicolor", "virginica"} {
		c := centers[species]
		for rep := 0; rep < 2; rep++ {
			for _, o := range offsets {
				x := strconv.FormatFloat(c[0]+o[0]+0.1*float64(rep), 'f', -1, 64)
				y := strconv.FormatFloat(c[1]+o[1], 'f', -1, 64)
				require.NoError(t, f.AppendRow(strconv.Itoa(n), x, y, species))
				n++
			}
		}
	}
	return f
}

func TestGridSearchRunsAsTask(t *testing.T) {
	manager := tasks.NewManager(1, time.Minute, discardLogger())
	defer manager.Close()
	svc := NewReactivityService(irisLike(t), manager, discardLogger())

	snap, err := svc.StartGridSearch(GridSearchParams{
		Kernels: []classify.Kernel{classify.Linear},
		C:       []float64{1},
		Gamma:   []float64{0.5},
	})
	require.NoError(t, err)
	assert.Equal(t, gridSearchTask, snap.Name)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	done, err := manager.Wait(ctx, snap.ID)
	require.NoError(t, err)
	require.Equal(t, tasks.StatusSucceeded, done.Status, done.Error)

	report, err := svc.GridSearchResult(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, classify.Linear, report.Best.Kernel)
	assert.Equal(t, 1.0, report.Accuracy)
	assert.Equal(t, []string{"setosa", "versicolor", "virginica"}, report.Classes)
	require.Len(t, report.Matrix, 3)
	assert.Equal(t, figure.KindHeatmap, report.Figure.Kind)
	assert.Len(t, report.Figure.Cells, 9)

	_, err = svc.GridSearchResult("nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGridSearchRejectsUnknownKernel(t *testing.T) {
	manager := tasks.NewManager(1, time.Minute, discardLogger())
	defer manager.Close()
	svc := NewReactivityService(irisLike(t), manager, discardLogger())

	_, err := svc.StartGridSearch(GridSearchParams{Kernels: []classify.Kernel{"cubic"}})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestGridSearchResultBeforeFinish(t *testing.T) {
	manager := tasks.NewManager(1, time.Minute, discardLogger())
	defer manager.Close()
	release := make(chan struct{})
	snap := manager.Submit("slow", func(ctx context.Context, _ tasks.Updater) (any, error) {
		<-release
		return nil, nil
	})
	svc := NewReactivityService(irisLike(t), manager, discardLogger())

	_, err := svc.GridSearchResult(snap.ID)
	require.ErrorIs(t, err, tasks.ErrNotFinished)

	close(release)
	_, err = manager.Wait(context.Background(), snap.ID)
	require.NoError(t, err)
	_, err = svc.GridSearchResult(snap.ID)
	require.ErrorIs(t, err, ErrInvalidInput)
}
