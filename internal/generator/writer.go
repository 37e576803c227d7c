package generator

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanshika/demolab/internal/dataset"
	"github.com/vanshika/demolab/internal/service"
)

// Files written by WriteDataset.
var Files = []string{
	"friendships.csv", "interactions.csv", "401k.csv", "gdp.csv", "countries.json", "advertising.csv", "iris.csv",
}

// WriteDataset serializes every table under the provided directory.
func WriteDataset(ds Dataset, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	friendships, err := service.FriendshipsFrame(ds.Friendships)
	if err != nil {
		return err
	}
	interactions, err := service.InteractionsFrame(ds.Interactions)
	if err != nil {
		return err
	}

	indexed := []struct {
		name  string
		frame *dataset.Frame
	}{
		{"friendships.csv", friendships},
		{"interactions.csv", interactions},
		{"401k.csv", ds.Households},
		{"gdp.csv", ds.Indicators},
		{"iris.csv", ds.Iris},
	}
	for _, t := range indexed {
		if err := writeFrame(filepath.Join(dir, t.name), t.frame); err != nil {
			return err
		}
	}
	if err := writePlainCSV(filepath.Join(dir, "advertising.csv"), ds.Advertising); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, "countries.json"), ds.Countries)
}

func writeFrame(path string, frame *dataset.Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	if err := frame.WriteCSV(file); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// writePlainCSV writes frame without its index column.
func writePlainCSV(path string, frame *dataset.Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	columns := frame.Columns()
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	record := make([]string, len(columns))
	for i := 0; i < frame.Len(); i++ {
		for j, c := range columns {
			record[j] = frame.Value(i, c)
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	w.Flush()
	return w.Error()
}

func writeJSON(path string, data any) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encode json for %s: %w", path, err)
	}
	return nil
}
