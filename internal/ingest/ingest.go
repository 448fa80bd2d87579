// Package ingest reads the per-city crop price spreadsheets and merges them
// into one consolidated observation table.
package ingest

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/agrovision/cropcast/internal/model"
)

// Cities are the source data folders, one per market.
var Cities = []string{"Thane", "Mumbai", "Nagpur", "Nashik", "Pune", "Raigad"}

// CropFiles maps known source filenames to the crop each one holds. Files not
// listed here are logged and skipped.
var CropFiles = map[string]string{
	"Maize_2016-2025.xlsx":                    "Maize",
	"Rice_2016-2025.xlsx":                     "Rice",
	"Jowar(Sorghum)_2016-2025.xlsx":           "Jowar",
	"Bengal+Gram(Gram)(Whole)_2016-2025.xlsx": "Bengal Gram",
	"Wheat_2016-2025.xlsx":                    "Wheat",
}

// Loader scans a base directory of per-city folders for crop spreadsheets.
type Loader struct {
	baseDir   string
	cities    []string
	cropFiles map[string]string
}

// NewLoader creates a loader over baseDir using the default city and crop
// file sets.
func NewLoader(baseDir string) *Loader {
	return &Loader{baseDir: baseDir, cities: Cities, cropFiles: CropFiles}
}

// NewLoaderWithSources creates a loader with explicit city folders and
// filename-to-crop mappings.
func NewLoaderWithSources(baseDir string, cities []string, cropFiles map[string]string) *Loader {
	return &Loader{baseDir: baseDir, cities: cities, cropFiles: cropFiles}
}

// Load reads every recognized spreadsheet under every city folder, labels the
// rows with crop and city, and collapses duplicate (date, crop, city) rows by
// averaging their prices. Missing folders and unreadable files are logged and
// skipped; the only terminal condition is zero rows loaded overall.
func (l *Loader) Load(ctx context.Context) ([]model.PriceObservation, error) {
	log := zap.L().With(zap.String("component", "ingest"))

	var mu sync.Mutex
	var all []model.PriceObservation

	g, ctx := errgroup.WithContext(ctx)
	for _, city := range l.cities {
		g.Go(func() error {
			rows, err := l.loadCity(ctx, log, city)
			if err != nil {
				return err
			}
			mu.Lock()
			all = append(all, rows...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(all) == 0 {
		return nil, eris.Errorf("ingest: no observations loaded from %s", l.baseDir)
	}

	merged := MergeDuplicates(all)
	log.Info("ingest complete",
		zap.Int("raw_rows", len(all)),
		zap.Int("rows", len(merged)),
	)
	return merged, nil
}

func (l *Loader) loadCity(ctx context.Context, log *zap.Logger, city string) ([]model.PriceObservation, error) {
	cityDir := filepath.Join(l.baseDir, city)
	entries, err := os.ReadDir(cityDir)
	if err != nil {
		log.Warn("city folder unreadable, skipping",
			zap.String("city", city),
			zap.String("dir", cityDir),
			zap.Error(err),
		)
		return nil, nil
	}

	var rows []model.PriceObservation
	for _, entry := range entries {
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "ingest: cancelled")
		}
		if entry.IsDir() {
			continue
		}
		crop, ok := l.cropFiles[entry.Name()]
		if !ok {
			log.Warn("unrecognized file, skipping",
				zap.String("city", city),
				zap.String("file", entry.Name()),
			)
			continue
		}

		path := filepath.Join(cityDir, entry.Name())
		fileRows, err := readPriceSheet(path, crop, city)
		if err != nil {
			log.Warn("file unreadable, skipping",
				zap.String("path", path),
				zap.Error(err),
			)
			continue
		}
		rows = append(rows, fileRows...)
	}
	return rows, nil
}

type pairKey struct {
	date time.Time
	crop string
	city string
}

// MergeDuplicates collapses rows sharing (date, crop, city) into one row
// whose price is the arithmetic mean of the group. Rows with a missing price
// pass through untouched so the cleaner can handle them. Idempotent: running
// it on already-deduplicated data returns an identical table.
func MergeDuplicates(rows []model.PriceObservation) []model.PriceObservation {
	groups := make(map[pairKey][]model.PriceObservation, len(rows))
	var order []pairKey
	for _, r := range rows {
		k := pairKey{date: r.Date, crop: r.Crop, city: r.City}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], r)
	}

	out := make([]model.PriceObservation, 0, len(order))
	for _, k := range order {
		group := groups[k]
		if len(group) == 1 {
			out = append(out, group[0])
			continue
		}
		var sum float64
		var n int
		for _, r := range group {
			if r.HasPrice() {
				sum += r.Price
				n++
			}
		}
		merged := group[0]
		if n > 0 {
			merged.Price = sum / float64(n)
		}
		out = append(out, merged)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		if out[i].Crop != out[j].Crop {
			return out[i].Crop < out[j].Crop
		}
		return out[i].City < out[j].City
	})
	return out
}
