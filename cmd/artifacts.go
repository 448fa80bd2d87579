package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/agrovision/cropcast/internal/advisor"
	"github.com/agrovision/cropcast/internal/history"
	"github.com/agrovision/cropcast/internal/model"
	"github.com/agrovision/cropcast/internal/predictor"
	"github.com/agrovision/cropcast/internal/regressor"
	"github.com/agrovision/cropcast/internal/store"
)

// serving bundles the immutable startup artifacts shared by the serve and
// predict commands. Any missing or unreadable artifact aborts startup.
type serving struct {
	store  *store.SQLiteStore
	model  *regressor.Model
	crops  *model.CodeMapping
	cities *model.CodeMapping
	hist   *history.Index
	svc    *predictor.Service
	adv    *advisor.Advisor
}

func initServing(ctx context.Context) (*serving, error) {
	m, err := regressor.Load(cfg.Artifacts.ModelPath)
	if err != nil {
		return nil, eris.Wrap(err, "startup: load model")
	}

	crops, err := loadCodes(cfg.Artifacts.CropCodesPath)
	if err != nil {
		return nil, eris.Wrap(err, "startup: load crop codes")
	}
	cities, err := loadCodes(cfg.Artifacts.CityCodesPath)
	if err != nil {
		return nil, eris.Wrap(err, "startup: load city codes")
	}

	st, err := store.NewSQLite(cfg.Store.DSN)
	if err != nil {
		return nil, eris.Wrap(err, "startup: open store")
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "startup: migrate store")
	}

	rows, err := st.LoadObservations(ctx)
	if err != nil {
		st.Close()
		return nil, eris.Wrap(err, "startup: load observations")
	}
	if len(rows) == 0 {
		st.Close()
		return nil, eris.New("startup: observation table is empty; run `cropcast ingest` first")
	}

	hist := history.NewIndex(rows)
	svc := predictor.New(m, crops, cities, hist, predictor.Options{
		ExcludedCities: cfg.Advisory.ExcludedCities,
	})

	tables := advisor.DefaultTables()
	tables.InflationRate = cfg.Advisory.InflationRate
	if cfg.Advisory.DefaultCost > 0 {
		tables.DefaultCost = decimal.NewFromFloat(cfg.Advisory.DefaultCost)
	}
	adv := advisor.New(svc, tables)

	return &serving{
		store:  st,
		model:  m,
		crops:  crops,
		cities: cities,
		hist:   hist,
		svc:    svc,
		adv:    adv,
	}, nil
}

func (s *serving) Close() {
	_ = s.store.Close()
}

func loadCodes(path string) (*model.CodeMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read %s", path)
	}
	var m model.CodeMapping
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, eris.Wrapf(err, "unmarshal %s", path)
	}
	return &m, nil
}

func saveJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "create dir for %s", path)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return eris.Wrapf(err, "marshal %s", path)
	}
	return eris.Wrapf(os.WriteFile(path, data, 0o644), "write %s", path)
}
