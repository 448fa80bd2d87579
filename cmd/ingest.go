package main

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agrovision/cropcast/internal/ingest"
	"github.com/agrovision/cropcast/internal/store"
)

var ingestDir string

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Read per-city crop spreadsheets into the consolidated table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		dir := ingestDir
		if dir == "" {
			dir = cfg.Data.Dir
		}

		rows, err := ingest.NewLoader(dir).Load(ctx)
		if err != nil {
			return eris.Wrap(err, "ingest")
		}

		st, err := store.NewSQLite(cfg.Store.DSN)
		if err != nil {
			return eris.Wrap(err, "open store")
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}
		if err := st.ReplaceObservations(ctx, rows); err != nil {
			return eris.Wrap(err, "store observations")
		}

		if err := os.MkdirAll(filepath.Dir(cfg.Data.CombinedPath), 0o755); err != nil {
			return eris.Wrap(err, "create combined dir")
		}
		if err := ingest.WriteWorkbook(cfg.Data.CombinedPath, rows); err != nil {
			return eris.Wrap(err, "write combined workbook")
		}

		zap.L().Info("ingest complete",
			zap.Int("rows", len(rows)),
			zap.String("combined", cfg.Data.CombinedPath),
			zap.String("store", cfg.Store.DSN),
		)
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestDir, "dir", "", "dataset directory (default from config)")
	rootCmd.AddCommand(ingestCmd)
}
