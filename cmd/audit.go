package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/agrovision/cropcast/internal/model"
	"github.com/agrovision/cropcast/internal/store"
)

var (
	auditCrop   string
	auditCity   string
	auditStatus string
	auditLimit  int
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "List logged prediction requests",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := store.NewSQLite(cfg.Store.DSN)
		if err != nil {
			return eris.Wrap(err, "open store")
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		entries, err := st.ListPredictions(ctx, store.AuditFilter{
			Crop:   auditCrop,
			City:   auditCity,
			Status: model.AuditStatus(auditStatus),
			Limit:  auditLimit,
		})
		if err != nil {
			return eris.Wrap(err, "list predictions")
		}

		if len(entries) == 0 {
			fmt.Println("no logged predictions")
			return nil
		}

		for _, e := range entries {
			line := fmt.Sprintf("%s  %-8s  %s in %s  target=%s",
				e.CreatedAt.Format("2006-01-02 15:04:05"), e.Status,
				e.Crop, e.City, e.TargetDate.Format("2006-01-02"))
			if e.Status == model.AuditStatusOK {
				line += fmt.Sprintf("  price=%.2f prev=%.2f", e.Price, e.PreviousPrice)
			} else if e.Detail != "" {
				line += "  " + e.Detail
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	auditCmd.Flags().StringVar(&auditCrop, "crop", "", "filter by crop")
	auditCmd.Flags().StringVar(&auditCity, "city", "", "filter by city")
	auditCmd.Flags().StringVar(&auditStatus, "status", "", "filter by status (ok, rejected, failed)")
	auditCmd.Flags().IntVar(&auditLimit, "limit", 20, "maximum entries")
	rootCmd.AddCommand(auditCmd)
}
