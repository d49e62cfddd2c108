package main

import (
	"context"
	"io"

	"raf_pnp_backend/internal/experts"
	"raf_pnp_backend/internal/reports"
	reportsvc "raf_pnp_backend/internal/reports/service"
	"raf_pnp_backend/platform/config"
	"raf_pnp_backend/platform/db"
	"raf_pnp_backend/platform/logger"
	"raf_pnp_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print the case summary report",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(cmd.Context(), func(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, log *logger.Logger) error {
				expertsModule := experts.NewModule(pool, db.NewTxManager(pool), nil, cfg.GetLocation(), validator.New(), log)
				summary, err := reports.NewModule(pool, expertsModule.Service(), cfg.GetLocation()).Service().Summary(ctx)
				if err != nil {
					return err
				}
				renderSummary(cmd.OutOrStdout(), summary)
				return nil
			})
		},
	}
}

func renderSummary(w io.Writer, s reportsvc.Summary) {
	totals := table.NewWriter()
	totals.SetOutputMirror(w)
	totals.SetTitle("Summary")
	totals.AppendHeader(table.Row{"Metric", "Count"})
	totals.AppendRows([]table.Row{
		{"Total cases", s.TotalCases},
		{"Active cases", s.ActiveCases},
		{"Closed cases", s.ClosedCases},
		{"Clients", s.TotalClients},
		{"Awaiting MMI", s.AwaitingMmi},
		{"In 120-day period", s.In120DayPeriod},
		{"Pending experts", s.PendingExperts},
		{"Outstanding expert reports", s.OutstandingExpertReports},
		{"In litigation", s.InLitigation},
		{"Finalised this year", s.FinalisedThisYear},
	})
	totals.Render()

	byStatus := table.NewWriter()
	byStatus.SetOutputMirror(w)
	byStatus.SetTitle("Cases by stage")
	byStatus.AppendHeader(table.Row{"Stage", "Count"})
	for _, c := range s.CasesByStatus {
		byStatus.AppendRow(table.Row{c.StatusName, c.Count})
	}
	byStatus.Render()

	if len(s.ApproachingDeadlines) == 0 {
		return
	}
	deadlines := table.NewWriter()
	deadlines.SetOutputMirror(w)
	deadlines.SetTitle("Approaching deadlines")
	deadlines.AppendHeader(table.Row{"Case", "Client", "Deadline", "Date", "Days"})
	for _, d := range s.ApproachingDeadlines {
		deadlines.AppendRow(table.Row{d.CaseNumber, d.ClientName, d.DeadlineType, d.DeadlineDate.Format("02 Jan 2006"), d.DaysRemaining})
	}
	deadlines.Render()
}
