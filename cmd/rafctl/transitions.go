package main

import (
	"io"
	"strings"

	casedomain "raf_pnp_backend/internal/cases/domain"
	"raf_pnp_backend/platform/config"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func transitionsCmd() *cobra.Command {
	var file, policy string
	cmd := &cobra.Command{
		Use:   "transitions",
		Short: "Print the effective case transition table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if file == "" {
				file = cfg.GetCaseTransitionsFile()
			}
			if policy == "" {
				policy = cfg.GetCaseTransitionPolicy()
			}
			t, err := casedomain.ResolveTable(policy, file)
			if err != nil {
				return err
			}
			renderTransitions(cmd.OutOrStdout(), t)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "YAML transition table (overrides CASE_TRANSITIONS_FILE)")
	cmd.Flags().StringVar(&policy, "policy", "", "built-in table: permissive or standard")
	return cmd
}

func renderTransitions(w io.Writer, t *casedomain.TransitionTable) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetTitle("Transition table: " + t.Name())
	tw.AppendHeader(table.Row{"#", "Stage", "May move to"})
	for _, from := range casedomain.Statuses {
		targets := "any stage"
		if !t.AllowsAll() {
			names := make([]string, 0, len(casedomain.Statuses))
			for _, to := range t.Targets(from) {
				names = append(names, to.ShortName())
			}
			targets = strings.Join(names, ", ")
			if targets == "" {
				targets = "-"
			}
		}
		tw.AppendRow(table.Row{from.Order(), from.DisplayName(), targets})
	}
	tw.Render()
}
