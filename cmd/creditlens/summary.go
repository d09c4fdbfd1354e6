package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"creditlens/internal/core"
	"creditlens/internal/services"
)

func newSummaryCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "summary <statement>",
		Short:        "Print the category summary and comparison without serving",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			report, err := buildReport(ctx, cfg, logger, nil, args[0])
			if err != nil {
				return fmt.Errorf("load statement: %w", err)
			}
			if opts.jsonOut {
				return writeSummaryJSON(cmd.OutOrStdout(), report)
			}
			return writeSummaryText(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Print JSON instead of a table")
	return cmd
}

type amountJSON struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

type comparisonJSON struct {
	Label   string `json:"label"`
	Current string `json:"current"`
	Average string `json:"average"`
	Total   bool   `json:"total,omitempty"`
}

type summaryJSON struct {
	Source      string           `json:"source"`
	Total       string           `json:"total"`
	Records     int              `json:"records"`
	DroppedRows int              `json:"dropped_rows"`
	Categories  []amountJSON     `json:"categories"`
	Siblings    []string         `json:"siblings"`
	Comparison  []comparisonJSON `json:"comparison"`
}

func writeSummaryJSON(w io.Writer, r *services.Report) error {
	out := summaryJSON{
		Source:      r.Statement.Source,
		Total:       r.Total.StringFixed(2),
		Records:     len(r.Statement.Records),
		DroppedRows: r.Statement.DroppedRows,
		Categories:  make([]amountJSON, 0, len(r.Summary)),
		Siblings:    append([]string{}, r.Baseline.Sources...),
		Comparison:  make([]comparisonJSON, 0, len(r.Comparison)),
	}
	for _, c := range r.Summary {
		out.Categories = append(out.Categories, amountJSON{Name: c.Name, Amount: c.Amount.StringFixed(2)})
	}
	for _, c := range r.Comparison {
		out.Comparison = append(out.Comparison, comparisonJSON{
			Label:   c.Label,
			Current: c.Current.StringFixed(2),
			Average: c.Average.StringFixed(2),
			Total:   c.Total,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeSummaryText(w io.Writer, r *services.Report) error {
	fmt.Fprintf(w, "דוח הוצאות - %s\n", core.DisplayName(r.Statement.Source))
	fmt.Fprintf(w, "סה\"כ לחודש: %s\n", core.FormatShekels(r.Total))
	if r.Statement.DroppedRows > 0 {
		fmt.Fprintf(w, "שורות שהושמטו: %d\n", r.Statement.DroppedRows)
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "ענף\tנוכחי\tממוצע\t")
	for _, c := range r.Comparison {
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", c.Label, core.FormatAmount(c.Current), core.FormatAmount(c.Average))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	if r.Baseline.Empty() {
		fmt.Fprintln(w, "לא נמצאו דוחות נוספים להשוואה")
		return nil
	}
	fmt.Fprintf(w, "ממוצע על פני %d דוחות:\n", r.Baseline.Statements)
	for _, s := range r.Baseline.Sources {
		fmt.Fprintf(w, "  %s\n", core.DisplayName(s))
	}
	return nil
}
