package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jalad-shrimali/cdr-analyst/report"
)

func exportCommand(a *app) *cobra.Command {
	var (
		carrierName string
		outDir      string
		top         int
	)
	cmd := &cobra.Command{
		Use:   "export FILE NUMBER",
		Short: "Run both analyses and write an xlsx report",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k := top
			if k <= 0 {
				k = a.cfg.Analysis.TopK
			}
			if outDir == "" {
				outDir = a.cfg.Paths.Reports
			}
			rep, err := a.svc.Analyze(cmd.Context(), args[0], args[1], carrierName, k)
			if err != nil {
				return err
			}
			path, err := report.Write(outDir, rep)
			if err != nil {
				return err
			}
			a.logger.Info("report written", "carrier", rep.Carrier, "records", rep.Records,
				"bts", len(rep.BTS), "contacts", len(rep.TopContacts), "path", path)
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&carrierName, "carrier", "c", "", "carrier: digitel, movistar or movilnet")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "report directory (default paths.reports)")
	cmd.Flags().IntVarP(&top, "top", "k", 0, "number of contacts (default analysis.top_k)")
	_ = cmd.MarkFlagRequired("carrier")
	return cmd
}
