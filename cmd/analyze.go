package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jalad-shrimali/cdr-analyst/cdr"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func btsCommand(a *app) *cobra.Command {
	var (
		carrierName string
		asJSON      bool
	)
	cmd := &cobra.Command{
		Use:   "bts FILE NUMBER",
		Short: "List records where NUMBER was reached at a known location",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			matches, err := a.svc.AnalyzeBTS(cmd.Context(), args[0], args[1], carrierName)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, matches)
			}
			if len(matches) == 0 {
				fmt.Fprintln(out, "no location evidence found")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ABONADO A\tFECHA\tHORA\tTIPO\tDIRECCION B\tCOORDENADAS B")
			for _, m := range matches {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					m.Caller, m.Date, m.Time, m.TransactionType, m.AddressB, m.CoordinatesB)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&carrierName, "carrier", "c", "", "carrier: digitel, movistar or movilnet")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	_ = cmd.MarkFlagRequired("carrier")
	return cmd
}

func contactsCommand(a *app) *cobra.Command {
	var (
		carrierName string
		top         int
		asJSON      bool
	)
	cmd := &cobra.Command{
		Use:   "contacts FILE NUMBER",
		Short: "Rank the numbers NUMBER communicates with most",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k := top
			if k <= 0 {
				k = a.cfg.Analysis.TopK
			}
			res, err := a.svc.AnalyzeFrequency(cmd.Context(), args[0], args[1], carrierName, k)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, res)
			}
			printContacts(out, res.TopContacts)
			return nil
		},
	}
	cmd.Flags().StringVarP(&carrierName, "carrier", "c", "", "carrier: digitel, movistar or movilnet")
	cmd.Flags().IntVarP(&top, "top", "k", 0, "number of contacts (default analysis.top_k)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	_ = cmd.MarkFlagRequired("carrier")
	return cmd
}

func printContacts(out io.Writer, contacts []cdr.ContactFrequency) {
	if len(contacts) == 0 {
		fmt.Fprintln(out, "no contacts found")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NUMERO\tFRECUENCIA\tPRIMER CONTACTO\tULTIMO CONTACTO")
	for _, c := range contacts {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", c.Number, c.Frequency, c.FirstContact, c.LastContact)
	}
	tw.Flush()
}
