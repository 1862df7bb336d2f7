package cmd

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jalad-shrimali/cdr-analyst/carrier"
)

func profilesCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "profiles",
		Short:       "Print the supported carrier layouts as YAML",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"bare": "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(carrier.All()); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
