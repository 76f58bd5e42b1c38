package commands

import "github.com/spf13/cobra"

func (c *CLI) newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the type names prefab can resolve",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Types(cmd.Context(), options(cmd), cmd.OutOrStdout())
		},
	}
}
