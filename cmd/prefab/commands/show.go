package commands

import "github.com/spf13/cobra"

func (c *CLI) newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [types...]",
		Short: "Print the red, black and redCopy values of the given types",
		Example: `  prefab show int time.Duration
  prefab show google.protobuf.Timestamp -c fixtures.yaml`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}
			return c.app.Show(cmd.Context(), args, options(cmd), cmd.OutOrStdout())
		},
	}
}
