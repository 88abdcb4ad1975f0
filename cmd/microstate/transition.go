package main

import (
	"github.com/spf13/cobra"
)

var transitionCmd = &cobra.Command{
	Use:   "transition <path> <name> [args...]",
	Short: "Run a transition and print the next root value",
	Long: `Runs the named transition on the node at path ("." for the root).
Arguments are parsed as JSON when possible and passed as strings otherwise.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := loadRoot(cmd)
		if err != nil {
			return err
		}
		node, err := nodeAt(root, args[0])
		if err != nil {
			return err
		}
		params := make([]any, 0, len(args)-2)
		for _, raw := range args[2:] {
			params = append(params, parseArg(raw))
		}
		next, err := node.Transition(args[1], params...)
		if err != nil {
			return err
		}

		showTrace, _ := cmd.Flags().GetBool("trace")
		if showTrace {
			if trace, ok := next.Origin(); ok {
				return writeJSON(cmd.OutOrStdout(), trace)
			}
		}
		return writeJSON(cmd.OutOrStdout(), next.Value())
	},
}

func init() {
	transitionCmd.Flags().Bool("trace", false, "Print the transition trace instead of the next value")
	rootCmd.AddCommand(transitionCmd)
}
