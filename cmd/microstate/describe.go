package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe [path]",
	Short: "List the schema nodes of the tree and their transitions",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := loadRoot(cmd)
		if err != nil {
			return err
		}
		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		node, err := nodeAt(root, path)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PATH\tTYPE\tTRANSITIONS")
		for _, field := range node.Describe() {
			display := field.Path
			if display == "" {
				display = "."
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", display, field.Type, strings.Join(field.Transitions, ","))
		}
		return w.Flush()
	},
}

var stateCmd = &cobra.Command{
	Use:   "state [path]",
	Short: "Print the collapsed state of a node as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := loadRoot(cmd)
		if err != nil {
			return err
		}
		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		node, err := nodeAt(root, path)
		if err != nil {
			return err
		}
		collapsed, err := node.Collapsed()
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), collapsed)
	},
}

func init() {
	rootCmd.AddCommand(describeCmd, stateCmd)
}
