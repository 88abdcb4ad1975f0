package main

import (
	"github.com/goliatone/go-microstate/schema/openapi"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print an OpenAPI document describing the tree",
	RunE: func(cmd *cobra.Command, _ []string) error {
		root, err := loadRoot(cmd)
		if err != nil {
			return err
		}
		title, _ := cmd.Flags().GetString("title")
		document, err := openapi.Document(root, openapi.WithInfo(title, ""))
		if err != nil {
			return err
		}
		if validate, _ := cmd.Flags().GetBool("validate"); validate {
			if err := openapi.Validate(cmd.Context(), document); err != nil {
				return err
			}
		}
		return writeJSON(cmd.OutOrStdout(), document)
	},
}

func init() {
	schemaCmd.Flags().String("title", "", "Document title")
	schemaCmd.Flags().Bool("validate", true, "Validate the document before printing")
	rootCmd.AddCommand(schemaCmd)
}
