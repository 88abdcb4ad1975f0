package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	microstate "github.com/goliatone/go-microstate"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "microstate",
	Short: "Inspect and transition microstates defined in YAML",
	Long: `microstate loads type definitions from a YAML document, derives the
microstate tree for a JSON value and runs transitions against it.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("definitions", "d", "microstate.yaml", "YAML document declaring the types")
	rootCmd.PersistentFlags().StringP("type", "t", "", "Root type name")
	rootCmd.PersistentFlags().String("value", "", "Root value as JSON (empty for none)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn or error")
}

// loadRoot reads the definitions, resolves the root type and analyzes the
// configured value.
func loadRoot(cmd *cobra.Command) (*microstate.Node, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("definitions")
	typeName, _ := flags.GetString("type")
	rawValue, _ := flags.GetString("value")
	level, _ := flags.GetString("log-level")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definitions: %w", err)
	}
	registry, err := microstate.LoadDefinitions(data)
	if err != nil {
		return nil, err
	}
	if typeName == "" {
		names := registry.Names()
		if len(names) != 1 {
			return nil, fmt.Errorf("--type is required when the document declares %d types", len(names))
		}
		typeName = names[0]
	}
	rootType, ok := registry.Lookup(typeName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", microstate.ErrUnknownType, typeName)
	}

	var value any
	if strings.TrimSpace(rawValue) != "" {
		if value, err = parseJSON(rawValue); err != nil {
			return nil, fmt.Errorf("parse --value: %w", err)
		}
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: parseLevel(level)}))
	return microstate.Analyze(rootType, value,
		microstate.WithLogger(microstate.NewSlogLogger(logger)),
		microstate.WithContext(cmd.Context()),
	)
}

func parseLevel(level string) slog.Level {
	var out slog.Level
	if err := out.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelWarn
	}
	return out
}
