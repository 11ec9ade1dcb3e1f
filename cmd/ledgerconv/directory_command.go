package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ledgerconv/internal/config"
	"ledgerconv/internal/lookup"
)

func newDirectoryCommand(ctx *commandContext) *cobra.Command {
	directoryCmd := &cobra.Command{
		Use:   "directory",
		Short: "Manage the tax id record directory",
	}
	directoryCmd.AddCommand(newDirectoryImportCommand(ctx))
	return directoryCmd
}

func newDirectoryImportCommand(ctx *commandContext) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "import <csv>",
		Short: "Load tax id, first, middle and last name rows into the record directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			target := strings.TrimSpace(dbPath)
			if target == "" {
				target = cfg.Lookup.DatabasePath
			}
			if target == "" {
				return fmt.Errorf("no database path: set lookup.database_path or pass --db")
			}
			target, err = config.ExpandPath(target)
			if err != nil {
				return err
			}

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer file.Close()

			people, err := lookup.ReadPeopleCSV(file)
			if err != nil {
				return err
			}
			imported, err := lookup.Import(cmd.Context(), target, people)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries into %s\n", imported, target)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "Directory database (defaults to lookup.database_path)")
	return cmd
}
