package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ledgerconv/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify directories and the record directory are usable",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			for _, line := range renderSectionHeader("Configuration", colorize) {
				fmt.Fprintln(out, line)
			}
			configDetail := ctx.configPath
			if configDetail == "" {
				configDetail = "defaults"
			}
			fmt.Fprintln(out, renderStatusLine("Config", statusInfo, configDetail, colorize))
			lookupKind, lookupDetail := statusInfo, "disabled"
			if cfg.Lookup.Enabled {
				lookupKind, lookupDetail = statusOK, "enabled"
			}
			fmt.Fprintln(out, renderStatusLine("Tax id lookup", lookupKind, lookupDetail, colorize))
			fmt.Fprintln(out, renderStatusLine("Exception format", statusInfo, cfg.Exceptions.Format, colorize))

			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("Preflight", colorize) {
				fmt.Fprintln(out, line)
			}
			results := preflight.RunAll(cfg)
			for _, result := range results {
				kind := statusOK
				if !result.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}
			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%d preflight checks failed", len(failed))
			}
			return nil
		},
	}
}
