package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/samdwyer/dungeonbuilder/internal/config"
	"github.com/samdwyer/dungeonbuilder/internal/gamedata"
	"github.com/samdwyer/dungeonbuilder/internal/levelio"
	"github.com/samdwyer/dungeonbuilder/internal/world"
)

func validateCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "validate <level.json>...",
		Short: "Check level files for authoring mistakes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), os.Stdout, configPath, args)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", config.DefaultPath, "Rules file")
	return cmd
}

func runValidate(ctx context.Context, out io.Writer, configPath string, paths []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	rules, err := config.Load(configPath)
	if err != nil {
		return err
	}
	catalog, err := gamedata.LoadCatalog()
	if err != nil {
		return err
	}
	opts := levelio.Options{
		Width:    rules.Grid.Width,
		Height:   rules.Grid.Height,
		CellSize: rules.Grid.CellSize,
		Catalog:  catalog,
	}

	failed := 0
	for i, path := range paths {
		if i > 0 {
			fmt.Fprintln(out, "")
		}
		fmt.Fprintf(out, "%s:\n", path)
		lvl, err := levelio.LoadFile(ctx, path, opts)
		if err != nil {
			fmt.Fprintf(out, "  - %v\n", err)
			failed++
			continue
		}
		if !report(out, world.Validate(lvl)) {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("validation found errors in %d of %d levels", failed, len(paths))
	}
	return nil
}

// report prints the issues grouped by severity and reports whether the level is playable.
func report(out io.Writer, issues []world.Issue) bool {
	var errorIssues, warnIssues []world.Issue
	for _, issue := range issues {
		switch issue.Severity {
		case world.SeverityError:
			errorIssues = append(errorIssues, issue)
		case world.SeverityWarning:
			warnIssues = append(warnIssues, issue)
		}
	}

	if len(errorIssues) == 0 && len(warnIssues) == 0 {
		fmt.Fprintln(out, "  No issues found.")
		return true
	}
	if len(errorIssues) > 0 {
		fmt.Fprintf(out, "  Errors (%d):\n", len(errorIssues))
		printIssues(out, errorIssues)
	}
	if len(warnIssues) > 0 {
		fmt.Fprintf(out, "  Warnings (%d):\n", len(warnIssues))
		printIssues(out, warnIssues)
	}
	return len(errorIssues) == 0
}

func printIssues(out io.Writer, issues []world.Issue) {
	for _, issue := range issues {
		if issue.TileID == "" {
			fmt.Fprintf(out, "    - %s\n", issue.Message)
			continue
		}
		fmt.Fprintf(out, "    - %s: %s\n", issue.TileID, issue.Message)
	}
}
