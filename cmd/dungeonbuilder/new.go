package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/samdwyer/dungeonbuilder/data"
)

func newCmd() *cobra.Command {
	var sample string
	var force bool
	cmd := &cobra.Command{
		Use:   "new <level.json>",
		Short: "Write an embedded sample level to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runNew(args[0], sample, force); err != nil {
				return err
			}
			cmd.Printf("Wrote %s from sample %q\n", args[0], sample)
			return nil
		},
	}
	cmd.Flags().StringVar(&sample, "sample", "tutorial", "Sample level to copy")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

func runNew(path, sample string, force bool) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("a level path is required")
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists", path)
	}

	contents, err := data.Sample(sample)
	if err != nil {
		names, _ := data.Samples()
		return fmt.Errorf("%w (available: %s)", err, strings.Join(names, ", "))
	}
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
