// Package main is the entry point for the dungeon builder.
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "dungeonbuilder",
		Short: "Build grid dungeons and play them in the terminal",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Env vars might be set directly
			if err := godotenv.Load(); err != nil {
				log.Printf("Note: .env file not loaded: %v", err)
			}
		},
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.AddCommand(playCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(newCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
