package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/templui/gugu/cmd/gugu/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "gugu",
		Short:        "Track daily goals and habits from the terminal",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug output to stderr")

	rootCmd.AddCommand(cmd.GoalsCmd())
	rootCmd.AddCommand(cmd.TemplatesCmd())
	rootCmd.AddCommand(cmd.AddCmd())
	rootCmd.AddCommand(cmd.EditCmd())
	rootCmd.AddCommand(cmd.LogCmd())
	rootCmd.AddCommand(cmd.DeleteCmd())
	rootCmd.AddCommand(cmd.SummaryCmd())
	rootCmd.AddCommand(cmd.WatchCmd())
	rootCmd.AddCommand(cmd.MigrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
