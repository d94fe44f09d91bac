package cmd

import (
	"github.com/ih4temyself/cyberkit-v1/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cyberkit",
	Short: "Security habits trainer for the terminal",
	Long:  "Cyberkit — terminal app that teaches everyday security habits through short modules, quizzes and mini-games.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides CYBERKIT_DB env var)")
	rootCmd.PersistentFlags().String("api", "", "Content API base URL (overrides CYBERKIT_API env var)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(modulesCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then CYBERKIT_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
