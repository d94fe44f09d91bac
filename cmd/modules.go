package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ih4temyself/cyberkit-v1/internal/config"
	"github.com/ih4temyself/cyberkit-v1/internal/content"
)

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List the available learning modules",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if api, _ := cmd.Flags().GetString("api"); api != "" {
			cfg.APIBaseURL = api
		}

		client := content.NewHTTPClient(cfg.APIBaseURL, zap.NewNop())
		refs, err := client.ListModules(cmd.Context())
		if err != nil {
			return fmt.Errorf("list modules: %w", err)
		}

		for _, ref := range refs {
			quiz := "reading only"
			if ref.QuizCount > 0 {
				quiz = fmt.Sprintf("%d questions", ref.QuizCount)
			}
			fmt.Printf("%-12s %-34s %s\n", ref.ID, ref.Title, quiz)
		}
		return nil
	},
}
