package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ih4temyself/cyberkit-v1/internal/store"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show stored best scores and recorded accuracy",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		ctx := cmd.Context()

		if history, _ := cmd.Flags().GetBool("history"); history {
			return printHistory(ctx, st.EventRepo())
		}

		best, err := st.ProgressRepo().All(ctx)
		if err != nil {
			return fmt.Errorf("read progress: %w", err)
		}
		if len(best) == 0 {
			fmt.Println("No progress recorded yet. Run `cyberkit` to start learning.")
			return nil
		}

		ids := make([]string, 0, len(best))
		for id := range best {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		events := st.EventRepo()
		for _, id := range ids {
			accuracy, err := events.ModuleAccuracy(ctx, id)
			if err != nil {
				return fmt.Errorf("read accuracy for %s: %w", id, err)
			}
			fmt.Printf("%-12s best %-4d accuracy %.0f%%\n", id, best[id], accuracy*100)
		}
		return nil
	},
}

// printHistory lists the most recent answer events, newest first.
func printHistory(ctx context.Context, events store.EventRepo) error {
	answers, err := events.RecentAnswers(ctx, 50)
	if err != nil {
		return fmt.Errorf("read answer history: %w", err)
	}
	if len(answers) == 0 {
		fmt.Println("No answers recorded yet.")
		return nil
	}
	for _, a := range answers {
		// Advisory rows record the submission, not a verdict.
		outcome := "submitted (check)"
		if !a.Advisory {
			if a.Correct {
				outcome = "right (graded)"
			} else {
				outcome = "wrong (graded)"
			}
		}
		fmt.Printf("%s  %-12s %-8s option %d  %s\n",
			a.CreatedAt.Format("2006-01-02 15:04"),
			a.ModuleID, a.QuestionID, a.AnswerIndex, outcome)
	}
	return nil
}

func init() {
	progressCmd.Flags().Bool("history", false, "Show the recent answer history instead of best scores")
}
