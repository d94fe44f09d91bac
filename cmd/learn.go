package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ih4temyself/cyberkit-v1/internal/app"
	"github.com/ih4temyself/cyberkit-v1/internal/config"
	"github.com/ih4temyself/cyberkit-v1/internal/content"
	"github.com/ih4temyself/cyberkit-v1/internal/logging"
	"github.com/ih4temyself/cyberkit-v1/internal/password"
	"github.com/ih4temyself/cyberkit-v1/internal/store"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	if api, _ := cmd.Flags().GetString("api"); api != "" {
		cfg.APIBaseURL = api
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	// The TUI owns the terminal, so logs go to a file or nowhere.
	log, err := logging.NewTUI(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	return app.Run(app.Options{
		Client:        content.NewHTTPClient(cfg.APIBaseURL, log),
		Progress:      st.ProgressRepo(),
		Events:        st.EventRepo(),
		Checker:       password.NewClient(cfg.APIBaseURL, log),
		Logger:        log,
		FeedbackDelay: cfg.FeedbackDelay,
	})
}
