package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ih4temyself/cyberkit-v1/internal/config"
	"github.com/ih4temyself/cyberkit-v1/internal/logging"
	"github.com/ih4temyself/cyberkit-v1/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the content API server",
	Long:  "Serves the module catalog, quiz grading and the password audit endpoint over HTTP.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if err := cfg.Validate(); err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}
		if modules, _ := cmd.Flags().GetString("modules"); modules != "" {
			cfg.ModulesPath = modules
		}

		log, err := logging.NewServer(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}
		defer log.Sync()

		bank, err := server.LoadBank(cfg.ModulesPath)
		if err != nil {
			return err
		}

		return server.New(bank, cfg, log).ListenAndServe(cfg.Addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides CYBERKIT_ADDR env var)")
	serveCmd.Flags().String("modules", "", "Module bank JSON file (defaults to the embedded bank)")
}
