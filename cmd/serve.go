package cmd

import (
	"fmt"

	"github.com/abhisek/quizgen/internal/app"
	"github.com/abhisek/quizgen/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the quiz generation API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}
		rulesOnly, _ := cmd.Flags().GetBool("rules-only")

		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Sync()

		opts := app.Options{Config: cfg, RulesOnly: rulesOnly, Version: version, Log: log}
		if !rulesOnly && !cfg.Store.Disabled {
			if opts.DBPath, err = resolveDBPath(cmd, cfg); err != nil {
				return fmt.Errorf("resolve database path: %w", err)
			}
		}

		a, err := app.New(cmd.Context(), opts)
		if err != nil {
			return err
		}
		defer a.Close()

		log.Info("quiz engine ready", "ai", a.Service.HasAI(), "model", a.ModelID)

		h := server.NewHandler(a.Service, cfg.Server.MinTextLength, log)
		return server.Run(cmd.Context(), h, server.Options{
			Addr:           cfg.Server.Addr,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			Log:            log,
		})
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr and QUIZGEN_ADDR)")
	serveCmd.Flags().Bool("rules-only", false, "Skip the LLM and use the rule-based generator")
}
