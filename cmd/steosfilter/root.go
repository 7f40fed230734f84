package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/steosofficial/steosfilter/config"
)

// app - общее состояние подкоманд, заполняется до их запуска.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var dictPath string

	root := &cobra.Command{
		Use:          "steosfilter",
		Short:        "Морфологический фильтр токенов для поисковых индексов",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dictPath != "" {
				cfg.Dictionary.Path = dictPath
			}
			a.cfg = cfg
			a.logger = newLogger(cfg.Log, cmd.ErrOrStderr())
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&dictPath, "dict", "d", "", "путь к словарю (по умолчанию из настроек)")

	root.AddCommand(
		newAnalyzeCmd(a),
		newBuildCmd(a),
		newLemmasCmd(a),
	)
	return root
}
