package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/steosofficial/steosfilter/analyzer"
)

func newBuildCmd(a *app) *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:   "build <словарь.tsv> <словарь.dict>",
		Short: "Скомпилировать словарь из TSV (форма, лемма, теги)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if lang == "" {
				lang = a.cfg.Dictionary.Language
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("открытие исходного словаря: %w", err)
			}
			defer f.Close()

			entries, err := analyzer.ReadEntries(f)
			if err != nil {
				return err
			}
			if err := analyzer.WriteDictionary(args[1], entries, lang); err != nil {
				return err
			}

			a.logger.Info("словарь собран",
				"entries", len(entries),
				"language", lang,
				"path", args[1],
			)
			return nil
		},
	}
	cmd.Flags().StringVarP(&lang, "language", "l", "", "язык словаря (по умолчанию из настроек)")
	return cmd
}
