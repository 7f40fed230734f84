package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/steosofficial/steosfilter/filter"
	"github.com/steosofficial/steosfilter/pipeline"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		variant     string
		skipNonWord bool
		inputPath   string
	)

	cmd := &cobra.Command{
		Use:   "analyze [текст...]",
		Short: "Прогнать текст через фильтр и вывести токены в формате JSON Lines",
		Long: "Текст берется из аргументов, из файла (--input) или из стандартного ввода.\n" +
			"Каждый выходной токен печатается отдельной строкой JSON.",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd.InOrStdin(), inputPath, args)
			if err != nil {
				return err
			}

			cfg := *a.cfg
			if variant != "" {
				cfg.Filter.Variant = variant
			}
			if skipNonWord {
				cfg.Filter.SkipNonWord = true
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			p, err := pipeline.New(cfg, a.logger)
			if err != nil {
				return err
			}
			defer p.Close()

			s, err := p.Stream(text, "")
			if err != nil {
				return err
			}
			return writeTokens(cmd.OutOrStdout(), s)
		},
	}

	cmd.Flags().StringVarP(&variant, "filter", "f", "", fmt.Sprintf("фильтр: %s или %s", filter.FilterPOS, filter.FilterSynonyms))
	cmd.Flags().BoolVar(&skipNonWord, "skip-non-word", false, "не выдавать знаки препинания (фильтр "+filter.FilterPOS+")")
	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "файл с текстом")
	return cmd
}

func readText(stdin io.Reader, path string, args []string) (string, error) {
	switch {
	case len(args) > 0:
		return strings.Join(args, " "), nil
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("чтение текста: %w", err)
		}
		return string(data), nil
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("чтение стандартного ввода: %w", err)
		}
		return string(data), nil
	}
}

// writeTokens печатает токены по мере их выдачи фильтром.
func writeTokens(w io.Writer, s filter.Stream) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for {
		tok, err := s.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := enc.Encode(tok); err != nil {
			return fmt.Errorf("запись токена: %w", err)
		}
	}
}
