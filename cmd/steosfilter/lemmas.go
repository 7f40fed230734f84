package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/steosofficial/steosfilter/pipeline"
)

func newLemmasCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lemmas [слово...]",
		Short: "Разобрать список слов по словарю",
		Long:  "Слова берутся из аргументов или из стандартного ввода (по одному на строку).",
		RunE: func(cmd *cobra.Command, args []string) error {
			words := args
			if len(words) == 0 {
				sc := bufio.NewScanner(cmd.InOrStdin())
				for sc.Scan() {
					if w := strings.TrimSpace(sc.Text()); w != "" {
						words = append(words, w)
					}
				}
				if err := sc.Err(); err != nil {
					return fmt.Errorf("чтение стандартного ввода: %w", err)
				}
			}

			p, err := pipeline.New(*a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer p.Close()

			parsed, err := p.Dictionary().ParseList(cmd.Context(), words)
			if err != nil {
				return err
			}

			w := bufio.NewWriter(cmd.OutOrStdout())
			for _, p := range parsed {
				fmt.Fprintf(w, "%s\t%s\t%s\n", p.Word, p.Lemma, p.Tags)
			}
			return w.Flush()
		},
	}
}
