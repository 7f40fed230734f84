// Package pipeline собирает рабочую цепочку: словарь, анализатор предложений,
// токенизатор и фильтр, выбранный по имени.
package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/steosofficial/steosfilter/analyzer"
	"github.com/steosofficial/steosfilter/config"
	"github.com/steosofficial/steosfilter/filter"
	"github.com/steosofficial/steosfilter/morph"
	"github.com/steosofficial/steosfilter/tokenizer"
)

// Pipeline владеет загруженным словарем. Analyze безопасен для конкурентных вызовов:
// каждый вызов создает собственные токенизатор и фильтр, а анализатор общий.
type Pipeline struct {
	dict     *analyzer.MorphAnalyzer
	analyzer morph.Analyzer
	registry *filter.Registry
	variant  string
	opts     []filter.Option
	logger   *slog.Logger
}

// New загружает словарь и собирает цепочку по конфигурации.
func New(cfg config.Config, logger *slog.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dict, err := analyzer.LoadMorphAnalyzer(cfg.Dictionary.Path)
	if err != nil {
		return nil, fmt.Errorf("загрузка словаря: %w", err)
	}
	if dict.Language() != cfg.Dictionary.Language {
		logger.Warn("язык словаря не совпадает с настройками",
			"dictionary", dict.Language(),
			"config", cfg.Dictionary.Language,
		)
	}

	var parser morph.WordParser = dict
	if cfg.Dictionary.CacheSize > 0 {
		cached, err := morph.NewCachedParser(dict, cfg.Dictionary.CacheSize)
		if err != nil {
			_ = dict.Close()
			return nil, err
		}
		parser = cached
	}

	a, err := morph.NewDictionaryAnalyzer(parser, cfg.Dictionary.Language)
	if err != nil {
		_ = dict.Close()
		return nil, err
	}

	registry := filter.NewRegistry()
	if _, err := registry.Get(cfg.Filter.Variant); err != nil {
		_ = dict.Close()
		return nil, err
	}

	opts := []filter.Option{filter.WithLogger(logger)}
	if cfg.Filter.SkipNonWord {
		opts = append(opts, filter.WithSkipNonWord())
	}

	logger.Info("конвейер готов",
		"language", cfg.Dictionary.Language,
		"filter", cfg.Filter.Variant,
		"cache_size", cfg.Dictionary.CacheSize,
	)
	return &Pipeline{
		dict:     dict,
		analyzer: a,
		registry: registry,
		variant:  cfg.Filter.Variant,
		opts:     opts,
		logger:   logger,
	}, nil
}

// Stream возвращает поток выходных токенов для text с фильтром variant.
// Пустой variant означает фильтр из настроек.
func (p *Pipeline) Stream(text, variant string) (filter.Stream, error) {
	if variant == "" {
		variant = p.variant
	}
	factory, err := p.registry.Get(variant)
	if err != nil {
		return nil, err
	}
	return factory(tokenizer.NewSentenceTokenizer(text), p.analyzer, p.opts...), nil
}

// Analyze прогоняет text через фильтр из настроек.
func (p *Pipeline) Analyze(text string) ([]filter.Token, error) {
	return p.AnalyzeVariant(text, "")
}

// AnalyzeVariant прогоняет text через фильтр variant.
func (p *Pipeline) AnalyzeVariant(text, variant string) ([]filter.Token, error) {
	s, err := p.Stream(text, variant)
	if err != nil {
		return nil, err
	}
	return filter.Collect(s)
}

// Dictionary возвращает загруженный словарь.
func (p *Pipeline) Dictionary() *analyzer.MorphAnalyzer {
	return p.dict
}

// Close освобождает словарь. После Close конвейер использовать нельзя.
func (p *Pipeline) Close() error {
	return p.dict.Close()
}
