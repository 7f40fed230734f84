package filter

import (
	"fmt"
	"slices"
	"sync"

	"github.com/steosofficial/steosfilter/morph"
)

// Имена встроенных фильтров.
const (
	FilterPOS      = "morph_stem"
	FilterSynonyms = "morph_synonyms_stem"
)

// Имена, под которыми те же фильтры регистрирует плагин LanguageTool для OpenSearch.
const (
	AliasPOS      = "languagetool_pl_stem"
	AliasSynonyms = "languagetool_synonyms_pl_stem"
)

// Factory создает фильтр поверх входного потока.
type Factory func(input Stream, a morph.Analyzer, opts ...Option) Stream

// Registry хранит фабрики фильтров по именам.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry создает Registry со встроенными фильтрами.
func NewRegistry() *Registry {
	pos := func(input Stream, a morph.Analyzer, opts ...Option) Stream {
		return NewPOSFilter(input, a, opts...)
	}
	synonyms := func(input Stream, a morph.Analyzer, opts ...Option) Stream {
		return NewSynonymFilter(input, a, opts...)
	}
	return &Registry{
		factories: map[string]Factory{
			FilterPOS:      pos,
			FilterSynonyms: synonyms,
			AliasPOS:       pos,
			AliasSynonyms:  synonyms,
		},
	}
}

// Get возвращает фабрику, зарегистрированную под именем name.
func (r *Registry) Get(name string) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("неизвестный фильтр: %q", name)
	}
	return f, nil
}

// Register добавляет фабрику. Повторная регистрация имени - ошибка.
func (r *Registry) Register(name string, f Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("фильтр уже зарегистрирован: %q", name)
	}
	r.factories[name] = f
	return nil
}

// Names возвращает отсортированные имена фильтров.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
