package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/steosofficial/steosfilter/config"
	"github.com/steosofficial/steosfilter/filter"
	"github.com/steosofficial/steosfilter/pipeline"
)

var errNotCreated = errors.New("анализатор не создан: вызовите CreateAnalyzer")

var (
	mu      sync.RWMutex
	current *pipeline.Pipeline
)

type response struct {
	Tokens []filter.Token `json:"tokens,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// create загружает конвейер, заменяя предыдущий.
func create(path string) error {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("загрузка настроек", "error", err)
		return err
	}
	if path != "" {
		cfg.Dictionary.Path = path
	}

	p, err := pipeline.New(*cfg, slog.Default())
	if err != nil {
		slog.Error("создание анализатора", "error", err)
		return err
	}

	mu.Lock()
	old := current
	current = p
	mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	return nil
}

func analyzeJSON(text, variant string) string {
	mu.RLock()
	defer mu.RUnlock()

	var resp response
	if current == nil {
		resp.Error = errNotCreated.Error()
	} else if tokens, err := current.AnalyzeVariant(text, variant); err != nil {
		resp.Error = err.Error()
	} else {
		resp.Tokens = tokens
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return `{"error":"ошибка сериализации"}`
	}
	return string(data)
}

func release() {
	mu.Lock()
	defer mu.Unlock()
	if current != nil {
		_ = current.Close()
		current = nil
	}
}
