// Package config загружает настройки steosfilter из YAML-файла и переменных окружения.
package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"golang.org/x/text/language"

	"github.com/steosofficial/steosfilter/filter"
)

// EnvConfigPath - переменная окружения с путем к YAML-файлу настроек.
const EnvConfigPath = "STEOSFILTER_CONFIG"

const defaultConfigPath = "./steosfilter.yaml"

// Config - корневая конфигурация.
type Config struct {
	Dictionary DictionaryConfig `yaml:"dictionary"`
	Filter     FilterConfig     `yaml:"filter"`
	Log        LogConfig        `yaml:"log"`
}

// DictionaryConfig - настройки словаря.
type DictionaryConfig struct {
	Path      string `yaml:"path"       env:"STEOSFILTER_DICT_PATH"`
	Language  string `yaml:"language"   env:"STEOSFILTER_LANGUAGE"   env-default:"pl"`
	CacheSize int    `yaml:"cache_size" env:"STEOSFILTER_CACHE_SIZE" env-default:"4096"` // 0 - без кэша.
}

// FilterConfig - настройки фильтра.
type FilterConfig struct {
	Variant     string `yaml:"variant"       env:"STEOSFILTER_FILTER"        env-default:"morph_stem"`
	SkipNonWord bool   `yaml:"skip_non_word" env:"STEOSFILTER_SKIP_NON_WORD" env-default:"false"`
}

// LogConfig - настройки логирования.
type LogConfig struct {
	Level  string `yaml:"level"  env:"STEOSFILTER_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"STEOSFILTER_LOG_FORMAT" env-default:"text"`
}

// Load читает конфигурацию. Приоритет: окружение > YAML > значения по умолчанию.
// Путь к файлу берется из STEOSFILTER_CONFIG (по умолчанию ./steosfilter.yaml).
// Если файла нет и путь не задан явно, используются только окружение и умолчания.
func Load() (*Config, error) {
	var cfg Config

	path := os.Getenv(EnvConfigPath)
	explicitPath := path != ""
	if !explicitPath {
		path = defaultConfigPath
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: чтение %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: файл %s: %w", path, err)
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: чтение окружения: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Validate проверяет значения после загрузки. Load вызывает ее сам.
func (c *Config) Validate() error {
	if _, err := language.Parse(c.Dictionary.Language); err != nil {
		return fmt.Errorf("dictionary.language %q: %w", c.Dictionary.Language, err)
	}
	if c.Dictionary.CacheSize < 0 {
		return fmt.Errorf("dictionary.cache_size должен быть >= 0 (получено %d)", c.Dictionary.CacheSize)
	}
	if names := filter.NewRegistry().Names(); !slices.Contains(names, c.Filter.Variant) {
		return fmt.Errorf("filter.variant %q: допустимые значения %s", c.Filter.Variant, strings.Join(names, ", "))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format %q: ожидалось text или json", c.Log.Format)
	}
	return nil
}
