package morph

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/steosofficial/steosfilter/analyzer"
)

// CachedParser хранит разборы недавно встреченных слов.
// Частотные слова ("i", "w", "nie") повторяются почти в каждом предложении,
// а отрицательный результат (nil) кэшируется так же, как положительный.
type CachedParser struct {
	parser WordParser
	cache  *lru.Cache[string, []*analyzer.Parsed]
}

// NewCachedParser создает кэш на size слов. lru.Cache безопасен для конкурентного использования.
func NewCachedParser(parser WordParser, size int) (*CachedParser, error) {
	cache, err := lru.New[string, []*analyzer.Parsed](size)
	if err != nil {
		return nil, fmt.Errorf("создание кэша разборов: %w", err)
	}
	return &CachedParser{parser: parser, cache: cache}, nil
}

// Parse реализует WordParser.
func (c *CachedParser) Parse(word string) []*analyzer.Parsed {
	if parses, ok := c.cache.Get(word); ok {
		return parses
	}
	parses := c.parser.Parse(word)
	c.cache.Add(word, parses)
	return parses
}

// Len возвращает количество слов в кэше.
func (c *CachedParser) Len() int {
	return c.cache.Len()
}
