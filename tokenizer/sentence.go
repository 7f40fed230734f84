// Package tokenizer делит текст на предложения и выдает их токенами для фильтров.
//
// Предложение длиннее filter.MaxChunkLength символов выдается несколькими
// частями, как это делают токенизаторы поисковых движков с ограничением
// на длину токена. Фильтр собирает такие части обратно.
package tokenizer

import (
	"io"
	"unicode"
	"unicode/utf8"

	"github.com/steosofficial/steosfilter/filter"
)

// SentenceTokenizer реализует filter.Stream поверх строки.
// Смещения токенов - байтовые смещения в исходном тексте.
type SentenceTokenizer struct {
	text string
	pos  int
}

// NewSentenceTokenizer создает токенизатор для text.
func NewSentenceTokenizer(text string) *SentenceTokenizer {
	return &SentenceTokenizer{text: text}
}

// Next возвращает следующее предложение или его часть.
func (t *SentenceTokenizer) Next() (filter.Token, error) {
	if t.pos >= len(t.text) {
		return filter.Token{}, io.EOF
	}

	start := t.pos
	end := chunkEnd(t.text, start, sentenceEnd(t.text, start))
	t.pos = end

	return filter.Token{
		Term:              t.text[start:end],
		StartOffset:       start,
		EndOffset:         end,
		PositionIncrement: 1,
		Type:              filter.TypeWord,
	}, nil
}

// Reset начинает разбор нового текста.
func (t *SentenceTokenizer) Reset(text string) {
	t.text = text
	t.pos = 0
}

// sentenceEnd возвращает конец предложения, начинающегося в start:
// позицию после серии знаков конца предложения и следующих за ней пробелов.
func sentenceEnd(text string, start int) int {
	i := start
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size
		if !isTerminator(r) {
			continue
		}
		for i < len(text) {
			r, size = utf8.DecodeRuneInString(text[i:])
			if !isTerminator(r) {
				break
			}
			i += size
		}
		for i < len(text) {
			r, size = utf8.DecodeRuneInString(text[i:])
			if !unicode.IsSpace(r) {
				break
			}
			i += size
		}
		return i
	}
	return len(text)
}

// chunkEnd ограничивает часть предложения [start, end) длиной filter.MaxChunkLength символов.
func chunkEnd(text string, start, end int) int {
	i := start
	for n := 0; i < end && n < filter.MaxChunkLength; n++ {
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return i
}

func isTerminator(r rune) bool {
	switch r {
	case '.', '!', '?', '…':
		return true
	}
	return false
}
