package filter

import (
	"strings"

	"github.com/steosofficial/steosfilter/morph"
)

// SentenceStartMarker - текст токена начала предложения.
const SentenceStartMarker = "SENT_START"

// POSFilter выдает для каждого слова сам токен слова (смещение позиции 1),
// а за ним все теги частей речи и леммы с нулевым смещением позиции.
//
// Теги и леммы кладутся в стек в порядке вариантов разбора (тег перед леммой),
// поэтому выходят в обратном порядке.
type POSFilter struct {
	src         readingSource
	skipNonWord bool
	stack       emissionStack
	captured    Token // Смещения текущего слова, общие для всех токенов из стека.
}

// NewPOSFilter создает фильтр поверх input.
func NewPOSFilter(input Stream, a morph.Analyzer, opts ...Option) *POSFilter {
	o := buildOptions(opts)
	return &POSFilter{
		src:         readingSource{input: input, analyzer: a, logger: o.logger},
		skipNonWord: o.skipNonWord,
	}
}

// Next реализует Stream.
func (f *POSFilter) Next() (Token, error) {
	if item, ok := f.stack.pop(); ok {
		tok := f.captured
		tok.Term = item.text
		tok.Type = item.typ
		tok.PositionIncrement = 0
		return tok, nil
	}

	for {
		r, raw, passthrough, err := f.src.nextReading()
		if err != nil {
			return Token{}, err
		}
		if passthrough {
			return raw, nil
		}

		switch {
		case r.SentenceStart:
			return f.sentenceStart(r), nil
		case r.Whitespace, len(r.Tokens) == 0:
			continue
		case r.NonWord && f.skipNonWord:
			continue
		}
		return f.expand(r), nil
	}
}

// sentenceStart собирает единственный токен начала предложения:
// маркер, тег и (если есть) лемма первого варианта разбора.
func (f *POSFilter) sentenceStart(r morph.Reading) Token {
	tok := Token{
		Term:              SentenceStartMarker,
		StartOffset:       f.src.base,
		EndOffset:         f.src.base,
		PositionIncrement: 1,
		Type:              TypePOS,
	}
	if len(r.Tokens) == 0 {
		return tok
	}
	first := r.Tokens[0]
	tok.Term += first.POSTag
	if first.Lemma != "" {
		tok.Term += first.Lemma
		tok.Type = TypeLemma
	}
	return tok
}

// expand заполняет стек тегами и леммами слова и возвращает токен самого слова.
func (f *POSFilter) expand(r morph.Reading) Token {
	for _, t := range r.Tokens {
		if t.POSTag != "" {
			f.stack.push(t.POSTag, TypePOS)
		}
		if t.Lemma != "" {
			f.stack.push(t.Lemma, TypeLemma)
		}
	}
	if f.stack.len() == 0 {
		// Нет ни тегов, ни лемм: само слово в нижнем регистре считается леммой.
		f.stack.push(strings.ToLower(r.Surface()), TypeLemma)
	}

	f.captured = Token{
		StartOffset: f.src.base + r.StartPos,
		EndOffset:   f.src.base + r.EndPos,
	}
	tok := f.captured
	tok.Term = r.Surface()
	tok.Type = TypeWord
	tok.PositionIncrement = 1
	return tok
}

// Reset подготавливает фильтр к новому входному потоку.
// Незавершенный текст в буфере отбрасывается.
func (f *POSFilter) Reset(input Stream) {
	f.src.reset(input)
	f.stack.reset()
	f.captured = Token{}
}
