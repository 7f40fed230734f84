package filter

import (
	"strings"

	"github.com/steosofficial/steosfilter/morph"
)

// expandDepth - глубина повторного анализа лемм. Леммы, найденные при
// повторном анализе, сами уже не анализируются.
const expandDepth = 1

// SynonymFilter выдает для каждого слова только его леммы (тип lemma),
// без повторов, чтобы следующий за ним фильтр синонимов работал по нормальным формам.
// Каждая лемма дополнительно разбирается анализатором как отдельное слово,
// и найденные так леммы тоже попадают в выдачу.
//
// Каждый токен получает смещение позиции 1, поэтому позиции не соответствуют
// словам исходного текста.
type SynonymFilter struct {
	src      readingSource
	stack    emissionStack
	captured Token
}

// NewSynonymFilter создает фильтр поверх input.
func NewSynonymFilter(input Stream, a morph.Analyzer, opts ...Option) *SynonymFilter {
	o := buildOptions(opts)
	return &SynonymFilter{
		src: readingSource{input: input, analyzer: a, logger: o.logger},
	}
}

// Next реализует Stream.
func (f *SynonymFilter) Next() (Token, error) {
	if item, ok := f.stack.pop(); ok {
		return f.emit(item.text), nil
	}

	for {
		r, raw, passthrough, err := f.src.nextReading()
		if err != nil {
			return Token{}, err
		}
		if passthrough {
			return raw, nil
		}
		if r.SentenceStart || r.Whitespace || r.NonWord || len(r.Tokens) == 0 {
			continue
		}

		f.captured = Token{
			StartOffset:       f.src.base + r.StartPos,
			EndOffset:         f.src.base + r.EndPos,
			PositionIncrement: 1,
			Type:              TypeLemma,
		}
		if err := f.fill(r); err != nil {
			f.stack.reset()
			return Token{}, err
		}
		if item, ok := f.stack.pop(); ok {
			return f.emit(item.text), nil
		}
		return f.emit(strings.ToLower(r.Surface())), nil
	}
}

// fill кладет в стек леммы слова без повторов (без учета регистра).
func (f *SynonymFilter) fill(r morph.Reading) error {
	seen := make(map[string]struct{})
	for _, t := range r.Tokens {
		if t.Lemma == "" {
			continue
		}
		if err := f.pushLemma(strings.ToLower(t.Lemma), seen, 0); err != nil {
			return err
		}
	}
	return nil
}

// pushLemma кладет лемму в стек, если ее еще не было, и на глубине меньше
// expandDepth разбирает ее как отдельное слово, добавляя найденные леммы.
func (f *SynonymFilter) pushLemma(lemma string, seen map[string]struct{}, depth int) error {
	if _, ok := seen[lemma]; ok {
		return nil
	}
	seen[lemma] = struct{}{}
	f.stack.push(lemma, TypeLemma)

	if depth >= expandDepth {
		return nil
	}
	readings, err := f.src.analyzeWord(lemma)
	if err != nil {
		return err
	}
	for _, rr := range readings {
		for _, t := range rr.Tokens {
			if t.Lemma == "" {
				continue
			}
			if err := f.pushLemma(strings.ToLower(t.Lemma), seen, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *SynonymFilter) emit(text string) Token {
	tok := f.captured
	tok.Term = text
	return tok
}

// Reset подготавливает фильтр к новому входному потоку.
func (f *SynonymFilter) Reset(input Stream) {
	f.src.reset(input)
	f.stack.reset()
	f.captured = Token{}
}
