package filter_test

import (
	"errors"
	"fmt"

	"github.com/steosofficial/steosfilter/filter"
	"github.com/steosofficial/steosfilter/morph"
)

// stubAnalyzer возвращает заранее заданные разборы для каждого текста.
type stubAnalyzer map[string][]morph.Reading

func (s stubAnalyzer) AnalyzeSentence(text string) ([]morph.Reading, error) {
	readings, ok := s[text]
	if !ok {
		return nil, fmt.Errorf("%w: нет разбора для %q", morph.ErrAnalysis, text)
	}
	return readings, nil
}

// word строит единицу анализа слова; pairs - чередующиеся тег и лемма ("" = нет значения).
func word(surface string, start int, pairs ...string) morph.Reading {
	r := morph.Reading{StartPos: start, EndPos: start + len(surface)}
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Tokens = append(r.Tokens, morph.AnalyzedToken{Token: surface, POSTag: pairs[i], Lemma: pairs[i+1]})
	}
	if len(r.Tokens) == 0 {
		r.Tokens = []morph.AnalyzedToken{{Token: surface}}
	}
	return r
}

func space(start int) morph.Reading {
	return morph.Reading{StartPos: start, EndPos: start + 1, Whitespace: true, Tokens: []morph.AnalyzedToken{{Token: " "}}}
}

func punct(surface string, start int) morph.Reading {
	return morph.Reading{StartPos: start, EndPos: start + len(surface), NonWord: true, Tokens: []morph.AnalyzedToken{{Token: surface}}}
}

func sentStart(pos, lemma string) morph.Reading {
	return morph.Reading{SentenceStart: true, Tokens: []morph.AnalyzedToken{{POSTag: pos, Lemma: lemma}}}
}

// raw строит входной токен, как его выдает токенизатор.
func raw(term string, start int) filter.Token {
	return filter.Token{Term: term, StartOffset: start, EndOffset: start + len(term), PositionIncrement: 1, Type: filter.TypeWord}
}

// out - сокращенная запись ожидаемого выходного токена.
type out struct {
	Term  string
	Type  filter.TokenType
	Inc   int
	Start int
	End   int
}

func simplify(tokens []filter.Token) []out {
	res := make([]out, len(tokens))
	for i, t := range tokens {
		res[i] = out{Term: t.Term, Type: t.Type, Inc: t.PositionIncrement, Start: t.StartOffset, End: t.EndOffset}
	}
	return res
}

// failingStream возвращает ошибку после заданных токенов.
type failingStream struct {
	tokens []filter.Token
	err    error
}

func (f *failingStream) Next() (filter.Token, error) {
	if len(f.tokens) == 0 {
		return filter.Token{}, f.err
	}
	tok := f.tokens[0]
	f.tokens = f.tokens[1:]
	return tok, nil
}

var errUpstream = errors.New("ошибка токенизатора")
