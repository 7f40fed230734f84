package filter_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steosofficial/steosfilter/filter"
	"github.com/steosofficial/steosfilter/morph"
)

// kotSpi - разбор "Kot śpi." без единицы начала предложения.
var kotSpi = stubAnalyzer{
	"Kot śpi.": {
		word("Kot", 0, "subst", "kot"),
		space(3),
		word("śpi", 4, "verb", "spać"),
		punct(".", 8),
	},
}

func TestPOSFilter_Sentence(t *testing.T) {
	f := filter.NewPOSFilter(filter.NewSliceStream(raw("Kot śpi.", 0)), kotSpi, filter.WithSkipNonWord())

	tokens, err := filter.Collect(f)
	require.NoError(t, err)

	// Тег кладется в стек раньше леммы, поэтому лемма выходит первой.
	assert.Equal(t, []out{
		{Term: "Kot", Type: filter.TypeWord, Inc: 1, Start: 0, End: 3},
		{Term: "kot", Type: filter.TypeLemma, Inc: 0, Start: 0, End: 3},
		{Term: "subst", Type: filter.TypePOS, Inc: 0, Start: 0, End: 3},
		{Term: "śpi", Type: filter.TypeWord, Inc: 1, Start: 4, End: 8},
		{Term: "spać", Type: filter.TypeLemma, Inc: 0, Start: 4, End: 8},
		{Term: "verb", Type: filter.TypePOS, Inc: 0, Start: 4, End: 8},
	}, simplify(tokens))
}

func TestPOSFilter_NonWordKeptByDefault(t *testing.T) {
	f := filter.NewPOSFilter(filter.NewSliceStream(raw("Kot śpi.", 0)), kotSpi)

	tokens, err := filter.Collect(f)
	require.NoError(t, err)
	require.Len(t, tokens, 8)

	// Знак без тегов и лемм выдается как слово и как лемма-запасной вариант.
	assert.Equal(t, []out{
		{Term: ".", Type: filter.TypeWord, Inc: 1, Start: 8, End: 9},
		{Term: ".", Type: filter.TypeLemma, Inc: 0, Start: 8, End: 9},
	}, simplify(tokens[6:]))
}

func TestPOSFilter_SentenceStart(t *testing.T) {
	testCases := []struct {
		name     string
		reading  morph.Reading
		expected out
	}{
		{name: "Только тег", reading: sentStart("", ""), expected: out{Term: "SENT_START", Type: filter.TypePOS, Inc: 1, Start: 5, End: 5}},
		{name: "Тег без леммы", reading: sentStart("START", ""), expected: out{Term: "SENT_STARTSTART", Type: filter.TypePOS, Inc: 1, Start: 5, End: 5}},
		{name: "Тег и лемма", reading: sentStart("START", "x"), expected: out{Term: "SENT_STARTSTARTx", Type: filter.TypeLemma, Inc: 1, Start: 5, End: 5}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := stubAnalyzer{"Kot": {tc.reading, word("Kot", 0, "subst", "kot")}}
			f := filter.NewPOSFilter(filter.NewSliceStream(raw("Kot", 5)), a)

			tokens, err := filter.Collect(f)
			require.NoError(t, err)
			require.Len(t, tokens, 3)
			assert.Equal(t, tc.expected, simplify(tokens)[0])
			assert.Equal(t, out{Term: "Kot", Type: filter.TypeWord, Inc: 1, Start: 5, End: 8}, simplify(tokens)[1])
		})
	}
}

func TestPOSFilter_BurstSize(t *testing.T) {
	testCases := []struct {
		name  string
		pairs []string
		want  int
	}{
		{name: "Один разбор", pairs: []string{"subst", "kot"}, want: 3},
		{name: "Два разбора", pairs: []string{"subst", "mama", "verb", "mieć"}, want: 5},
		{name: "Тег без леммы", pairs: []string{"subst", "", "verb", "mieć"}, want: 4},
		{name: "Лемма без тега", pairs: []string{"", "kot"}, want: 2},
		{name: "Повторяющиеся леммы не схлопываются", pairs: []string{"subst", "kot", "subst", "kot"}, want: 5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := stubAnalyzer{"słowo": {word("słowo", 0, tc.pairs...)}}
			f := filter.NewPOSFilter(filter.NewSliceStream(raw("słowo", 0)), a)

			tokens, err := filter.Collect(f)
			require.NoError(t, err)
			require.Len(t, tokens, tc.want)

			assert.Equal(t, 1, tokens[0].PositionIncrement)
			assert.Equal(t, filter.TypeWord, tokens[0].Type)
			for _, tok := range tokens[1:] {
				assert.Equal(t, 0, tok.PositionIncrement)
				assert.Equal(t, tokens[0].StartOffset, tok.StartOffset)
				assert.Equal(t, tokens[0].EndOffset, tok.EndOffset)
			}
		})
	}
}

func TestPOSFilter_Fallback(t *testing.T) {
	a := stubAnalyzer{"Xyz": {word("Xyz", 0)}}
	f := filter.NewPOSFilter(filter.NewSliceStream(raw("Xyz", 0)), a)

	tokens, err := filter.Collect(f)
	require.NoError(t, err)
	assert.Equal(t, []out{
		{Term: "Xyz", Type: filter.TypeWord, Inc: 1, Start: 0, End: 3},
		{Term: "xyz", Type: filter.TypeLemma, Inc: 0, Start: 0, End: 3},
	}, simplify(tokens))
}

func TestPOSFilter_LongSentencePassThrough(t *testing.T) {
	long := strings.Repeat("a", filter.MaxChunkLength)
	sentence := long + " kot"
	a := stubAnalyzer{sentence: {word(long, 0, "", ""), space(len(long)), word("kot", len(long)+1, "subst", "kot")}}

	input := filter.NewSliceStream(raw(long, 10), raw(" kot", 10+len(long)))
	f := filter.NewPOSFilter(input, a)

	tokens, err := filter.Collect(f)
	require.NoError(t, err)
	require.Len(t, tokens, 6)

	// Первая часть проходит насквозь без изменений.
	assert.Equal(t, raw(long, 10), tokens[0])
	// Смещения единиц отсчитываются от начала первой части.
	assert.Equal(t, out{Term: "kot", Type: filter.TypeWord, Inc: 1, Start: 10 + len(long) + 1, End: 10 + len(long) + 4}, simplify(tokens)[3])
}

func TestPOSFilter_PendingTextAnalyzedAtEOF(t *testing.T) {
	long := strings.Repeat("b", filter.MaxChunkLength)
	a := stubAnalyzer{long: {word(long, 0, "", "")}}

	f := filter.NewPOSFilter(filter.NewSliceStream(raw(long, 0)), a)
	tokens, err := filter.Collect(f)
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, filter.TypeWord, tokens[0].Type, "проход насквозь")
	assert.Equal(t, long, tokens[1].Term)
	assert.Equal(t, filter.TypeLemma, tokens[2].Type)
}

func TestPOSFilter_SentenceOffsets(t *testing.T) {
	a := stubAnalyzer{
		"Kot. ": {word("Kot", 0, "subst", "kot"), punct(".", 3), space(4)},
		"Pies.": {word("Pies", 0, "subst", "pies"), punct(".", 4)},
	}
	f := filter.NewPOSFilter(filter.NewSliceStream(raw("Kot. ", 0), raw("Pies.", 5)), a, filter.WithSkipNonWord())

	tokens, err := filter.Collect(f)
	require.NoError(t, err)
	require.Len(t, tokens, 6)
	assert.Equal(t, out{Term: "Pies", Type: filter.TypeWord, Inc: 1, Start: 5, End: 9}, simplify(tokens)[3])
}

func TestPOSFilter_LongWhitespaceRun(t *testing.T) {
	readings := []morph.Reading{word("a", 0, "", "a")}
	for i := 1; i <= 100_000; i++ {
		readings = append(readings, space(i))
	}
	readings = append(readings, word("b", 100_001, "", "b"))
	a := stubAnalyzer{"text": readings}

	f := filter.NewPOSFilter(filter.NewSliceStream(raw("text", 0)), a)
	tokens, err := filter.Collect(f)
	require.NoError(t, err)
	assert.Len(t, tokens, 4)
}

func TestPOSFilter_EmptyAnalysisEndsStream(t *testing.T) {
	a := stubAnalyzer{
		"":    nil,
		"Kot": {word("Kot", 0, "subst", "kot")},
	}
	f := filter.NewPOSFilter(filter.NewSliceStream(raw("", 0), raw("Kot", 0)), a)

	tokens, err := filter.Collect(f)
	require.NoError(t, err)
	assert.Empty(t, tokens, "пустой результат анализа завершает поток")

	_, err = f.Next()
	assert.ErrorIs(t, err, io.EOF, "конец потока окончательный")
}

func TestPOSFilter_AnalysisFailure(t *testing.T) {
	f := filter.NewPOSFilter(filter.NewSliceStream(raw("Kot", 0)), stubAnalyzer{})

	_, err := f.Next()
	require.ErrorIs(t, err, morph.ErrAnalysis)
}

func TestPOSFilter_ForeignAnalyzerErrorIsWrapped(t *testing.T) {
	cause := errors.New("словарь недоступен")
	a := morph.AnalyzerFunc(func(string) ([]morph.Reading, error) { return nil, cause })
	f := filter.NewPOSFilter(filter.NewSliceStream(raw("Kot", 0)), a)

	_, err := f.Next()
	require.ErrorIs(t, err, morph.ErrAnalysis)
	require.ErrorIs(t, err, cause)
}

func TestPOSFilter_UpstreamError(t *testing.T) {
	input := &failingStream{tokens: []filter.Token{raw("Kot śpi.", 0)}, err: errUpstream}
	f := filter.NewPOSFilter(input, kotSpi, filter.WithSkipNonWord())

	tokens, err := filter.Collect(f)
	require.ErrorIs(t, err, errUpstream)
	assert.Len(t, tokens, 6, "токены до ошибки выданы")
}

func TestPOSFilter_InvalidToken(t *testing.T) {
	bad := filter.Token{Term: "Kot", StartOffset: 5, EndOffset: 2}
	f := filter.NewPOSFilter(filter.NewSliceStream(bad), kotSpi)

	_, err := f.Next()
	require.ErrorIs(t, err, filter.ErrInvalidToken)
}

func TestPOSFilter_Idempotent(t *testing.T) {
	run := func() []filter.Token {
		f := filter.NewPOSFilter(filter.NewSliceStream(raw("Kot śpi.", 0)), kotSpi)
		tokens, err := filter.Collect(f)
		require.NoError(t, err)
		return tokens
	}
	assert.Equal(t, run(), run())
}

func TestPOSFilter_Reset(t *testing.T) {
	long := strings.Repeat("a", filter.MaxChunkLength)
	f := filter.NewPOSFilter(filter.NewSliceStream(raw(long, 0)), kotSpi)

	// Читаем только проход насквозь; буфер остается незавершенным.
	_, err := f.Next()
	require.NoError(t, err)

	f.Reset(filter.NewSliceStream(raw("Kot śpi.", 0)))
	tokens, err := filter.Collect(f)
	require.NoError(t, err)
	assert.Len(t, tokens, 8, "незавершенный текст отброшен")
}
