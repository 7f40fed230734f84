package morph

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/blevesearch/segment"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/steosofficial/steosfilter/analyzer"
)

// InterpTag - тег, которым помечаются знаки препинания.
const InterpTag = "interp"

// WordParser - источник разборов отдельных слов (словарь или кэш поверх него).
type WordParser interface {
	Parse(word string) []*analyzer.Parsed
}

// DictionaryAnalyzer разбивает предложение на слова, пробелы и знаки препинания
// и разбирает каждое слово по словарю.
type DictionaryAnalyzer struct {
	parser WordParser
	lang   language.Tag
}

// NewDictionaryAnalyzer создает анализатор для языка lang (BCP 47, например "pl").
func NewDictionaryAnalyzer(parser WordParser, lang string) (*DictionaryAnalyzer, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("неизвестный язык %q: %w", lang, err)
	}
	return &DictionaryAnalyzer{parser: parser, lang: tag}, nil
}

// AnalyzeSentence реализует Analyzer.
// Первая единица непустого предложения - синтетическое начало предложения.
func (d *DictionaryAnalyzer) AnalyzeSentence(text string) ([]Reading, error) {
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("%w: некорректная строка UTF-8", ErrAnalysis)
	}
	if text == "" {
		return nil, nil
	}

	// cases.Caser хранит состояние, поэтому создается на каждый вызов.
	caser := cases.Lower(d.lang)

	spans, err := segmentText(text)
	if err != nil {
		return nil, fmt.Errorf("%w: разбиение на слова: %w", ErrAnalysis, err)
	}

	readings := []Reading{{SentenceStart: true, Tokens: []AnalyzedToken{{}}}}
	for _, seg := range spans {
		surface := text[seg.start:seg.end]
		r := Reading{StartPos: seg.start, EndPos: seg.end}
		switch seg.kind {
		case segmentSpace:
			r.Whitespace = true
			r.Tokens = []AnalyzedToken{{Token: surface}}
		case segmentPunct:
			r.NonWord = true
			r.Tokens = []AnalyzedToken{{Token: surface, POSTag: InterpTag}}
		default:
			r.Tokens = d.parseWord(caser, surface)
		}
		readings = append(readings, r)
	}
	return readings, nil
}

func (d *DictionaryAnalyzer) parseWord(caser cases.Caser, surface string) []AnalyzedToken {
	folded := caser.String(norm.NFC.String(surface))
	parses := d.parser.Parse(folded)
	if len(parses) == 0 {
		return []AnalyzedToken{{Token: surface}}
	}
	tokens := make([]AnalyzedToken, len(parses))
	for i, p := range parses {
		tokens[i] = AnalyzedToken{Token: surface, POSTag: p.Tags, Lemma: p.Lemma}
	}
	return tokens
}

type segmentKind int

const (
	segmentWord segmentKind = iota
	segmentSpace
	segmentPunct
)

type span struct {
	start, end int
	kind       segmentKind
}

// segmentText делит текст на отрезки по границам слов Unicode (UAX #29):
// слова (в том числе "3.5", "www.onet.pl", "O'Connor"), серии пробельных символов
// и одиночные прочие символы. Слова, соединенные дефисом, склеиваются в одно.
func segmentText(text string) ([]span, error) {
	var spans []span
	seg := segment.NewWordSegmenterDirect([]byte(text))
	start := 0
	for seg.Segment() {
		end := start + len(seg.Bytes())
		if seg.Type() == segment.None {
			spans = appendGap(spans, text, start, end)
		} else {
			spans = appendWord(spans, text, start, end)
		}
		start = end
	}
	if err := seg.Err(); err != nil {
		return nil, err
	}
	return spans, nil
}

// appendWord добавляет слово; "biało" + "-" + "czerwony" дают одно слово.
func appendWord(spans []span, text string, start, end int) []span {
	if n := len(spans); n >= 2 {
		hyphen, prev := spans[n-1], spans[n-2]
		if hyphen.kind == segmentPunct && hyphen.end == start && text[hyphen.start:hyphen.end] == "-" &&
			prev.kind == segmentWord && prev.end == hyphen.start {
			return append(spans[:n-2], span{start: prev.start, end: end, kind: segmentWord})
		}
	}
	return append(spans, span{start: start, end: end, kind: segmentWord})
}

// appendGap делит промежуток между словами на серии пробелов и одиночные символы.
func appendGap(spans []span, text string, start, end int) []span {
	for i := start; i < end; {
		r, size := utf8.DecodeRuneInString(text[i:end])
		if unicode.IsSpace(r) {
			if n := len(spans); n > 0 && spans[n-1].kind == segmentSpace && spans[n-1].end == i {
				spans[n-1].end = i + size
			} else {
				spans = append(spans, span{start: i, end: i + size, kind: segmentSpace})
			}
		} else {
			spans = append(spans, span{start: i, end: i + size, kind: segmentPunct})
		}
		i += size
	}
	return spans
}
