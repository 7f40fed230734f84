package filter

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/steosofficial/steosfilter/morph"
)

// readingSource - общая для обоих фильтров часть: тянет входные токены,
// собирает из них предложения и отдает единицы анализа по одной.
type readingSource struct {
	input       Stream
	analyzer    morph.Analyzer
	logger      *slog.Logger
	reassembler Reassembler

	readings []morph.Reading
	next     int
	base     int  // Смещение начала текущего предложения во входном тексте.
	done     bool // Поток завершен; повторные вызовы возвращают io.EOF.
}

// nextReading возвращает следующую единицу анализа. Если очередная часть
// предложения ушла в буфер, возвращается сам входной токен и passthrough=true,
// чтобы конвейер продолжал работу.
func (s *readingSource) nextReading() (r morph.Reading, raw Token, passthrough bool, err error) {
	for {
		if s.done {
			return morph.Reading{}, Token{}, false, io.EOF
		}
		if s.next < len(s.readings) {
			r = s.readings[s.next]
			s.next++
			return r, Token{}, false, nil
		}

		tok, err := s.input.Next()
		if errors.Is(err, io.EOF) {
			// Хвост, оставшийся в буфере, анализируется, а не теряется.
			sentence, base, ok := s.reassembler.Flush()
			if !ok {
				s.done = true
				return morph.Reading{}, Token{}, false, io.EOF
			}
			if err := s.load(sentence, base); err != nil {
				return morph.Reading{}, Token{}, false, err
			}
			continue
		}
		if err != nil {
			return morph.Reading{}, Token{}, false, err
		}
		if err := tok.Validate(); err != nil {
			return morph.Reading{}, Token{}, false, err
		}

		sentence, base, ok := s.reassembler.Accumulate(tok)
		if !ok {
			return morph.Reading{}, tok, true, nil
		}
		if err := s.load(sentence, base); err != nil {
			return morph.Reading{}, Token{}, false, err
		}
	}
}

// load анализирует предложение и делает его единицы текущими.
func (s *readingSource) load(sentence string, base int) error {
	readings, err := s.analyzer.AnalyzeSentence(sentence)
	if err != nil {
		s.readings, s.next = nil, 0
		if errors.Is(err, morph.ErrAnalysis) {
			return fmt.Errorf("анализ предложения: %w", err)
		}
		return fmt.Errorf("%w: %w", morph.ErrAnalysis, err)
	}
	s.readings, s.next, s.base = readings, 0, base
	if len(readings) == 0 {
		// Предложение без единиц анализа завершает поток.
		s.logger.Debug("анализатор вернул пустой результат, поток завершен",
			"offset", base,
			"length", len(sentence),
		)
		s.done = true
		return nil
	}
	s.logger.Debug("предложение проанализировано",
		"offset", base,
		"length", len(sentence),
		"readings", len(readings),
	)
	return nil
}

// analyzeWord разбирает отдельное слово тем же анализатором.
func (s *readingSource) analyzeWord(word string) ([]morph.Reading, error) {
	readings, err := s.analyzer.AnalyzeSentence(word)
	if err != nil {
		if errors.Is(err, morph.ErrAnalysis) {
			return nil, fmt.Errorf("анализ леммы %q: %w", word, err)
		}
		return nil, fmt.Errorf("%w: анализ леммы %q: %w", morph.ErrAnalysis, word, err)
	}
	return readings, nil
}

func (s *readingSource) reset(input Stream) {
	s.input = input
	s.reassembler.Reset()
	s.readings, s.next, s.base, s.done = nil, 0, 0, false
}
