// Package filter содержит фильтры потока токенов, которые стоят между токенизатором
// и поисковым индексом: они собирают входные токены обратно в предложения,
// прогоняют каждое предложение через морфологический анализатор и выдают
// для каждого слова серию токенов (слово, леммы, теги частей речи) с тем же смещением.
//
// Поток тянущий и однопоточный: каждый вызов Next возвращает ровно один токен
// или io.EOF. Экземпляр фильтра не предназначен для конкурентного использования,
// анализатор же разделяется между всеми экземплярами.
package filter

import (
	"errors"
	"fmt"
	"io"
)

// TokenType - семантический тип выходного токена.
type TokenType string

const (
	TypeWord  TokenType = "word"
	TypePOS   TokenType = "pos"
	TypeLemma TokenType = "lemma"
)

// ErrInvalidToken возвращается для входных токенов с некорректными смещениями.
var ErrInvalidToken = errors.New("некорректный входной токен")

// Token - единица потока.
type Token struct {
	Term              string    `json:"term"`
	StartOffset       int       `json:"start_offset"`
	EndOffset         int       `json:"end_offset"`
	PositionIncrement int       `json:"position_increment"`
	Type              TokenType `json:"type"`
}

// Validate проверяет смещения токена.
func (t Token) Validate() error {
	if t.StartOffset < 0 || t.EndOffset < t.StartOffset {
		return fmt.Errorf("%w: смещения [%d, %d)", ErrInvalidToken, t.StartOffset, t.EndOffset)
	}
	return nil
}

// Stream - тянущий источник токенов. По исчерпании Next возвращает io.EOF.
type Stream interface {
	Next() (Token, error)
}

// SliceStream отдает заранее подготовленные токены.
type SliceStream struct {
	tokens []Token
	pos    int
}

// NewSliceStream создает поток из токенов.
func NewSliceStream(tokens ...Token) *SliceStream {
	return &SliceStream{tokens: tokens}
}

// Next реализует Stream.
func (s *SliceStream) Next() (Token, error) {
	if s.pos >= len(s.tokens) {
		return Token{}, io.EOF
	}
	tok := s.tokens[s.pos]
	s.pos++
	return tok, nil
}

// Collect вычитывает поток до конца.
func Collect(s Stream) ([]Token, error) {
	var tokens []Token
	for {
		tok, err := s.Next()
		if errors.Is(err, io.EOF) {
			return tokens, nil
		}
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
	}
}
