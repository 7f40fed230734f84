// Package morph определяет контракт морфологического анализа предложения,
// которым пользуется фильтр токенов, и его реализацию поверх словаря.
//
// Анализатор создается один раз и разделяется всеми экземплярами фильтров,
// поэтому реализации должны быть безопасны для конкурентных вызовов.
// Для реализаций, которые таковыми не являются, есть обертка Synchronized.
package morph

import (
	"errors"
	"sync"
)

// ErrAnalysis - ошибка анализа предложения. Все ошибки анализатора оборачивают ее.
var ErrAnalysis = errors.New("ошибка морфологического анализа")

// AnalyzedToken - один вариант разбора единицы текста.
// Пустые POSTag и Lemma означают отсутствие значения.
type AnalyzedToken struct {
	Token  string // Исходная словоформа.
	POSTag string // Тег части речи (полная строка тегов).
	Lemma  string // Нормальная форма.
}

// Reading - одна единица предложения (слово, пробел, знак препинания)
// со всеми вариантами разбора. Смещения отсчитываются от начала предложения.
type Reading struct {
	Tokens        []AnalyzedToken
	StartPos      int
	EndPos        int
	SentenceStart bool // Синтетическая единица начала предложения.
	Whitespace    bool
	NonWord       bool // Знак препинания или иной символ, не являющийся словом.
}

// Surface возвращает исходную словоформу единицы или "" для пустой единицы.
func (r Reading) Surface() string {
	if len(r.Tokens) == 0 {
		return ""
	}
	return r.Tokens[0].Token
}

// Analyzer разбирает предложение на упорядоченную последовательность единиц.
type Analyzer interface {
	AnalyzeSentence(text string) ([]Reading, error)
}

// AnalyzerFunc позволяет использовать обычную функцию как Analyzer.
type AnalyzerFunc func(text string) ([]Reading, error)

// AnalyzeSentence вызывает f(text).
func (f AnalyzerFunc) AnalyzeSentence(text string) ([]Reading, error) {
	return f(text)
}

// syncAnalyzer сериализует вызовы к анализатору, не допускающему конкурентного использования.
type syncAnalyzer struct {
	mu sync.Mutex
	a  Analyzer
}

// Synchronized оборачивает a мьютексом.
func Synchronized(a Analyzer) Analyzer {
	return &syncAnalyzer{a: a}
}

func (s *syncAnalyzer) AnalyzeSentence(text string) ([]Reading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.AnalyzeSentence(text)
}
