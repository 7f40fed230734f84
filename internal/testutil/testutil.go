// Package testutil содержит общие помощники для тестов: сборку небольшого
// польского словаря во временной директории и готовые анализаторы поверх него.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/steosofficial/steosfilter/analyzer"
)

// PolishEntries возвращает небольшой фрагмент польского словаря.
// "pies" намеренно имеет две леммы, чтобы проверять однократное расширение лемм.
func PolishEntries() []analyzer.Entry {
	return []analyzer.Entry{
		{Form: "kot", Lemma: "kot", Tags: "subst:sg:nom:m2"},
		{Form: "kota", Lemma: "kot", Tags: "subst:sg:gen.acc:m2"},
		{Form: "kotem", Lemma: "kot", Tags: "subst:sg:inst:m2"},
		{Form: "śpi", Lemma: "spać", Tags: "verb:fin:sg:ter:imperf"},
		{Form: "spać", Lemma: "spać", Tags: "verb:inf:imperf"},
		{Form: "psem", Lemma: "pies", Tags: "subst:sg:inst:m2"},
		{Form: "pies", Lemma: "pies", Tags: "subst:sg:nom:m2"},
		{Form: "pies", Lemma: "piesek", Tags: "subst:sg:nom:m2"},
		{Form: "piesek", Lemma: "piesek", Tags: "subst:sg:nom:m2"},
		{Form: "mamy", Lemma: "mama", Tags: "subst:pl:nom.acc.voc:f"},
		{Form: "mamy", Lemma: "mieć", Tags: "verb:fin:pl:pri:imperf"},
		{Form: "mama", Lemma: "mama", Tags: "subst:sg:nom:f"},
		{Form: "dobry", Lemma: "dobry", Tags: "adj:sg:nom.voc:m1.m2.m3:pos"},
		{Form: "lepszy", Lemma: "dobry", Tags: "adj:sg:nom.voc:m1.m2.m3:com"},
		{Form: "w", Lemma: "w", Tags: "prep:loc:nwok"},
		{Form: "i", Lemma: "i", Tags: "conj"},
	}
}

// BuildDictionary компилирует записи во временный файл и возвращает путь к нему.
func BuildDictionary(t testing.TB, entries []analyzer.Entry) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pl.dict")
	if err := analyzer.WriteDictionary(path, entries, "pl"); err != nil {
		t.Fatalf("WriteDictionary: %v", err)
	}
	return path
}

// LoadPolish загружает анализатор поверх PolishEntries. Анализатор закрывается в t.Cleanup.
func LoadPolish(t testing.TB) *analyzer.MorphAnalyzer {
	t.Helper()
	a, err := analyzer.LoadMorphAnalyzer(BuildDictionary(t, PolishEntries()))
	if err != nil {
		t.Fatalf("LoadMorphAnalyzer: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}
