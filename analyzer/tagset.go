// tagset.go определяет структуры и логику для работы с грамматическими тегами.
// Теги хранятся в словаре в формате morfologik/NKJP: граммемы через двоеточие,
// альтернативные значения одной категории через точку ("subst:sg:nom.voc:m2").
// Файл преобразует такую строку в структурированный объект `Parsed`.
package analyzer

import (
	"strings"
)

// GrammemeSet - это множество для хранения грамматических тегов.
type GrammemeSet map[string]struct{}

// Parsed - это объект для хранения полного морфологического разбора.
type Parsed struct {
	Word         string      `json:"word"`           // Исходное слово
	Lemma        string      `json:"lemma"`          // Нормальная форма (лемма)
	Tags         string      `json:"tags"`           // Полная строка тегов
	PartOfSpeech string      `json:"part_of_speech"` // Часть речи (класс флексемы)
	Number       string      `json:"number"`         // Число
	Case         string      `json:"case"`           // Падеж
	Gender       string      `json:"gender"`         // Род
	Person       string      `json:"person"`         // Лицо
	Aspect       string      `json:"aspect"`         // Вид
	Degree       string      `json:"degree"`         // Степень сравнения
	Negation     string      `json:"negation"`       // Отрицание
	OtherTags    GrammemeSet `json:"other_tags"`     // Остальные теги, не вошедшие в основные категории
}

// Множества граммем для каждой категории.
// Используются функцией `newParsed` для быстрой проверки, к какой категории относится тег.
var (
	posTags = GrammemeSet{
		"subst": {}, "depr": {}, "adj": {}, "adja": {}, "adjp": {}, "adjc": {},
		"adv": {}, "num": {}, "numcol": {}, "ppron12": {}, "ppron3": {}, "siebie": {},
		"verb": {}, "fin": {}, "bedzie": {}, "aglt": {}, "praet": {}, "impt": {},
		"imps": {}, "inf": {}, "pcon": {}, "pant": {}, "ger": {}, "pact": {},
		"ppas": {}, "winien": {}, "pred": {}, "prep": {}, "conj": {}, "comp": {},
		"qub": {}, "brev": {}, "burk": {}, "interj": {}, "interp": {}, "xxx": {},
		"ign": {},
	}

	numberTags = GrammemeSet{"sg": {}, "pl": {}}

	caseTags = GrammemeSet{
		"nom": {}, "gen": {}, "dat": {}, "acc": {}, "inst": {}, "loc": {}, "voc": {},
	}

	genderTags = GrammemeSet{
		"m1": {}, "m2": {}, "m3": {}, "f": {}, "n": {}, "n1": {}, "n2": {},
		"p1": {}, "p2": {}, "p3": {},
	}

	personTags = GrammemeSet{"pri": {}, "sec": {}, "ter": {}}

	aspectTags = GrammemeSet{"imperf": {}, "perf": {}}

	degreeTags = GrammemeSet{"pos": {}, "com": {}, "sup": {}}

	negationTags = GrammemeSet{"aff": {}, "neg": {}}
)

// newParsed - это конструктор-фабрика для объекта `Parsed`.
// Он принимает "сырые" данные (слово, лемму и строку тегов) и возвращает
// полностью заполненный, структурированный объект.
func newParsed(word, lemma, tagString string) *Parsed {
	p := &Parsed{Word: word, Lemma: lemma, Tags: tagString, OtherTags: make(GrammemeSet)}
	if tagString == "" {
		return p
	}

	grammemes := strings.Split(tagString, ":")

	// Часть речи всегда идет первой.
	if _, ok := posTags[grammemes[0]]; ok {
		p.PartOfSpeech = grammemes[0]
		grammemes = grammemes[1:]
	}

	for _, g := range grammemes {
		// Из альтернатив ("nom.voc") категорию определяет первое значение.
		first, _, _ := strings.Cut(g, ".")
		switch {
		case first == "":
		case inMap(first, numberTags) && p.Number == "":
			p.Number = first
		case inMap(first, caseTags) && p.Case == "":
			p.Case = first
		case inMap(first, genderTags) && p.Gender == "":
			p.Gender = first
		case inMap(first, personTags):
			p.Person = first
		case inMap(first, aspectTags):
			p.Aspect = first
		case inMap(first, degreeTags):
			p.Degree = first
		case inMap(first, negationTags):
			p.Negation = first
		default:
			p.OtherTags[g] = struct{}{}
		}
	}
	return p
}

func inMap(key string, set GrammemeSet) bool {
	_, ok := set[key]
	return ok
}
