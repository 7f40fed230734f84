package filter

import (
	"strings"
	"unicode/utf8"
)

// MaxChunkLength - длина (в символах), начиная с которой токенизатор режет
// предложение на части. Часть такой длины считается незавершенной.
// См. https://github.com/languagetool-org/languagetool/issues/364
const MaxChunkLength = 255

// Reassembler склеивает части, на которые токенизатор порезал длинное предложение.
//
// Эвристика унаследована от токенизатора: любая часть короче MaxChunkLength
// завершает предложение, даже если текст логически продолжается. Поэтому
// выданный текст не обязательно является целым предложением.
type Reassembler struct {
	buf     strings.Builder
	base    int  // Смещение первой накопленной части.
	pending bool // Предыдущая часть достигла MaxChunkLength.
}

// Accumulate добавляет текст токена в буфер. Если токен короче MaxChunkLength,
// возвращает весь накопленный текст, смещение его начала и ok=true, очищая буфер.
func (r *Reassembler) Accumulate(tok Token) (sentence string, base int, ok bool) {
	if !r.pending {
		r.base = tok.StartOffset
	}
	r.buf.WriteString(tok.Term)
	if utf8.RuneCountInString(tok.Term) >= MaxChunkLength {
		r.pending = true
		return "", 0, false
	}
	return r.flush()
}

// Pending сообщает, есть ли в буфере незавершенный текст.
func (r *Reassembler) Pending() bool {
	return r.pending
}

// Flush выдает накопленный текст, если он есть.
func (r *Reassembler) Flush() (sentence string, base int, ok bool) {
	if !r.pending {
		return "", 0, false
	}
	return r.flush()
}

func (r *Reassembler) flush() (string, int, bool) {
	sentence, base := r.buf.String(), r.base
	r.Reset()
	return sentence, base, true
}

// Reset отбрасывает накопленный текст.
func (r *Reassembler) Reset() {
	r.buf.Reset()
	r.base = 0
	r.pending = false
}
