// Command binding собирается как разделяемая библиотека (go build -buildmode=c-shared)
// и дает процессам на других языках доступ к фильтру через C ABI.
package main

// #include <stdlib.h>
import "C"

import "unsafe"

// CreateAnalyzer загружает словарь. Пустой path - путь из настроек.
// Возвращает 0 при успехе и -1 при ошибке (подробности в логе).
//
//export CreateAnalyzer
func CreateAnalyzer(path *C.char) C.int {
	if err := create(C.GoString(path)); err != nil {
		return -1
	}
	return 0
}

// AnalyzeText возвращает JSON {"tokens": [...]} или {"error": "..."}.
// Строку нужно освободить через FreeString.
//
//export AnalyzeText
func AnalyzeText(text, variant *C.char) *C.char {
	return C.CString(analyzeJSON(C.GoString(text), C.GoString(variant)))
}

//export FreeString
func FreeString(str *C.char) {
	if str != nil {
		C.free(unsafe.Pointer(str))
	}
}

//export ReleaseAnalyzer
func ReleaseAnalyzer() {
	release()
}

func main() {}
