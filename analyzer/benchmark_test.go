package analyzer_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/steosofficial/steosfilter/analyzer"
	"github.com/steosofficial/steosfilter/internal/testutil"
)

// Эта переменная нужна, чтобы компилятор не "выкинул" вызовы наших функций
// как бесполезные.
var benchmarkResult []*analyzer.Parsed

func benchmarkWords(n int) []string {
	base := []string{"kot", "kotem", "śpi", "psem", "mamy", "lepszy", "nieznane", "w"}
	words := make([]string, n)
	for i := range words {
		words[i] = base[i%len(base)]
	}
	return words
}

func BenchmarkParse(b *testing.B) {
	a := testutil.LoadPolish(b)
	words := benchmarkWords(1024)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		benchmarkResult = a.Parse(words[i%len(words)])
	}
}

func BenchmarkParseList(b *testing.B) {
	a := testutil.LoadPolish(b)

	for _, size := range []int{1_000, 10_000, 100_000} {
		words := benchmarkWords(size)
		b.Run(fmt.Sprintf("Words-%d", size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				res, err := a.ParseList(context.Background(), words)
				if err != nil {
					b.Fatal(err)
				}
				benchmarkResult = res
			}
		})
	}
}
