// Command steosfilter прогоняет текст через морфологический фильтр,
// компилирует словари из TSV и разбирает списки слов.
//
// Коды выхода: 0 - успех, 1 - ошибка.
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
