package filter

import "log/slog"

type options struct {
	logger      *slog.Logger
	skipNonWord bool
}

// Option настраивает фильтр.
type Option func(*options)

// WithLogger задает логгер фильтра. По умолчанию используется slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSkipNonWord включает пропуск знаков препинания в POSFilter.
// SynonymFilter пропускает их всегда.
func WithSkipNonWord() Option {
	return func(o *options) {
		o.skipNonWord = true
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
