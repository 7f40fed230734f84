package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steosofficial/steosfilter/analyzer"
	"github.com/steosofficial/steosfilter/config"
	"github.com/steosofficial/steosfilter/filter"
	"github.com/steosofficial/steosfilter/internal/testutil"
)

// run выполняет команду в пустой рабочей директории без файла настроек.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvConfigPath, "")
	t.Setenv(analyzer.EnvDictPath, "")
	t.Setenv("STEOSFILTER_LOG_LEVEL", "error")
	chdir(t, t.TempDir())

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), err
}

func decodeTokens(t *testing.T, output string) []filter.Token {
	t.Helper()
	var tokens []filter.Token
	dec := json.NewDecoder(strings.NewReader(output))
	for dec.More() {
		var tok filter.Token
		require.NoError(t, dec.Decode(&tok))
		tokens = append(tokens, tok)
	}
	return tokens
}

func TestAnalyze(t *testing.T) {
	dict := testutil.BuildDictionary(t, testutil.PolishEntries())

	testCases := []struct {
		name     string
		stdin    string
		args     []string
		expected []string
	}{
		{
			name:     "Текст из аргументов",
			args:     []string{"analyze", "--dict", dict, "--skip-non-word", "Kot", "śpi."},
			expected: []string{"SENT_START", "Kot", "kot", "subst:sg:nom:m2", "śpi", "spać", "verb:fin:sg:ter:imperf"},
		},
		{
			name:     "Текст из стандартного ввода",
			stdin:    "Psem.",
			args:     []string{"analyze", "--dict", dict, "--filter", filter.FilterSynonyms},
			expected: []string{"piesek", "pies"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			output, err := run(t, tc.stdin, tc.args...)
			require.NoError(t, err)

			tokens := decodeTokens(t, output)
			terms := make([]string, len(tokens))
			for i, tok := range tokens {
				terms[i] = tok.Term
			}
			assert.Equal(t, tc.expected, terms)
		})
	}
}

func TestAnalyze_UnknownFilter(t *testing.T) {
	dict := testutil.BuildDictionary(t, testutil.PolishEntries())
	_, err := run(t, "", "analyze", "--dict", dict, "--filter", "stemmer", "Kot")
	require.Error(t, err)
}

func TestAnalyze_NoDictionary(t *testing.T) {
	_, err := run(t, "", "analyze", "Kot")
	require.ErrorIs(t, err, analyzer.ErrNoDictionary)
}

func TestBuildAndLemmas(t *testing.T) {
	src, err := filepath.Abs(filepath.Join("..", "..", "analyzer", "testdata", "pl_small.tsv"))
	require.NoError(t, err)
	out := filepath.Join(t.TempDir(), "pl.dict")

	_, err = run(t, "", "build", src, out)
	require.NoError(t, err)

	output, err := run(t, "mamy\nnieznane\n", "lemmas", "--dict", out)
	require.NoError(t, err)
	assert.Equal(t, "mamy\tmama\tsubst:sg:gen:f\n"+
		"mamy\tmama\tsubst:pl:nom.acc.voc:f\n"+
		"mamy\tmieć\tverb:fin:pl:pri:imperf\n", output)
}

func TestBuild_MissingSource(t *testing.T) {
	_, err := run(t, "", "build", filepath.Join(t.TempDir(), "missing.tsv"), filepath.Join(t.TempDir(), "pl.dict"))
	require.Error(t, err)
}

// chdir меняет рабочий каталог на время теста (аналог t.Chdir из Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
