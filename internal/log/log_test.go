package log

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var linePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2} \[(\w+)\] \[(\w+)\] (.*)$`)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	InitWriter(&buf)
	t.Cleanup(Reset)
	return &buf
}

func TestLog_Format(t *testing.T) {
	buf := capture(t)

	Info(CatLexer, "Token stream ended early", "offset", 4, "reason", "unterminated literal")

	line := strings.TrimSuffix(buf.String(), "\n")
	m := linePattern.FindStringSubmatch(line)
	require.NotNil(t, m, "unexpected line %q", line)
	require.Equal(t, "INFO", m[1])
	require.Equal(t, "lexer", m[2])
	require.Equal(t, "Token stream ended early offset=4 reason=unterminated literal", m[3])
}

func TestLog_OddFields(t *testing.T) {
	buf := capture(t)

	Warn(CatCache, "Evicted", "key")
	require.Contains(t, buf.String(), "[WARN] [cache] Evicted key=<missing>")
}

func TestLog_ErrorErr(t *testing.T) {
	buf := capture(t)

	ErrorErr(CatBench, "Recording run failed", errors.New("disk full"), "file", "a.py")
	ErrorErr(CatBench, "Recording run failed", nil)

	out := buf.String()
	require.Contains(t, out, "[ERROR] [bench] Recording run failed file=a.py error=disk full")
	require.Contains(t, out, "error=<nil>")
}

func TestLog_MinLevel(t *testing.T) {
	buf := capture(t)

	SetMinLevel(LevelWarn)
	Debug(CatCLI, "hidden")
	Info(CatCLI, "hidden")
	Error(CatCLI, "shown")
	require.Equal(t, 1, strings.Count(buf.String(), "\n"))

	Reset()
	Error(CatCLI, "hidden")
	require.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestLog_NoLoggerIsNoop(t *testing.T) {
	Reset()
	require.NotPanics(t, func() {
		Debug(CatLexer, "nothing")
		SetMinLevel(LevelError)
	})
}

func TestLog_ConcurrentWrites(t *testing.T) {
	buf := capture(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				Debug(CatWatcher, "tick", "j", j)
			}
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 200)
	for _, l := range lines {
		require.Regexp(t, linePattern, l)
	}
}

func TestInit_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	cleanup, err := Init(path, LevelInfo)
	require.NoError(t, err)
	t.Cleanup(Reset)

	Debug(CatConfig, "hidden")
	Info(CatConfig, "Loaded", "path", "config.yaml")
	cleanup()
	Info(CatConfig, "after close")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(string(data), "\n"))
	require.Contains(t, string(data), "[INFO] [config] Loaded path=config.yaml")
}

func TestInit_Reinit(t *testing.T) {
	dir := t.TempDir()
	first, err := Init(filepath.Join(dir, "a.log"), LevelDebug)
	require.NoError(t, err)
	second, err := Init(filepath.Join(dir, "b.log"), LevelDebug)
	require.NoError(t, err)
	t.Cleanup(Reset)

	first()
	Info(CatCLI, "to b")
	second()

	a, err := os.ReadFile(filepath.Join(dir, "a.log"))
	require.NoError(t, err)
	require.Empty(t, a)
	b, err := os.ReadFile(filepath.Join(dir, "b.log"))
	require.NoError(t, err)
	require.Contains(t, string(b), "to b")
}

func TestInit_BadPath(t *testing.T) {
	_, err := Init(filepath.Join(t.TempDir(), "missing", "x.log"), LevelDebug)
	require.ErrorContains(t, err, "opening log file")
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, LevelInfo, ParseLevel("INFO"))
	require.Equal(t, LevelWarn, ParseLevel("warning"))
	require.Equal(t, LevelError, ParseLevel(" error "))
	require.Equal(t, LevelDebug, ParseLevel("verbose"))
	require.Equal(t, "WARN", LevelWarn.String())
}
