package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureOutput redirects logger output to a buffer and restores the
// previous writer, level and format on cleanup.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)

	mu.Lock()
	originalOutput := output
	originalColor := useColor
	output = buf
	useColor = false
	mu.Unlock()

	originalLevel := currentLevel.Load()
	originalFormat := currentFormat.Load()
	reconfigure()

	t.Cleanup(func() {
		mu.Lock()
		output = originalOutput
		useColor = originalColor
		mu.Unlock()
		currentLevel.Store(originalLevel)
		currentFormat.Store(originalFormat)
		reconfigure()
	})
	return buf
}

func TestLevelFiltering(t *testing.T) {
	t.Run("DebugShowsEverything", func(t *testing.T) {
		buf := captureOutput(t)
		SetLevel("DEBUG")

		Debug("debug message")
		Info("info message")
		Warn("warn message")
		Error("error message")

		out := buf.String()
		for _, s := range []string{"[DEBUG] debug message", "[INFO] info message", "[WARN] warn message", "[ERROR] error message"} {
			assert.Contains(t, out, s)
		}
	})

	t.Run("WarnHidesInfoAndDebug", func(t *testing.T) {
		buf := captureOutput(t)
		SetLevel("WARN")

		Debug("debug message")
		Info("info message")
		Warn("warn message")

		out := buf.String()
		assert.NotContains(t, out, "debug message")
		assert.NotContains(t, out, "info message")
		assert.Contains(t, out, "warn message")
	})

	t.Run("ErrorAlwaysLogged", func(t *testing.T) {
		buf := captureOutput(t)
		SetLevel("ERROR")

		Warn("warn message")
		Error("error message")

		assert.NotContains(t, buf.String(), "warn message")
		assert.Contains(t, buf.String(), "error message")
	})
}

func TestSetLevel(t *testing.T) {
	captureOutput(t)

	SetLevel("debug")
	assert.Equal(t, LevelDebug, GetLevel())

	SetLevel("Warning")
	assert.Equal(t, LevelWarn, GetLevel())

	SetLevel("bogus")
	assert.Equal(t, LevelWarn, GetLevel(), "unknown levels are ignored")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
		ok   bool
	}{
		{"DEBUG", LevelDebug, true},
		{" info ", LevelInfo, true},
		{"warn", LevelWarn, true},
		{"ERROR", LevelError, true},
		{"trace", LevelInfo, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseLevel(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "UNKNOWN", Level(42).String())
}

func TestTextFormatting(t *testing.T) {
	buf := captureOutput(t)
	SetLevel("INFO")
	SetFormat("text")

	Info("file stored", Folder("docs"), File("a b.txt"), Size(42))

	out := buf.String()
	assert.Contains(t, out, "file stored")
	assert.Contains(t, out, "folder=docs")
	assert.Contains(t, out, `file="a b.txt"`)
	assert.Contains(t, out, "size=42")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestTextGroups(t *testing.T) {
	buf := captureOutput(t)
	SetLevel("INFO")
	SetFormat("text")

	With("component", "api").WithGroup("http").Info("request", "status", 200)

	out := buf.String()
	assert.Contains(t, out, "component=api")
	assert.Contains(t, out, "http.status=200")
}

func TestJSONFormat(t *testing.T) {
	buf := captureOutput(t)
	SetLevel("INFO")
	SetFormat("json")

	Info("upload rejected", Reason("file too large"), Kind("InvalidUpload"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "upload rejected", record["msg"])
	assert.Equal(t, "INFO", record["level"])
	assert.Equal(t, "file too large", record[KeyReason])
	assert.Equal(t, "InvalidUpload", record[KeyKind])
}

func TestSetFormatIgnoresUnknown(t *testing.T) {
	captureOutput(t)
	SetFormat("json")
	SetFormat("xml")
	assert.Equal(t, "json", currentFormat.Load())
}

func TestContextLogging(t *testing.T) {
	buf := captureOutput(t)
	SetLevel("DEBUG")
	SetFormat("json")

	lc := NewLogContext("req-1", "10.0.0.1").WithOperation("GetFile").WithTarget("docs", "a.txt")
	ctx := WithContext(context.Background(), lc)

	InfoCtx(ctx, "served")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "req-1", record[KeyRequestID])
	assert.Equal(t, "10.0.0.1", record[KeyClientIP])
	assert.Equal(t, "GetFile", record[KeyOperation])
	assert.Equal(t, "docs", record[KeyFolder])
	assert.Equal(t, "a.txt", record[KeyFile])
	_, hasTrace := record[KeyTraceID]
	assert.False(t, hasTrace, "empty fields are omitted")
}

func TestContextLoggingWithoutLogContext(t *testing.T) {
	buf := captureOutput(t)
	SetLevel("DEBUG")
	SetFormat("text")

	WarnCtx(context.Background(), "plain", "k", "v")
	assert.Contains(t, buf.String(), "plain k=v")
	assert.NotContains(t, buf.String(), KeyRequestID)
}

func TestLogContext(t *testing.T) {
	t.Run("CloneIsIndependent", func(t *testing.T) {
		lc := NewLogContext("r", "ip")
		other := lc.WithOperation("PutFile")
		assert.Empty(t, lc.Operation)
		assert.Equal(t, "PutFile", other.Operation)
		assert.Equal(t, "r", other.RequestID)
	})

	t.Run("NilReceiver", func(t *testing.T) {
		var lc *LogContext
		assert.Nil(t, lc.Clone())
		assert.Nil(t, lc.WithOperation("x"))
		assert.Zero(t, lc.DurationMs())
	})

	t.Run("FromContextMissing", func(t *testing.T) {
		assert.Nil(t, FromContext(context.Background()))
	})

	t.Run("WithTrace", func(t *testing.T) {
		lc := NewLogContext("r", "ip").WithTrace("abc")
		assert.Equal(t, "abc", lc.TraceID)
		assert.GreaterOrEqual(t, lc.DurationMs(), 0.0)
	})
}

func TestErrAttr(t *testing.T) {
	assert.True(t, Err(nil).Equal(Err(nil)))
	assert.Equal(t, "", Err(nil).Key)
	assert.Equal(t, KeyError, Err(os.ErrNotExist).Key)
}

func TestConcurrentLogging(t *testing.T) {
	buf := captureOutput(t)
	SetLevel("INFO")
	SetFormat("text")

	// bytes.Buffer is not safe for concurrent writes on its own; the handler
	// serializes writes, so every line must come out whole.
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for range 25 {
				Info("concurrent", "worker", n)
			}
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 500)
	for _, line := range lines {
		assert.Contains(t, line, "concurrent worker=")
	}
}

func TestInitToFile(t *testing.T) {
	captureOutput(t)
	path := filepath.Join(t.TempDir(), "gateway.log")

	require.NoError(t, Init(Config{Level: "INFO", Format: "text", Output: path}))
	Info("to file")

	t.Cleanup(func() {
		mu.Lock()
		if logFile != nil {
			_ = logFile.Close()
			logFile = nil
		}
		mu.Unlock()
	})

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestInitBadPath(t *testing.T) {
	captureOutput(t)
	err := Init(Config{Output: filepath.Join(t.TempDir(), "missing", "dir", "x.log")})
	assert.Error(t, err)
}
