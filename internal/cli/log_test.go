package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/callsurface/pkg/config"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
		emit  func(*log.Logger)
		want  bool
	}{
		{"info at info", LogInfo, func(l *log.Logger) { l.Info("reconciled") }, true},
		{"debug at info", LogInfo, func(l *log.Logger) { l.Debug("reconciled") }, false},
		{"debug at debug", LogDebug, func(l *log.Logger) { l.Debug("reconciled") }, true},
		{"warn at info", LogInfo, func(l *log.Logger) { l.Warn("reconciled") }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.emit(newLogger(&buf, tt.level))
			if got := strings.Contains(buf.String(), "reconciled"); got != tt.want {
				t.Errorf("logged = %v, want %v (%q)", got, tt.want, buf.String())
			}
		})
	}
}

func TestNewLoggerTimestamp(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, LogInfo).Info("tick")
	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} `).MatchString(buf.String()) {
		t.Errorf("log line = %q, want a HH:MM:SS.cc prefix", buf.String())
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, LogInfo)).done("Composed active surface")
	if !regexp.MustCompile(`Composed active surface \(\d+(ms|µs|ns|s)\)`).MatchString(buf.String()) {
		t.Errorf("progress line = %q, want message with elapsed time", buf.String())
	}
}

func TestLoggerContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext(empty) is not log.Default()")
	}
	l := newLogger(&bytes.Buffer{}, LogDebug)
	if loggerFromContext(withLogger(context.Background(), l)) != l {
		t.Error("loggerFromContext() did not return the stored logger")
	}
}

func TestNewFileLogger(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "serve.log")

	logger, closer := newFileLogger(&console, log.InfoLevel, config.Log{File: path, MaxSizeMB: 1, MaxBackups: 1})
	logger.Info("listening", "addr", "localhost:8080")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !bytes.Contains(data, []byte("listening")) || !bytes.Contains(console.Bytes(), []byte("listening")) {
		t.Errorf("file = %q, console = %q; want the message in both", data, console.String())
	}
}

func TestNewFileLoggerWithoutFile(t *testing.T) {
	var console bytes.Buffer
	logger, closer := newFileLogger(&console, log.InfoLevel, config.Log{})
	logger.Info("hello")
	if err := closer.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if !bytes.Contains(console.Bytes(), []byte("hello")) {
		t.Errorf("console = %q, want hello", console.String())
	}
}
