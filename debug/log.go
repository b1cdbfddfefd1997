package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	charmlog "github.com/charmbracelet/log"
)

var (
	mu      sync.Mutex
	file    *os.File
	logger  *charmlog.Logger
	enabled bool
)

// DefaultPath is ~/.config/go-pianoroll/debug.log
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-pianoroll", "debug.log"), nil
}

// Enable starts debug logging to DefaultPath, truncating it
func Enable() error {
	path, err := DefaultPath()
	if err != nil {
		return err
	}
	return EnableFile(path)
}

// EnableFile starts debug logging to path, truncating it
func EnableFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("opening debug log: %w", err)
	}

	EnableTo(f)
	mu.Lock()
	file = f
	mu.Unlock()
	return nil
}

// EnableTo sends debug logging to w. Any previous log file is closed.
func EnableTo(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	closeFile()
	logger = charmlog.NewWithOptions(w, charmlog.Options{
		Level:           charmlog.DebugLevel,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
	})
	enabled = true
	counters = make(map[string]int)

	logger.Debug("=== Debug logging started ===", "at", time.Now().Format(time.DateTime))
}

// Disable stops debug logging
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	closeFile()
	logger = nil
	enabled = false
}

func closeFile() {
	if file != nil {
		file.Close()
		file = nil
	}
}

// Enabled reports whether Log writes anywhere
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Log writes a message to the debug log under a category prefix
func Log(category, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || logger == nil {
		return
	}

	logger.WithPrefix(category).Debug(fmt.Sprintf(format, args...))
	if file != nil {
		file.Sync() // flush so logs survive a crash
	}
}

// Error logs err under category when it is not nil
func Error(category string, err error) {
	mu.Lock()
	defer mu.Unlock()

	if err == nil || !enabled || logger == nil {
		return
	}
	logger.WithPrefix(category).Error(err.Error())
}

// LogEvery logs only every N calls (use for high-frequency events).
// n below 1 logs every call.
var counters = make(map[string]int)

func LogEvery(n int, category, format string, args ...any) {
	if n < 1 {
		n = 1
	}
	mu.Lock()
	key := category + format
	counters[key]++
	count := counters[key]
	mu.Unlock()

	if count%n == 0 {
		Log(category, format+" (every %d, count=%d)", append(args, n, count)...)
	}
}
