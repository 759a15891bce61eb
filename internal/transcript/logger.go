package transcript

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Line labels of a transcript record.
const (
	TimeLayout = "2006-01-02 15:04:05"
	UserLabel  = "🧑 User: "
	BotLabel   = "🤖 Bot: "
	// UserMarker identifies user lines when reading a transcript back.
	UserMarker = "User:"
)

// Logger appends chat turns to a plain-text transcript. Every call opens,
// writes and closes the file; no handle is held between turns.
type Logger struct {
	path string
	now  func() time.Time
}

func NewLogger(path string) *Logger {
	return &Logger{path: path, now: time.Now}
}

// WithClock replaces the timestamp source.
func (l *Logger) WithClock(now func() time.Time) *Logger {
	l.now = now
	return l
}

func (l *Logger) Path() string { return l.path }

// Format renders one record. Continuation lines of either text that would
// read back as a user line are indented so only the labelled line counts.
func Format(at time.Time, user, bot string) string {
	return fmt.Sprintf("[%s]\n%s%s\n%s%s\n\n", at.Format(TimeLayout), UserLabel, indentUserLines(user), BotLabel, indentUserLines(bot))
}

// IsUserLine reports whether a transcript line holds a user utterance.
func IsUserLine(line string) bool {
	return strings.HasPrefix(line, UserLabel) || strings.HasPrefix(line, UserMarker)
}

func indentUserLines(text string) string {
	if !strings.Contains(text, UserMarker) {
		return text
	}
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		if IsUserLine(strings.TrimLeft(lines[i], " \t")) {
			lines[i] = "  " + strings.TrimLeft(lines[i], " \t")
		}
	}
	return strings.Join(lines, "\n")
}

func (l *Logger) Append(user, bot string) error {
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("transcript: %w", err)
		}
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("transcript: open %s: %w", l.path, err)
	}
	if _, err := io.WriteString(f, Format(l.now(), user, bot)); err != nil {
		f.Close()
		return fmt.Errorf("transcript: write %s: %w", l.path, err)
	}
	return f.Close()
}

func (l *Logger) Exists() bool {
	_, err := os.Stat(l.path)
	return err == nil
}

// ReadAll returns the whole transcript, or "" when none has been written yet.
func (l *Logger) ReadAll() (string, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("transcript: read %s: %w", l.path, err)
	}
	return string(data), nil
}

// Open returns a reader over the transcript. A missing transcript reads as empty.
func (l *Logger) Open() (io.ReadCloser, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return io.NopCloser(strings.NewReader("")), nil
		}
		return nil, fmt.Errorf("transcript: open %s: %w", l.path, err)
	}
	return f, nil
}
