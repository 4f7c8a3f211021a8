package logging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultMaxFileSize = 100 * 1024 * 1024
	logFilePrefix      = "placenames-"
)

var numberedLogFile = regexp.MustCompile(`^placenames-\d{4}-W\d{2}_(\d{2})\.log$`)

// RotatingLogger is an io.Writer that starts a new file each ISO week and
// whenever the current file would exceed maxFileSize. Files older than the
// retention period are removed once a day.
type RotatingLogger struct {
	logDir      string
	retention   time.Duration
	maxFileSize int64

	mu          sync.Mutex
	file        *os.File
	week        string
	size        int64
	closeOnce   sync.Once
	cancel      context.CancelFunc
	cleanupDone chan struct{}

	// now is replaced in tests
	now func() time.Time
}

// NewRotatingLogger creates a rotating writer in logDir. A maxFileSize of 0
// disables size based rotation.
func NewRotatingLogger(logDir string, retentionWeeks int, maxFileSize int64) *RotatingLogger {
	return &RotatingLogger{
		logDir:      logDir,
		retention:   time.Duration(retentionWeeks) * 7 * 24 * time.Hour,
		maxFileSize: maxFileSize,
		cleanupDone: make(chan struct{}),
		now:         time.Now,
	}
}

// weekKey returns the ISO week in YYYY-Www format
func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// Open creates the directory, opens the file for the current week and starts
// the retention cleanup loop.
func (rl *RotatingLogger) Open() error {
	if err := os.MkdirAll(rl.logDir, 0750); err != nil {
		return fmt.Errorf("failed to create log directory %s: %w", rl.logDir, err)
	}

	rl.mu.Lock()
	err := rl.rotate(weekKey(rl.now()), false)
	rl.mu.Unlock()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	rl.cancel = cancel
	go rl.cleanupLoop(ctx)
	return nil
}

func (rl *RotatingLogger) cleanupLoop(ctx context.Context) {
	defer close(rl.cleanupDone)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := rl.cleanupOldLogs(); err != nil {
				fmt.Fprintf(os.Stderr, "log cleanup failed: %v\n", err)
			}
		}
	}
}

// rotate switches to the right file for week (caller holds mu). When
// full is set the current file reached its size limit and a new numbered
// file is started.
func (rl *RotatingLogger) rotate(week string, full bool) error {
	if rl.file != nil {
		if err := rl.file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close log file during rotation: %v\n", err)
		}
		rl.file = nil
	}

	name := rl.pickFile(week, full)
	path := filepath.Join(rl.logDir, name)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	rl.file = file
	rl.week = week
	rl.size = 0
	if info, err := file.Stat(); err == nil {
		rl.size = info.Size()
	}
	return nil
}

// pickFile returns the base file for the week if it still has room, then the
// highest numbered file if that has room, otherwise the next numbered file.
// With full set only the next numbered file is considered.
func (rl *RotatingLogger) pickFile(week string, full bool) string {
	base := fmt.Sprintf("%s%s.log", logFilePrefix, week)
	if !full && !rl.isFull(filepath.Join(rl.logDir, base)) {
		return base
	}

	highest := 0
	matches, _ := filepath.Glob(filepath.Join(rl.logDir, fmt.Sprintf("%s%s_??.log", logFilePrefix, week)))
	for _, match := range matches {
		m := numberedLogFile.FindStringSubmatch(filepath.Base(match))
		if len(m) < 2 {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > highest {
			highest = n
		}
	}

	if !full && highest > 0 {
		last := fmt.Sprintf("%s%s_%02d.log", logFilePrefix, week, highest)
		if !rl.isFull(filepath.Join(rl.logDir, last)) {
			return last
		}
	}
	return fmt.Sprintf("%s%s_%02d.log", logFilePrefix, week, highest+1)
}

func (rl *RotatingLogger) isFull(path string) bool {
	if rl.maxFileSize <= 0 {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Size() >= rl.maxFileSize
}

// Write implements io.Writer.
func (rl *RotatingLogger) Write(p []byte) (int, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	week := weekKey(rl.now())
	switch {
	case rl.week != week:
		if err := rl.rotate(week, false); err != nil {
			return 0, err
		}
	case rl.maxFileSize > 0 && rl.size+int64(len(p)) > rl.maxFileSize && rl.size > 0:
		if err := rl.rotate(week, true); err != nil {
			return 0, err
		}
	}

	if rl.file == nil {
		return 0, fmt.Errorf("no log file available")
	}

	n, err := rl.file.Write(p)
	rl.size += int64(n)
	return n, err
}

// cleanupOldLogs removes log files whose modification time is older than the
// retention period and returns the names it removed.
func (rl *RotatingLogger) cleanupOldLogs() ([]string, error) {
	entries, err := os.ReadDir(rl.logDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read log directory: %w", err)
	}

	cutoff := rl.now().Add(-rl.retention)
	var removed []string

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, logFilePrefix) || !strings.HasSuffix(name, ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(rl.logDir, name)); err == nil {
			removed = append(removed, name)
		}
	}

	sort.Strings(removed)
	return removed, nil
}

// Close stops the cleanup loop and closes the current file.
func (rl *RotatingLogger) Close() error {
	var err error
	rl.closeOnce.Do(func() {
		if rl.cancel != nil {
			rl.cancel()
			select {
			case <-rl.cleanupDone:
			case <-time.After(5 * time.Second):
				fmt.Fprintln(os.Stderr, "log cleanup goroutine did not stop in time")
			}
		}

		rl.mu.Lock()
		defer rl.mu.Unlock()
		if rl.file != nil {
			err = rl.file.Close()
			rl.file = nil
		}
	})
	return err
}
