package transcript

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	timestampLayout   = "2006-01-02 15:04:05.000000"
	maxCreateAttempts = 1000
)

var ErrClosed = errors.New("transcript writer closed")

// Item is one conversation turn.
type Item struct {
	Role    string   `json:"role"`
	Content []string `json:"content"`
}

type entry struct {
	at   time.Time
	item Item
}

// Writer appends conversation turns to a per-session log file from a single
// goroutine, so callers never block on disk IO unless the queue is full.
type Writer struct {
	path   string
	file   *os.File
	queue  chan entry
	done   chan struct{}
	logger *zap.Logger

	mu     sync.RWMutex
	closed bool

	closeOnce sync.Once
	err       error
}

func NewWriter(dir string, queueSize int, logger *zap.Logger) (*Writer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create transcripts dir: %w", err)
	}

	file, path, err := createLogFile(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript file: %w", err)
	}

	w := &Writer{
		path:   path,
		file:   file,
		queue:  make(chan entry, queueSize),
		done:   make(chan struct{}),
		logger: logger,
	}
	go w.run()
	return w, nil
}

// createLogFile opens a new transcriptions_<unix>.<micros>.log file. Names
// are never reused: a taken timestamp is retried with a later one.
func createLogFile(dir string) (*os.File, string, error) {
	var lastErr error
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		now := time.Now()
		name := fmt.Sprintf("transcriptions_%d.%06d.log", now.Unix(), now.Nanosecond()/1000)
		path := filepath.Join(dir, name)
		file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			return file, path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", err
		}
		lastErr = err
		time.Sleep(time.Microsecond)
	}
	return nil, "", lastErr
}

// Path returns the transcript file location.
func (w *Writer) Path() string {
	return w.path
}

// Add queues an item, waiting for room until ctx is done.
func (w *Writer) Add(ctx context.Context, item Item) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return ErrClosed
	}

	select {
	case w.queue <- entry{at: time.Now(), item: item}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops intake, flushes every queued item and closes the file.
func (w *Writer) Close() error {
	w.closeOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		close(w.queue)
		w.mu.Unlock()
	})
	<-w.done
	return w.err
}

func (w *Writer) run() {
	defer close(w.done)

	written := 0
	for e := range w.queue {
		if _, err := w.file.WriteString(format(e)); err != nil {
			w.logger.Error("failed to write transcript item", zap.String("file", w.path), zap.Error(err))
			if w.err == nil {
				w.err = err
			}
			continue
		}
		written++
	}

	if err := w.file.Close(); err != nil && w.err == nil {
		w.err = err
	}
	w.logger.Info("transcriptions logged", zap.String("file", w.path), zap.Int("items", written))
}

func format(e entry) string {
	label := "USER"
	if e.item.Role == RoleAssistant {
		label = "ASSISTANT"
	}
	return fmt.Sprintf("[%s] %s:\n%s\n\n", e.at.Format(timestampLayout), label, strings.Join(e.item.Content, "\n"))
}
