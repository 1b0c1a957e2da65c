package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// FileHandler ingests one dropped file. The path is inside the inbox dir;
// the handler owns moving or deleting it.
type FileHandler func(ctx context.Context, path string) error

// InboxWatcher monitors a drop directory and feeds new media files into the
// pipeline. Lets operators batch-import recordings without the HTTP API.
type InboxWatcher struct {
	inboxDir    string
	settleDelay time.Duration
	extensions  map[string]struct{}
	handler     FileHandler
	logger      *zap.Logger

	watcher *fsnotify.Watcher
	wg      sync.WaitGroup
}

// New creates an inbox watcher. allowedExtensions are without the leading
// dot ("mp3", "mp4", ...).
func New(inboxDir string, settleDelay time.Duration, allowedExtensions []string, handler FileHandler, logger *zap.Logger) (*InboxWatcher, error) {
	if err := os.MkdirAll(inboxDir, 0755); err != nil {
		return nil, fmt.Errorf("create inbox dir: %w", err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsWatcher.Add(inboxDir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if settleDelay <= 0 {
		settleDelay = 2 * time.Second
	}

	exts := make(map[string]struct{}, len(allowedExtensions))
	for _, e := range allowedExtensions {
		exts[strings.ToLower(strings.TrimPrefix(e, "."))] = struct{}{}
	}

	return &InboxWatcher{
		inboxDir:    inboxDir,
		settleDelay: settleDelay,
		extensions:  exts,
		handler:     handler,
		logger:      logger,
		watcher:     fsWatcher,
	}, nil
}

// Start blocks and dispatches created files until ctx is cancelled
func (w *InboxWatcher) Start(ctx context.Context) error {
	w.logger.Info("inbox watcher started",
		zap.String("dir", w.inboxDir),
		zap.Duration("settle_delay", w.settleDelay))

	for {
		select {
		case <-ctx.Done():
			w.wg.Wait()
			w.logger.Info("inbox watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			if !w.isMediaFile(event.Name) {
				continue
			}

			w.logger.Info("new file detected in inbox", zap.String("path", event.Name))
			w.wg.Add(1)
			go func(path string) {
				defer w.wg.Done()
				w.dispatch(ctx, path)
			}(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("watcher error", zap.Error(err))
		}
	}
}

// dispatch waits for the file to settle (copies arrive in chunks) and then
// hands it to the ingestion handler.
func (w *InboxWatcher) dispatch(ctx context.Context, path string) {
	var lastSize int64 = -1
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(w.settleDelay):
		}

		info, err := os.Stat(path)
		if err != nil {
			w.logger.Warn("inbox file vanished before processing", zap.String("path", path))
			return
		}
		if info.Size() == lastSize {
			break
		}
		lastSize = info.Size()
	}

	if err := w.handler(ctx, path); err != nil {
		w.logger.Error("failed to ingest inbox file",
			zap.String("path", path),
			zap.Error(err))
	}
}

// Stop closes the underlying fsnotify watcher
func (w *InboxWatcher) Stop() error {
	return w.watcher.Close()
}

func (w *InboxWatcher) isMediaFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	_, ok := w.extensions[ext]
	return ok
}
