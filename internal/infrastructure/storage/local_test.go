package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/YouYou-1402/ai-meeting-transcriber/pkg/config"
)

func TestNewLocalStorageCreatesDirs(t *testing.T) {
	base := t.TempDir()
	cfg := &config.Config{}
	cfg.Storage.UploadDir = filepath.Join(base, "uploads")
	cfg.Storage.OutputDir = filepath.Join(base, "outputs")
	cfg.Storage.TempDir = filepath.Join(base, "uploads", "temp")

	if _, err := NewLocalStorage(cfg); err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}

	for _, dir := range []string{cfg.Storage.UploadDir, cfg.Storage.OutputDir, cfg.Storage.TempDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("expected directory %s to exist: %v", dir, err)
		}
	}
}

func TestLocalStorageSaveOpenDelete(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	s := &LocalStorage{baseDir: base}

	key := "uploads/meeting.mp3"
	if _, err := s.Save(ctx, key, strings.NewReader("fake audio bytes"), 16); err != nil {
		t.Fatalf("Save: %v", err)
	}

	exists, err := s.Exists(ctx, key)
	if err != nil || !exists {
		t.Fatalf("Exists = (%v, %v), want (true, nil)", exists, err)
	}

	rc, err := s.Open(ctx, key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "fake audio bytes" {
		t.Errorf("unexpected content %q", data)
	}

	path, cleanup, err := s.LocalPath(ctx, key)
	if err != nil {
		t.Fatalf("LocalPath: %v", err)
	}
	cleanup()
	if !strings.HasSuffix(filepath.ToSlash(path), "uploads/meeting.mp3") {
		t.Errorf("unexpected path %q", path)
	}

	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if exists, _ := s.Exists(ctx, key); exists {
		t.Error("expected key gone after delete")
	}

	// Deleting again is not an error
	if err := s.Delete(ctx, key); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestNextAvailableKey(t *testing.T) {
	ctx := context.Background()
	s := &LocalStorage{baseDir: t.TempDir()}

	key, err := NextAvailableKey(ctx, s, "uploads/standup.mp4")
	if err != nil {
		t.Fatalf("NextAvailableKey: %v", err)
	}
	if key != "uploads/standup.mp4" {
		t.Errorf("expected original key when free, got %q", key)
	}

	if _, err := s.Save(ctx, "uploads/standup.mp4", strings.NewReader("a"), 1); err != nil {
		t.Fatalf("Save: %v", err)
	}
	key, err = NextAvailableKey(ctx, s, "uploads/standup.mp4")
	if err != nil {
		t.Fatalf("NextAvailableKey: %v", err)
	}
	if key != "uploads/standup_1.mp4" {
		t.Errorf("expected _1 suffix, got %q", key)
	}

	if _, err := s.Save(ctx, "uploads/standup_1.mp4", strings.NewReader("b"), 1); err != nil {
		t.Fatalf("Save: %v", err)
	}
	key, err = NextAvailableKey(ctx, s, "uploads/standup.mp4")
	if err != nil {
		t.Fatalf("NextAvailableKey: %v", err)
	}
	if key != "uploads/standup_2.mp4" {
		t.Errorf("expected _2 suffix, got %q", key)
	}
}

func TestContentTypeByExt(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"uploads/a.mp3", "audio/mpeg"},
		{"uploads/a.MP4", "video/mp4"},
		{"outputs/x/minutes.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"uploads/a.unknown", "application/octet-stream"},
	}
	for _, tt := range tests {
		if got := contentTypeByExt(tt.key); got != tt.want {
			t.Errorf("contentTypeByExt(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
