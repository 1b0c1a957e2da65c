package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWhisperHTTPTranscribe_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST got %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Fatalf("unexpected auth header %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("invalid multipart payload: %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-1" {
			t.Fatalf("unexpected model %q", got)
		}
		if got := r.FormValue("response_format"); got != "verbose_json" {
			t.Fatalf("unexpected response_format %q", got)
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Fatalf("missing file part: %v", err)
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"task":     "transcribe",
			"language": "en",
			"duration": 12.5,
			"text":     "Hello everyone. Let us begin.",
			"segments": []map[string]interface{}{
				{"id": 0, "start": 0.0, "end": 4.2, "text": " Hello everyone.", "no_speech_prob": 0.01},
				{"id": 1, "start": 4.8, "end": 12.5, "text": " Let us begin.", "no_speech_prob": 0.02},
			},
		})
	}))
	defer ts.Close()

	audioPath := filepath.Join(t.TempDir(), "meeting.wav")
	if err := os.WriteFile(audioPath, []byte("RIFF-fake-wav"), 0644); err != nil {
		t.Fatalf("write temp audio: %v", err)
	}

	client := NewWhisperHTTP(ts.URL, "test-key", "whisper-1", 30*time.Second)
	result, err := client.Transcribe(context.Background(), audioPath, nil)
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}

	if result.Language != "en" {
		t.Errorf("expected language en, got %q", result.Language)
	}
	if result.Duration != 12.5 {
		t.Errorf("expected duration 12.5, got %f", result.Duration)
	}
	if len(result.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(result.Segments))
	}
	if result.Segments[0].Text != "Hello everyone." {
		t.Errorf("expected trimmed text, got %q", result.Segments[0].Text)
	}
	if result.Segments[1].Start != 4.8 || result.Segments[1].End != 12.5 {
		t.Errorf("unexpected segment timing: %+v", result.Segments[1])
	}
	if result.Confidence <= 0.9 {
		t.Errorf("expected high confidence, got %f", result.Confidence)
	}
}

func TestWhisperHTTPTranscribe_PassesOptions(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("invalid multipart payload: %v", err)
		}
		if got := r.FormValue("language"); got != "vi" {
			t.Fatalf("unexpected language %q", got)
		}
		if got := r.FormValue("model"); got != "whisper-large-v3" {
			t.Fatalf("unexpected model %q", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"text": "xin chào", "language": "vi"})
	}))
	defer ts.Close()

	audioPath := filepath.Join(t.TempDir(), "meeting.wav")
	if err := os.WriteFile(audioPath, []byte("fake"), 0644); err != nil {
		t.Fatalf("write temp audio: %v", err)
	}

	client := NewWhisperHTTP(ts.URL, "", "whisper-1", 30*time.Second)
	result, err := client.Transcribe(context.Background(), audioPath, &TranscribeOptions{
		Model:    "whisper-large-v3",
		Language: "vi",
	})
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if result.Text != "xin chào" {
		t.Errorf("unexpected text %q", result.Text)
	}
}

func TestWhisperHTTPTranscribe_APIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"model overloaded"}`))
	}))
	defer ts.Close()

	audioPath := filepath.Join(t.TempDir(), "meeting.wav")
	if err := os.WriteFile(audioPath, []byte("fake"), 0644); err != nil {
		t.Fatalf("write temp audio: %v", err)
	}

	client := NewWhisperHTTP(ts.URL, "", "whisper-1", 30*time.Second)
	_, err := client.Transcribe(context.Background(), audioPath, nil)
	if err == nil {
		t.Fatal("expected error for 503 response")
	}
}

func TestWhisperHTTPHealthCheck(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	client := NewWhisperHTTP(ts.URL, "", "whisper-1", 5*time.Second)
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck failed: %v", err)
	}
}
