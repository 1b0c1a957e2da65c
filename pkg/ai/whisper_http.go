package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// WhisperHTTP transcribes audio through an OpenAI-compatible
// /audio/transcriptions endpoint. It works against api.openai.com as well as
// self-hosted whisper servers that speak the same protocol.
type WhisperHTTP struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewWhisperHTTP creates a whisper HTTP client. The timeout must accommodate
// transcription of long recordings; transcription time is roughly
// proportional to audio duration.
func NewWhisperHTTP(baseURL, apiKey, model string, timeout time.Duration) *WhisperHTTP {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &WhisperHTTP{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

// verboseTranscription mirrors the verbose_json response shape.
type verboseTranscription struct {
	Task     string  `json:"task"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
	Text     string  `json:"text"`
	Segments []struct {
		ID           int     `json:"id"`
		Start        float64 `json:"start"`
		End          float64 `json:"end"`
		Text         string  `json:"text"`
		NoSpeechProb float64 `json:"no_speech_prob"`
	} `json:"segments"`
}

// Transcribe uploads the audio file as multipart/form-data and parses the
// verbose JSON response into timestamped segments.
func (w *WhisperHTTP) Transcribe(ctx context.Context, audioPath string, options *TranscribeOptions) (*TranscriptionResult, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to copy file data: %w", err)
	}

	model := w.model
	if options != nil && options.Model != "" {
		model = options.Model
	}
	if err := writer.WriteField("model", model); err != nil {
		return nil, fmt.Errorf("failed to write model field: %w", err)
	}
	if err := writer.WriteField("response_format", "verbose_json"); err != nil {
		return nil, fmt.Errorf("failed to write response_format field: %w", err)
	}
	if options != nil && options.Language != "" {
		if err := writer.WriteField("language", options.Language); err != nil {
			return nil, fmt.Errorf("failed to write language field: %w", err)
		}
	}
	if options != nil && options.Temperature > 0 {
		if err := writer.WriteField("temperature", fmt.Sprintf("%.1f", options.Temperature)); err != nil {
			return nil, fmt.Errorf("failed to write temperature field: %w", err)
		}
	}
	if options != nil && options.Prompt != "" {
		if err := writer.WriteField("prompt", options.Prompt); err != nil {
			return nil, fmt.Errorf("failed to write prompt field: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	endpoint := w.baseURL + "/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if w.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+w.apiKey)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whisper request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("whisper API returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read whisper response: %w", err)
	}
	var vt verboseTranscription
	if err := json.Unmarshal(raw, &vt); err != nil {
		return nil, fmt.Errorf("failed to parse whisper response: %w", err)
	}

	result := &TranscriptionResult{
		Text:     strings.TrimSpace(vt.Text),
		Language: vt.Language,
		Duration: vt.Duration,
		Segments: make([]TranscriptionSegment, 0, len(vt.Segments)),
	}
	_ = json.Unmarshal(raw, &result.Raw)

	var speechProb float64
	for _, s := range vt.Segments {
		result.Segments = append(result.Segments, TranscriptionSegment{
			ID:    s.ID,
			Start: s.Start,
			End:   s.End,
			Text:  strings.TrimSpace(s.Text),
		})
		speechProb += 1 - s.NoSpeechProb
	}
	if len(vt.Segments) > 0 {
		result.Confidence = speechProb / float64(len(vt.Segments))
	}
	if result.Duration == 0 && len(result.Segments) > 0 {
		result.Duration = result.Segments[len(result.Segments)-1].End
	}

	return result, nil
}

// HealthCheck probes the endpoint's model listing.
func (w *WhisperHTTP) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", w.baseURL+"/models", nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}
	if w.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+w.apiKey)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("whisper health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("whisper health check failed: status %d", resp.StatusCode)
	}
	return nil
}

// Name returns the transcriber identifier used in logs and metrics.
func (w *WhisperHTTP) Name() string {
	return "whisper-http"
}
