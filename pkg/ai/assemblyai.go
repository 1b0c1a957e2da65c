package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	backoff "github.com/cenkalti/backoff/v4"
)

// AssemblyAI transcribes audio through the AssemblyAI cloud API. The SDK
// handles upload, submission and polling; speaker diarization comes from the
// service itself rather than the local silence-gap heuristic.
type AssemblyAI struct {
	client *aai.Client
	apiKey string
}

// NewAssemblyAI creates an AssemblyAI-backed transcriber.
func NewAssemblyAI(apiKey string) *AssemblyAI {
	return &AssemblyAI{
		client: aai.NewClient(apiKey),
		apiKey: apiKey,
	}
}

// Transcribe uploads the local audio file and blocks until AssemblyAI
// finishes processing it. Upload and submission are retried with exponential
// backoff; polling runs once per accepted job so a flaky network cannot
// create duplicate transcription jobs.
func (a *AssemblyAI) Transcribe(ctx context.Context, audioPath string, options *TranscribeOptions) (*TranscriptionResult, error) {
	params := &aai.TranscriptOptionalParams{
		SpeakerLabels: aai.Bool(true),
	}
	if options != nil && options.Language != "" {
		params.LanguageCode = aai.TranscriptLanguageCode(options.Language)
	}

	var submitted aai.Transcript
	submitFn := func() error {
		// Reopen per attempt: a failed upload may have consumed the reader.
		file, err := os.Open(audioPath)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to open audio file: %w", err))
		}
		defer file.Close()

		uploadURL, err := a.client.Upload(ctx, file)
		if err != nil {
			return fmt.Errorf("failed to upload audio to AssemblyAI: %w", err)
		}

		submitted, err = a.client.Transcripts.SubmitFromURL(ctx, uploadURL, params)
		if err != nil {
			return fmt.Errorf("failed to submit transcription job: %w", err)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxElapsedTime = 30 * time.Second
	bo.MaxInterval = 10 * time.Second

	if err := backoff.Retry(submitFn, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	if submitted.ID == nil {
		return nil, fmt.Errorf("AssemblyAI accepted the job but returned no transcript id")
	}

	transcript, err := a.client.Transcripts.Wait(ctx, *submitted.ID)
	if err != nil {
		return nil, fmt.Errorf("AssemblyAI transcription failed: %w", err)
	}

	if transcript.Status == aai.TranscriptStatusError {
		errMsg := "unknown error"
		if transcript.Error != nil {
			errMsg = *transcript.Error
		}
		return nil, fmt.Errorf("AssemblyAI transcription failed: %s", errMsg)
	}

	result := &TranscriptionResult{
		Language: string(transcript.LanguageCode),
	}
	if transcript.Text != nil {
		result.Text = strings.TrimSpace(*transcript.Text)
	}
	if transcript.Confidence != nil {
		result.Confidence = *transcript.Confidence
	}
	if transcript.AudioDuration != nil {
		result.Duration = *transcript.AudioDuration
	}

	for i, u := range transcript.Utterances {
		seg := TranscriptionSegment{ID: i}
		if u.Text != nil {
			seg.Text = strings.TrimSpace(*u.Text)
		}
		if u.Start != nil {
			seg.Start = float64(*u.Start) / 1000.0
		}
		if u.End != nil {
			seg.End = float64(*u.End) / 1000.0
		}
		if u.Speaker != nil {
			seg.Speaker = "Speaker " + *u.Speaker
		}
		result.Segments = append(result.Segments, seg)
	}

	// Without diarization the API returns no utterances; fall back to one
	// segment covering the whole recording.
	if len(result.Segments) == 0 && result.Text != "" {
		result.Segments = []TranscriptionSegment{{
			ID:    0,
			Start: 0,
			End:   result.Duration,
			Text:  result.Text,
		}}
	}

	if b, err := json.Marshal(transcript); err == nil {
		_ = json.Unmarshal(b, &result.Raw)
	}

	return result, nil
}

// HealthCheck verifies the API key by listing transcripts.
func (a *AssemblyAI) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", "https://api.assemblyai.com/v2/transcript?limit=1", nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}
	req.Header.Set("Authorization", a.apiKey)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("AssemblyAI health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("AssemblyAI health check failed: status %d", resp.StatusCode)
	}
	return nil
}

// Name returns the transcriber identifier used in logs and metrics.
func (a *AssemblyAI) Name() string {
	return "assemblyai"
}
