package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/YouYou-1402/ai-meeting-transcriber/pkg/executor"
)

// WhisperCLI runs a local whisper.cpp binary. Useful for air-gapped
// deployments where audio must not leave the host.
type WhisperCLI struct {
	binaryPath string
	modelPath  string
	exec       executor.Executor
}

// NewWhisperCLI creates a transcriber backed by the whisper.cpp main binary.
func NewWhisperCLI(binaryPath, modelPath string, exec executor.Executor) *WhisperCLI {
	return &WhisperCLI{
		binaryPath: binaryPath,
		modelPath:  modelPath,
		exec:       exec,
	}
}

// whisperCLIOutput mirrors the JSON file written by whisper.cpp's
// --output-json flag. Offsets are in milliseconds.
type whisperCLIOutput struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// Transcribe invokes whisper.cpp and reads back the JSON it writes next to
// the audio file.
func (w *WhisperCLI) Transcribe(ctx context.Context, audioPath string, options *TranscribeOptions) (*TranscriptionResult, error) {
	outputPrefix := strings.TrimSuffix(audioPath, filepath.Ext(audioPath)) + "_whisper"
	outputPath := outputPrefix + ".json"
	defer os.Remove(outputPath)

	args := []string{
		"-m", w.modelPath,
		"-f", audioPath,
		"--output-json",
		"--output-file", outputPrefix,
		"--no-prints",
	}
	if options != nil && options.Language != "" {
		args = append(args, "--language", options.Language)
	}
	if options != nil && options.Prompt != "" {
		args = append(args, "--prompt", options.Prompt)
	}

	if _, err := w.exec.Execute(ctx, w.binaryPath, args...); err != nil {
		return nil, fmt.Errorf("whisper.cpp execution failed: %w", err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read whisper.cpp output: %w", err)
	}

	var out whisperCLIOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse whisper.cpp output: %w", err)
	}

	result := &TranscriptionResult{
		Language: out.Result.Language,
		Segments: make([]TranscriptionSegment, 0, len(out.Transcription)),
	}
	_ = json.Unmarshal(data, &result.Raw)

	var texts []string
	for i, t := range out.Transcription {
		text := strings.TrimSpace(t.Text)
		if text == "" {
			continue
		}
		result.Segments = append(result.Segments, TranscriptionSegment{
			ID:    i,
			Start: float64(t.Offsets.From) / 1000.0,
			End:   float64(t.Offsets.To) / 1000.0,
			Text:  text,
		})
		texts = append(texts, text)
	}
	result.Text = strings.Join(texts, " ")
	if len(result.Segments) > 0 {
		result.Duration = result.Segments[len(result.Segments)-1].End
	}

	return result, nil
}

// HealthCheck verifies the binary is executable and the model file exists.
func (w *WhisperCLI) HealthCheck(ctx context.Context) error {
	info, err := os.Stat(w.binaryPath)
	if err != nil {
		return fmt.Errorf("whisper.cpp binary not found: %w", err)
	}
	if info.Mode()&0111 == 0 {
		return fmt.Errorf("whisper.cpp binary is not executable: %s", w.binaryPath)
	}
	if _, err := os.Stat(w.modelPath); err != nil {
		return fmt.Errorf("whisper.cpp model not found: %w", err)
	}
	return nil
}

// Name returns the transcriber identifier used in logs and metrics.
func (w *WhisperCLI) Name() string {
	return "whisper-cpp"
}
