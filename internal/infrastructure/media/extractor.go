package media

import (
	"context"
	"fmt"

	"github.com/YouYou-1402/ai-meeting-transcriber/pkg/executor"
)

// Extractor normalizes media into the audio format the transcribers expect:
// 16 kHz mono PCM WAV.
type Extractor struct {
	exec   executor.Executor
	binary string
}

// NewExtractor verifies ffmpeg is on PATH
func NewExtractor(exec executor.Executor) (*Extractor, error) {
	binary, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}
	return &Extractor{exec: exec, binary: binary}, nil
}

// ExtractAudio strips video and resamples the audio track into outputPath.
// outputPath should end in .wav.
func (e *Extractor) ExtractAudio(ctx context.Context, inputPath, outputPath string) error {
	_, err := e.exec.Execute(ctx, e.binary,
		"-i", inputPath,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-threads", "0",
		"-y",
		outputPath,
	)
	if err != nil {
		return fmt.Errorf("ffmpeg audio extraction failed for %s: %w", inputPath, err)
	}
	return nil
}
