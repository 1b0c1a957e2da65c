package media

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/YouYou-1402/ai-meeting-transcriber/pkg/executor"
)

// ProbeResult summarizes what ffprobe found in a media file
type ProbeResult struct {
	FormatName      string
	DurationSeconds float64
	SizeBytes       int64
	BitRate         int64
	HasAudio        bool
	HasVideo        bool
	AudioCodec      string
	SampleRate      int
	Channels        int
	VideoCodec      string
	Width           int
	Height          int
}

// ffprobeOutput mirrors the -print_format json shape. ffprobe encodes most
// numbers as strings.
type ffprobeOutput struct {
	Format struct {
		FormatName string `json:"format_name"`
		Duration   string `json:"duration"`
		Size       string `json:"size"`
		BitRate    string `json:"bit_rate"`
	} `json:"format"`
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		SampleRate string `json:"sample_rate"`
		Channels   int    `json:"channels"`
		Width      int    `json:"width"`
		Height     int    `json:"height"`
	} `json:"streams"`
}

// Prober inspects media files with ffprobe
type Prober struct {
	exec   executor.Executor
	binary string
}

// NewProber verifies ffprobe is on PATH
func NewProber(exec executor.Executor) (*Prober, error) {
	binary, err := exec.LookPath("ffprobe")
	if err != nil {
		return nil, fmt.Errorf("ffprobe not found in PATH: %w", err)
	}
	return &Prober{exec: exec, binary: binary}, nil
}

// Probe returns duration, codec and stream information for a file
func (p *Prober) Probe(ctx context.Context, path string) (*ProbeResult, error) {
	out, err := p.exec.Execute(ctx, p.binary,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed for %s: %w", path, err)
	}

	var probe ffprobeOutput
	if err := json.Unmarshal([]byte(out), &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	result := &ProbeResult{
		FormatName:      probe.Format.FormatName,
		DurationSeconds: parseFloat(probe.Format.Duration),
		SizeBytes:       parseInt(probe.Format.Size),
		BitRate:         parseInt(probe.Format.BitRate),
	}

	for _, s := range probe.Streams {
		switch s.CodecType {
		case "audio":
			result.HasAudio = true
			result.AudioCodec = s.CodecName
			result.SampleRate = int(parseInt(s.SampleRate))
			result.Channels = s.Channels
		case "video":
			result.HasVideo = true
			result.VideoCodec = s.CodecName
			result.Width = s.Width
			result.Height = s.Height
		}
	}

	if !result.HasAudio {
		return result, fmt.Errorf("no audio stream in %s", path)
	}

	return result, nil
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func parseInt(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
