package media

import (
	"context"
	"strings"
	"testing"
)

// fakeExecutor records the invoked command and returns a canned response
type fakeExecutor struct {
	lastName string
	lastArgs []string
	output   string
	err      error
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.lastName = name
	f.lastArgs = args
	return f.output, f.err
}

func (f *fakeExecutor) LookPath(name string) (string, error) {
	return "/usr/bin/" + name, nil
}

const sampleProbeOutput = `{
	"format": {
		"format_name": "mov,mp4,m4a,3gp,3g2,mj2",
		"duration": "125.480000",
		"size": "10485760",
		"bit_rate": "668432"
	},
	"streams": [
		{"codec_type": "video", "codec_name": "h264", "width": 1280, "height": 720},
		{"codec_type": "audio", "codec_name": "aac", "sample_rate": "44100", "channels": 2}
	]
}`

func TestProbeParsesStreams(t *testing.T) {
	exec := &fakeExecutor{output: sampleProbeOutput}
	prober, err := NewProber(exec)
	if err != nil {
		t.Fatalf("NewProber: %v", err)
	}

	result, err := prober.Probe(context.Background(), "meeting.mp4")
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}

	if result.DurationSeconds != 125.48 {
		t.Errorf("duration = %f, want 125.48", result.DurationSeconds)
	}
	if result.SizeBytes != 10485760 {
		t.Errorf("size = %d, want 10485760", result.SizeBytes)
	}
	if !result.HasAudio || !result.HasVideo {
		t.Errorf("stream flags = audio:%v video:%v, want both", result.HasAudio, result.HasVideo)
	}
	if result.AudioCodec != "aac" || result.SampleRate != 44100 || result.Channels != 2 {
		t.Errorf("audio stream parsed wrong: %+v", result)
	}
	if result.VideoCodec != "h264" || result.Width != 1280 || result.Height != 720 {
		t.Errorf("video stream parsed wrong: %+v", result)
	}

	if exec.lastName != "/usr/bin/ffprobe" {
		t.Errorf("unexpected binary %q", exec.lastName)
	}
}

func TestProbeRejectsNoAudio(t *testing.T) {
	exec := &fakeExecutor{output: `{
		"format": {"format_name": "mp4", "duration": "10.0"},
		"streams": [{"codec_type": "video", "codec_name": "h264"}]
	}`}
	prober, _ := NewProber(exec)

	if _, err := prober.Probe(context.Background(), "silent.mp4"); err == nil {
		t.Fatal("expected error for file without audio stream")
	} else if !strings.Contains(err.Error(), "no audio stream") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExtractAudioArgs(t *testing.T) {
	exec := &fakeExecutor{}
	extractor, err := NewExtractor(exec)
	if err != nil {
		t.Fatalf("NewExtractor: %v", err)
	}

	if err := extractor.ExtractAudio(context.Background(), "in.mp4", "out.wav"); err != nil {
		t.Fatalf("ExtractAudio: %v", err)
	}

	args := strings.Join(exec.lastArgs, " ")
	for _, want := range []string{"-i in.mp4", "-vn", "-ar 16000", "-ac 1", "-c:a pcm_s16le", "-y", "out.wav"} {
		if !strings.Contains(args, want) {
			t.Errorf("ffmpeg args missing %q: %s", want, args)
		}
	}
}
