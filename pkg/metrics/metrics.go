// Package metrics provides Prometheus metrics for the meeting pipeline.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// uploadsTotal records accepted uploads.
	// Labels:
	//   - media_type: "audio" or "video"
	//   - source: "http" or "watcher"
	uploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meeting_uploads_total",
			Help: "Total number of accepted meeting uploads",
		},
		[]string{"media_type", "source"},
	)

	// stageTotal records pipeline stage outcomes.
	// Labels:
	//   - stage: "extract", "transcribe", "summarize", "export"
	//   - status: "success" or "failed"
	stageTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meeting_pipeline_stage_total",
			Help: "Total number of pipeline stage executions",
		},
		[]string{"stage", "status"},
	)

	// stageDuration records pipeline stage durations.
	// Buckets reach 30 minutes; transcription of long recordings is slow.
	stageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "meeting_pipeline_stage_duration_seconds",
			Help:    "Duration of pipeline stage executions in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		},
		[]string{"stage"},
	)

	// transcribedAudioSeconds records how much audio each provider processed.
	transcribedAudioSeconds = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meeting_transcribed_audio_seconds_total",
			Help: "Total seconds of audio transcribed, by provider",
		},
		[]string{"provider"},
	)

	// summaryTokensTotal records LLM token usage for minutes generation.
	summaryTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meeting_summary_tokens_total",
			Help: "Total LLM tokens consumed by minutes generation, by provider",
		},
		[]string{"provider"},
	)

	// documentsExportedTotal records rendered documents.
	documentsExportedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meeting_documents_exported_total",
			Help: "Total number of exported documents",
		},
		[]string{"format"},
	)

	// jobsInFlight tracks currently running pipeline jobs.
	jobsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "meeting_pipeline_jobs_in_flight",
			Help: "Number of pipeline jobs currently running",
		},
	)
)

func init() {
	prometheus.MustRegister(uploadsTotal)
	prometheus.MustRegister(stageTotal)
	prometheus.MustRegister(stageDuration)
	prometheus.MustRegister(transcribedAudioSeconds)
	prometheus.MustRegister(summaryTokensTotal)
	prometheus.MustRegister(documentsExportedTotal)
	prometheus.MustRegister(jobsInFlight)
}

// RecordUpload records an accepted upload.
func RecordUpload(mediaType, source string) {
	uploadsTotal.WithLabelValues(mediaType, source).Inc()
}

// RecordStage records a pipeline stage outcome.
func RecordStage(stage, status string) {
	stageTotal.WithLabelValues(stage, status).Inc()
}

// ObserveStageDuration records a pipeline stage duration.
func ObserveStageDuration(stage string, seconds float64) {
	stageDuration.WithLabelValues(stage).Observe(seconds)
}

// AddTranscribedAudio records processed audio seconds for a provider.
func AddTranscribedAudio(provider string, seconds float64) {
	if seconds > 0 {
		transcribedAudioSeconds.WithLabelValues(provider).Add(seconds)
	}
}

// AddSummaryTokens records LLM token usage for a provider.
func AddSummaryTokens(provider string, tokens int) {
	if tokens > 0 {
		summaryTokensTotal.WithLabelValues(provider).Add(float64(tokens))
	}
}

// RecordExport records a rendered document.
func RecordExport(format string) {
	documentsExportedTotal.WithLabelValues(format).Inc()
}

// JobStarted marks a pipeline job as running.
func JobStarted() {
	jobsInFlight.Inc()
}

// JobFinished marks a pipeline job as no longer running.
func JobFinished() {
	jobsInFlight.Dec()
}
