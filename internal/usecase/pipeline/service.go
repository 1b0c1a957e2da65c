package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/YouYou-1402/ai-meeting-transcriber/internal/domain/entities"
	"github.com/YouYou-1402/ai-meeting-transcriber/internal/domain/repositories"
	"github.com/YouYou-1402/ai-meeting-transcriber/internal/infrastructure/cache"
	"github.com/YouYou-1402/ai-meeting-transcriber/internal/infrastructure/media"
	"github.com/YouYou-1402/ai-meeting-transcriber/internal/infrastructure/storage"
	usecaseErrors "github.com/YouYou-1402/ai-meeting-transcriber/internal/usecase/errors"
	"github.com/YouYou-1402/ai-meeting-transcriber/internal/usecase/export"
	pkgai "github.com/YouYou-1402/ai-meeting-transcriber/pkg/ai"
	"github.com/YouYou-1402/ai-meeting-transcriber/pkg/config"
	"github.com/YouYou-1402/ai-meeting-transcriber/pkg/jobcontext"
	"github.com/YouYou-1402/ai-meeting-transcriber/pkg/metrics"
)

// Progress milestones reported while a meeting moves through the pipeline
const (
	progressTranscribing = 10
	progressAudioReady   = 20
	progressTranscribed  = 50
	progressSummarized   = 70
	progressEnriched     = 85
	progressDocumentDone = 95
	progressCompleted    = 100
)

// maxDiarizedSpeakers caps the silence-gap speaker heuristic when the
// transcription backend returns no speaker labels.
const maxDiarizedSpeakers = 4

// Service defines pipeline orchestration methods
type Service interface {
	// EnqueueMeeting creates a pending processing job for a meeting.
	// Returns ErrAlreadyProcessing when a job is already active.
	EnqueueMeeting(ctx context.Context, meetingID uuid.UUID) (*entities.ProcessingJob, error)

	// StartWorkerPool launches the processing workers and the maintenance
	// tickers (zombie reset, failed-job report, temp cleanup)
	StartWorkerPool(ctx context.Context, workerCount int) error

	// StopWorkerPool gracefully stops all worker goroutines
	StopWorkerPool() error
}

// Ensure pipelineService implements Service interface
var _ Service = (*pipelineService)(nil)

type pipelineService struct {
	meetingRepo    repositories.MeetingRepository
	transcriptRepo repositories.TranscriptRepository
	minutesRepo    repositories.MinutesRepository
	jobRepo        repositories.JobRepository

	store       storage.Storage
	prober      *media.Prober
	extractor   *media.Extractor
	transcriber pkgai.Transcriber
	chat        pkgai.ChatCompleter
	exporter    export.Service
	parser      *Parser
	progress    *cache.ProgressStore

	cfg    *config.Config
	logger *zap.Logger

	transcribeSemaphore chan struct{} // Limit concurrent transcriptions
	workerStopChan      chan struct{} // Signal workers to stop
	workerWg            sync.WaitGroup
	isWorkerPoolRunning bool
	workerMutex         sync.Mutex
}

// NewPipelineService constructs the processing pipeline service
func NewPipelineService(
	meetingRepo repositories.MeetingRepository,
	transcriptRepo repositories.TranscriptRepository,
	minutesRepo repositories.MinutesRepository,
	jobRepo repositories.JobRepository,
	store storage.Storage,
	prober *media.Prober,
	extractor *media.Extractor,
	transcriber pkgai.Transcriber,
	chat pkgai.ChatCompleter,
	exporter export.Service,
	progress *cache.ProgressStore,
	cfg *config.Config,
	logger *zap.Logger,
) Service {
	concurrency := cfg.Worker.TranscribeConcurrency
	if concurrency <= 0 {
		concurrency = 2
	}
	return &pipelineService{
		meetingRepo:         meetingRepo,
		transcriptRepo:      transcriptRepo,
		minutesRepo:         minutesRepo,
		jobRepo:             jobRepo,
		store:               store,
		prober:              prober,
		extractor:           extractor,
		transcriber:         transcriber,
		chat:                chat,
		exporter:            exporter,
		parser:              NewParser(),
		progress:            progress,
		cfg:                 cfg,
		logger:              logger,
		transcribeSemaphore: make(chan struct{}, concurrency),
	}
}

// EnqueueMeeting creates a pending job that the worker pool will pick up
func (s *pipelineService) EnqueueMeeting(ctx context.Context, meetingID uuid.UUID) (*entities.ProcessingJob, error) {
	active, err := s.jobRepo.FindActiveByMeetingID(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to check active jobs: %w", err)
	}
	if active != nil {
		return active, usecaseErrors.ErrAlreadyProcessing
	}

	job := entities.NewProcessingJob(meetingID, s.cfg.Worker.MaxRetries)
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("📋 Meeting queued for processing",
			zap.String("meeting_id", meetingID.String()),
			zap.String("job_id", job.ID.String()),
		)
	}
	return job, nil
}

// StartWorkerPool launches worker goroutines plus the maintenance routines
func (s *pipelineService) StartWorkerPool(ctx context.Context, workerCount int) error {
	s.workerMutex.Lock()
	defer s.workerMutex.Unlock()

	if s.isWorkerPoolRunning {
		return fmt.Errorf("worker pool already running")
	}

	s.isWorkerPoolRunning = true
	s.workerStopChan = make(chan struct{})

	if s.logger != nil {
		s.logger.Info("🚀 Starting processing worker pool",
			zap.Int("worker_count", workerCount),
			zap.Duration("poll_interval", s.cfg.Worker.PollInterval),
		)
	}

	// Start worker goroutines
	for i := 0; i < workerCount; i++ {
		s.workerWg.Add(1)
		go s.processingWorker(ctx, i)
	}

	// Start cleanup routine for zombie jobs
	s.workerWg.Add(1)
	go s.zombieJobWorker(ctx)

	// Start worker that reports permanently failed jobs
	s.workerWg.Add(1)
	go s.failedJobLogWorker(ctx)

	// Start worker that clears stale temp files
	s.workerWg.Add(1)
	go s.tempCleanupWorker(ctx)

	return nil
}

// StopWorkerPool gracefully stops all worker goroutines
func (s *pipelineService) StopWorkerPool() error {
	s.workerMutex.Lock()
	defer s.workerMutex.Unlock()

	if !s.isWorkerPoolRunning {
		return fmt.Errorf("worker pool not running")
	}

	if s.logger != nil {
		s.logger.Info("🛑 Stopping processing worker pool...")
	}

	close(s.workerStopChan)
	s.workerWg.Wait()
	s.isWorkerPoolRunning = false

	if s.logger != nil {
		s.logger.Info("✅ Processing worker pool stopped")
	}

	return nil
}

// processingWorker polls for claimable jobs and runs the stage sequence
func (s *pipelineService) processingWorker(parentCtx context.Context, workerID int) {
	defer s.workerWg.Done()

	ticker := time.NewTicker(s.cfg.Worker.PollInterval)
	defer ticker.Stop()

	if s.logger != nil {
		s.logger.Info("👷 Worker started",
			zap.Int("worker_id", workerID),
		)
	}

	for {
		select {
		case <-s.workerStopChan:
			if s.logger != nil {
				s.logger.Info("👷 Worker stopping",
					zap.Int("worker_id", workerID),
				)
			}
			return

		case <-ticker.C:
			// Poll for claimable jobs
			jobs, err := s.jobRepo.FindClaimable(parentCtx, 1)
			if err != nil {
				if s.logger != nil {
					s.logger.Error("❌ Failed to poll jobs",
						zap.Int("worker_id", workerID),
						zap.Error(err),
					)
				}
				continue
			}

			if len(jobs) == 0 {
				continue
			}

			job := jobs[0]

			// Atomically claim the job; only one worker succeeds when
			// several see the same row
			claimed, err := s.jobRepo.Claim(parentCtx, job.ID, workerID)
			if err != nil {
				if s.logger != nil {
					s.logger.Error("❌ Failed to claim job",
						zap.String("job_id", job.ID.String()),
						zap.Error(err),
					)
				}
				continue
			}
			if !claimed {
				if s.logger != nil {
					s.logger.Info("⏭️ Job already claimed by another worker",
						zap.String("job_id", job.ID.String()),
					)
				}
				continue
			}

			if s.logger != nil {
				s.logger.Info("👷 Worker claimed job",
					zap.Int("worker_id", workerID),
					zap.String("job_id", job.ID.String()),
					zap.String("meeting_id", job.MeetingID.String()),
					zap.Int("retry_count", job.RetryCount),
				)
			}

			s.runClaimedJob(parentCtx, job, workerID)
		}
	}
}

// runClaimedJob wraps one pipeline run in the job context (timeout, panic
// recovery, bounded in-process retries) and settles the job row afterwards.
func (s *pipelineService) runClaimedJob(parentCtx context.Context, job *entities.ProcessingJob, workerID int) {
	metrics.JobStarted()
	defer metrics.JobFinished()

	jobCtx, cancel := jobcontext.JobBegin(parentCtx, job.ID, "process", workerID, s.cfg.Worker.JobTimeout, s.cfg.Worker.MaxRetries)
	err := jobcontext.JobEnd(jobCtx, func(ctx context.Context) error {
		return s.runJob(ctx, job)
	})
	cancel()

	if err != nil {
		if s.logger != nil {
			s.logger.Error("❌ Job failed",
				zap.String("job_id", job.ID.String()),
				zap.String("meeting_id", job.MeetingID.String()),
				zap.Error(err),
			)
		}
		s.handleJobFailure(parentCtx, job, err)
		return
	}

	now := time.Now()
	if err := s.jobRepo.UpdateFields(parentCtx, job.ID, map[string]interface{}{
		"status":       entities.JobStatusCompleted,
		"stage":        "",
		"completed_at": now,
		"updated_at":   now,
	}); err != nil && s.logger != nil {
		s.logger.Error("❌ Failed to mark job completed",
			zap.String("job_id", job.ID.String()),
			zap.Error(err),
		)
	}

	if s.logger != nil {
		s.logger.Info("✅ Job completed successfully",
			zap.String("job_id", job.ID.String()),
			zap.String("meeting_id", job.MeetingID.String()),
		)
	}
}

// handleJobFailure queues another attempt while retries remain, otherwise
// marks the job failed for good. The meeting is marked failed either way;
// the next attempt resets it when it starts.
func (s *pipelineService) handleJobFailure(ctx context.Context, job *entities.ProcessingJob, jobErr error) {
	errMsg := jobErr.Error()

	fresh, err := s.jobRepo.FindByID(ctx, job.ID)
	if err != nil || fresh == nil {
		fresh = job
	}

	if fresh.IsRetryable() {
		if err := s.jobRepo.IncrementRetry(ctx, job.ID, errMsg); err != nil && s.logger != nil {
			s.logger.Error("❌ Failed to queue job retry",
				zap.String("job_id", job.ID.String()),
				zap.Error(err),
			)
		}
	} else {
		now := time.Now()
		if err := s.jobRepo.UpdateFields(ctx, job.ID, map[string]interface{}{
			"status":       entities.JobStatusFailed,
			"last_error":   errMsg,
			"completed_at": now,
			"updated_at":   now,
		}); err != nil && s.logger != nil {
			s.logger.Error("❌ Failed to mark job failed",
				zap.String("job_id", job.ID.String()),
				zap.Error(err),
			)
		}
	}

	if err := s.meetingRepo.UpdateFields(ctx, job.MeetingID, map[string]interface{}{
		"status":        entities.MeetingStatusFailed,
		"error_message": errMsg,
		"updated_at":    time.Now(),
	}); err != nil && s.logger != nil {
		s.logger.Error("❌ Failed to mark meeting failed",
			zap.String("meeting_id", job.MeetingID.String()),
			zap.Error(err),
		)
	}

	progress := 0
	if m, merr := s.meetingRepo.FindByID(ctx, job.MeetingID); merr == nil && m != nil {
		progress = m.Progress
	}
	s.publishProgress(ctx, job.MeetingID, string(entities.MeetingStatusFailed), fresh.Stage, progress, errMsg)
	s.progress.InvalidateStats(ctx)
}

// runJob executes the full stage sequence for one meeting
func (s *pipelineService) runJob(ctx context.Context, job *entities.ProcessingJob) error {
	meeting, err := s.meetingRepo.FindByID(ctx, job.MeetingID)
	if err != nil {
		return fmt.Errorf("failed to load meeting: %w", err)
	}
	if meeting == nil {
		return fmt.Errorf("invalid job: meeting %s not found", job.MeetingID)
	}

	// A retry may find the meeting half-processed or marked failed.
	// Start every attempt from a clean slate.
	if err := s.resetMeetingForRun(ctx, meeting); err != nil {
		return err
	}

	// Stage 1: normalized audio
	if err := s.advanceMeeting(ctx, meeting, entities.MeetingStatusTranscribing, progressTranscribing, entities.StageExtract); err != nil {
		return err
	}
	s.setJobStage(ctx, job, entities.StageExtract)

	audioPath, cleanupAudio, err := s.runStage(entities.StageExtract, func() (string, func(), error) {
		return s.ensureAudio(ctx, meeting)
	})
	if err != nil {
		return err
	}
	defer cleanupAudio()
	s.publishProgressFor(ctx, meeting, entities.StageExtract, progressAudioReady)

	// Stage 2: transcription
	s.setJobStage(ctx, job, entities.StageTranscribe)
	transcript, err := s.transcribeStage(ctx, meeting, audioPath)
	if err != nil {
		return err
	}
	s.publishProgressFor(ctx, meeting, entities.StageTranscribe, progressTranscribed)

	// Stage 3: minutes
	if err := s.advanceMeeting(ctx, meeting, entities.MeetingStatusSummarizing, progressTranscribed, entities.StageSummarize); err != nil {
		return err
	}
	s.setJobStage(ctx, job, entities.StageSummarize)
	minutes, err := s.summarizeStage(ctx, meeting, transcript)
	if err != nil {
		return err
	}

	// Stage 4: document
	if err := s.advanceMeeting(ctx, meeting, entities.MeetingStatusExporting, progressEnriched, entities.StageExport); err != nil {
		return err
	}
	s.setJobStage(ctx, job, entities.StageExport)
	if err := s.exportStage(ctx, meeting, minutes, transcript); err != nil {
		return err
	}
	s.publishProgressFor(ctx, meeting, entities.StageExport, progressDocumentDone)

	// Done
	now := time.Now()
	if err := s.meetingRepo.UpdateFields(ctx, meeting.ID, map[string]interface{}{
		"status":        entities.MeetingStatusCompleted,
		"progress":      progressCompleted,
		"processed_at":  now,
		"error_message": nil,
		"updated_at":    now,
	}); err != nil {
		return fmt.Errorf("failed to mark meeting completed: %w", err)
	}
	meeting.Status = entities.MeetingStatusCompleted
	meeting.Progress = progressCompleted
	s.publishProgress(ctx, meeting.ID, string(entities.MeetingStatusCompleted), "", progressCompleted, "")
	s.progress.InvalidateStats(ctx)

	if s.logger != nil {
		s.logger.Info("🎉 Meeting processed",
			zap.String("meeting_id", meeting.ID.String()),
			zap.String("title", meeting.Title),
		)
	}
	return nil
}

// resetMeetingForRun normalizes meeting state and drops rows a previous
// attempt may have left behind. The transcript is unique per meeting, so a
// rerun has to remove it before inserting its own.
func (s *pipelineService) resetMeetingForRun(ctx context.Context, meeting *entities.Meeting) error {
	if meeting.Status != entities.MeetingStatusPending {
		if err := s.meetingRepo.UpdateFields(ctx, meeting.ID, map[string]interface{}{
			"status":        entities.MeetingStatusPending,
			"progress":      0,
			"error_message": nil,
			"updated_at":    time.Now(),
		}); err != nil {
			return fmt.Errorf("failed to reset meeting: %w", err)
		}
		meeting.Status = entities.MeetingStatusPending
		meeting.Progress = 0
		meeting.ErrorMessage = nil
	}

	if err := s.transcriptRepo.DeleteByMeetingID(ctx, meeting.ID); err != nil {
		return fmt.Errorf("failed to clear previous transcript: %w", err)
	}
	if err := s.minutesRepo.DeleteByMeetingID(ctx, meeting.ID); err != nil {
		return fmt.Errorf("failed to clear previous minutes: %w", err)
	}
	return nil
}

// ensureAudio yields a local path to normalized 16 kHz mono WAV audio,
// extracting it from the source when needed. The returned cleanup releases
// any staged copy.
func (s *pipelineService) ensureAudio(ctx context.Context, meeting *entities.Meeting) (string, func(), error) {
	// A previous run may have extracted the audio already
	if meeting.AudioKey != nil && *meeting.AudioKey != "" {
		if ok, err := s.store.Exists(ctx, *meeting.AudioKey); err == nil && ok {
			return s.store.LocalPath(ctx, *meeting.AudioKey)
		}
	}

	srcPath, srcCleanup, err := s.store.LocalPath(ctx, meeting.FileKey)
	if err != nil {
		return "", nil, fmt.Errorf("failed to stage source media: %w", err)
	}

	probe, err := s.prober.Probe(ctx, srcPath)
	if err != nil {
		srcCleanup()
		return "", nil, fmt.Errorf("failed to probe media: %w", err)
	}

	if meeting.DurationSeconds == 0 && probe.DurationSeconds > 0 {
		meeting.DurationSeconds = probe.DurationSeconds
		if err := s.meetingRepo.UpdateFields(ctx, meeting.ID, map[string]interface{}{
			"duration_seconds": probe.DurationSeconds,
			"updated_at":       time.Now(),
		}); err != nil && s.logger != nil {
			s.logger.Warn("⚠️ Failed to store media duration",
				zap.String("meeting_id", meeting.ID.String()),
				zap.Error(err),
			)
		}
	}

	// WAV audio needs no extraction pass
	if meeting.MediaType == entities.MediaTypeAudio && strings.EqualFold(meeting.FileFormat, "wav") {
		if err := s.setAudioKey(ctx, meeting, meeting.FileKey); err != nil {
			srcCleanup()
			return "", nil, err
		}
		return srcPath, srcCleanup, nil
	}

	if s.logger != nil {
		s.logger.Info("🎞️ Extracting audio track",
			zap.String("meeting_id", meeting.ID.String()),
			zap.String("media_type", string(meeting.MediaType)),
			zap.String("format", meeting.FileFormat),
		)
	}

	wavPath := filepath.Join(s.cfg.Storage.TempDir, fmt.Sprintf("audio_%s.wav", meeting.ID.String()))
	if err := os.MkdirAll(s.cfg.Storage.TempDir, 0755); err != nil {
		srcCleanup()
		return "", nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	if err := s.extractor.ExtractAudio(ctx, srcPath, wavPath); err != nil {
		srcCleanup()
		return "", nil, fmt.Errorf("failed to extract audio: %w", err)
	}
	srcCleanup()

	info, err := os.Stat(wavPath)
	if err != nil {
		return "", nil, fmt.Errorf("failed to stat extracted audio: %w", err)
	}

	f, err := os.Open(wavPath)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open extracted audio: %w", err)
	}
	audioKey := fmt.Sprintf("uploads/audio/%s.wav", meeting.ID.String())
	_, saveErr := s.store.Save(ctx, audioKey, f, info.Size())
	f.Close()
	if saveErr != nil {
		os.Remove(wavPath)
		return "", nil, fmt.Errorf("failed to store extracted audio: %w", saveErr)
	}

	if err := s.setAudioKey(ctx, meeting, audioKey); err != nil {
		os.Remove(wavPath)
		return "", nil, err
	}

	cleanup := func() { os.Remove(wavPath) }
	return wavPath, cleanup, nil
}

func (s *pipelineService) setAudioKey(ctx context.Context, meeting *entities.Meeting, key string) error {
	meeting.AudioKey = &key
	if err := s.meetingRepo.UpdateFields(ctx, meeting.ID, map[string]interface{}{
		"audio_key":  key,
		"updated_at": time.Now(),
	}); err != nil {
		return fmt.Errorf("failed to store audio key: %w", err)
	}
	return nil
}

// transcribeStage converts the normalized audio into a stored transcript
func (s *pipelineService) transcribeStage(ctx context.Context, meeting *entities.Meeting, audioPath string) (*entities.Transcript, error) {
	// Acquire transcription slot
	select {
	case s.transcribeSemaphore <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("context cancelled waiting for transcription slot: %w", ctx.Err())
	}
	defer func() { <-s.transcribeSemaphore }()

	language := meeting.Language
	if language == "" {
		language = s.cfg.Transcriber.Language
	}

	if s.logger != nil {
		s.logger.Info("🎙️ Starting transcription",
			zap.String("meeting_id", meeting.ID.String()),
			zap.String("provider", s.transcriber.Name()),
			zap.String("language", language),
		)
	}

	started := time.Now()
	result, err := s.transcriber.Transcribe(ctx, audioPath, &pkgai.TranscribeOptions{
		Model:         s.cfg.Transcriber.Model,
		Language:      language,
		SpeakerLabels: true,
	})
	if err != nil {
		metrics.RecordStage(entities.StageTranscribe, "failed")
		return nil, fmt.Errorf("failed to transcribe audio: %w", err)
	}
	metrics.RecordStage(entities.StageTranscribe, "success")
	metrics.ObserveStageDuration(entities.StageTranscribe, time.Since(started).Seconds())
	metrics.AddTranscribedAudio(s.transcriber.Name(), result.Duration)

	pkgai.AssignSpeakers(result.Segments, maxDiarizedSpeakers)

	segments := make([]entities.TranscriptSegment, 0, len(result.Segments))
	for _, seg := range result.Segments {
		segments = append(segments, entities.TranscriptSegment{
			Start:   seg.Start,
			End:     seg.End,
			Text:    strings.TrimSpace(seg.Text),
			Speaker: seg.Speaker,
		})
	}

	storedLanguage := result.Language
	if storedLanguage == "" {
		storedLanguage = language
	}

	transcript := entities.NewTranscript(meeting.ID, result.Text, storedLanguage, segments)
	transcript.ConfidenceScore = result.Confidence
	transcript.ModelUsed = s.transcriber.Name()
	transcript.ProcessingTimeMs = time.Since(started).Milliseconds()
	if result.Duration > transcript.DurationSeconds {
		transcript.DurationSeconds = result.Duration
	}
	if result.Raw != nil {
		transcript.RawResponse = datatypes.NewJSONType(result.Raw)
	}

	if err := s.transcriptRepo.Create(ctx, transcript); err != nil {
		return nil, fmt.Errorf("failed to store transcript: %w", err)
	}

	if err := s.parser.ValidateTranscriptLength(transcript.Text, int(transcript.DurationSeconds)); err != nil {
		// Short recordings still flow through; the summarize stage
		// falls back to deterministic minutes when needed
		if s.logger != nil {
			s.logger.Warn("⚠️ Transcript below recommended length",
				zap.String("meeting_id", meeting.ID.String()),
				zap.Error(err),
			)
		}
	}

	if s.logger != nil {
		s.logger.Info("✅ Transcription stored",
			zap.String("meeting_id", meeting.ID.String()),
			zap.Int("segments", len(transcript.Segments)),
			zap.Int("words", transcript.WordCount),
			zap.Float64("duration_seconds", transcript.DurationSeconds),
		)
	}
	return transcript, nil
}

// summarizeStage turns the transcript into stored meeting minutes, then
// enriches them with the dedicated action-item and participant passes.
func (s *pipelineService) summarizeStage(ctx context.Context, meeting *entities.Meeting, transcript *entities.Transcript) (*entities.MeetingMinutes, error) {
	started := time.Now()

	analysis, tokensUsed, usedLLM, err := s.generateAnalysis(ctx, meeting, transcript)
	if err != nil {
		metrics.RecordStage(entities.StageSummarize, "failed")
		return nil, err
	}

	minutes := entities.NewMeetingMinutes(meeting.ID, transcript.ID)
	minutes.Title = analysis.Title
	if minutes.Title == "" {
		minutes.Title = meeting.Title
	}
	minutes.Summary = analysis.Summary
	minutes.KeyPoints = analysis.KeyPoints
	minutes.Decisions = analysis.Decisions
	minutes.ActionItems = toActionItems(analysis.ActionItems)
	minutes.Participants = analysis.Participants
	minutes.FollowUps = analysis.FollowUps
	minutes.Language = transcript.Language
	minutes.TokensUsed = tokensUsed
	if usedLLM {
		minutes.ModelUsed = s.cfg.Summarizer.Model
	}
	minutes.ProcessingTimeMs = time.Since(started).Milliseconds()

	if err := s.minutesRepo.Create(ctx, minutes); err != nil {
		metrics.RecordStage(entities.StageSummarize, "failed")
		return nil, fmt.Errorf("failed to store minutes: %w", err)
	}
	s.publishProgressFor(ctx, meeting, entities.StageSummarize, progressSummarized)

	if usedLLM {
		s.enrichMinutes(ctx, meeting, transcript, minutes, analysis)
	}

	// Keep the meeting's attendee list in sync with the minutes
	if len(minutes.Participants) > 0 {
		meeting.Participants = minutes.Participants
		if err := s.meetingRepo.UpdateFields(ctx, meeting.ID, map[string]interface{}{
			"participants": minutes.Participants,
			"updated_at":   time.Now(),
		}); err != nil && s.logger != nil {
			s.logger.Warn("⚠️ Failed to sync participants",
				zap.String("meeting_id", meeting.ID.String()),
				zap.Error(err),
			)
		}
	}
	s.publishProgressFor(ctx, meeting, entities.StageSummarize, progressEnriched)

	metrics.RecordStage(entities.StageSummarize, "success")
	metrics.ObserveStageDuration(entities.StageSummarize, time.Since(started).Seconds())
	if tokensUsed > 0 {
		metrics.AddSummaryTokens(s.chat.Name(), tokensUsed)
	}

	if s.logger != nil {
		s.logger.Info("📝 Minutes generated",
			zap.String("meeting_id", meeting.ID.String()),
			zap.Int("action_items", len(minutes.ActionItems)),
			zap.Int("decisions", len(minutes.Decisions)),
			zap.Int("tokens_used", tokensUsed),
		)
	}
	return minutes, nil
}

// generateAnalysis picks the summarization path: deterministic fallback for
// tiny transcripts, one-shot for normal ones, chunked for oversized ones.
func (s *pipelineService) generateAnalysis(ctx context.Context, meeting *entities.Meeting, transcript *entities.Transcript) (*entities.MinutesAnalysis, int, bool, error) {
	text := transcript.Text

	if s.parser.TooShortToSummarize(text) {
		if s.logger != nil {
			s.logger.Warn("⚠️ Transcript too short for the model, using minimal minutes",
				zap.String("meeting_id", meeting.ID.String()),
				zap.Int("words", transcript.WordCount),
			)
		}
		return s.parser.MinimalAnalysis(meeting.Title, text), 0, false, nil
	}

	tokensUsed := 0
	var prompt string
	if len(text) > maxTranscriptChars {
		chunks := SplitTranscript(text, chunkTranscriptChars)
		if s.logger != nil {
			s.logger.Info("📚 Long transcript, summarizing chunk-wise",
				zap.String("meeting_id", meeting.ID.String()),
				zap.Int("chunks", len(chunks)),
			)
		}
		partSummaries := make([]string, 0, len(chunks))
		for i, chunk := range chunks {
			res, err := s.chat.Complete(ctx, minutesSystemPrompt, buildChunkPrompt(i+1, len(chunks), chunk))
			if err != nil {
				return nil, tokensUsed, true, fmt.Errorf("failed to summarize chunk %d/%d: %w", i+1, len(chunks), err)
			}
			partSummaries = append(partSummaries, res.Content)
			tokensUsed += res.TokensUsed
		}
		prompt = buildMergePrompt(meeting.Title, transcript.Language, partSummaries)
	} else {
		prompt = buildMinutesPrompt(meeting.Title, transcript.Language, text)
	}

	res, err := s.chat.Complete(ctx, minutesSystemPrompt, prompt)
	if err != nil {
		return nil, tokensUsed, true, fmt.Errorf("failed to generate minutes: %w", err)
	}
	tokensUsed += res.TokensUsed

	analysis, err := s.parser.ParseMinutesResponse(res.Content)
	if err != nil {
		return nil, tokensUsed, true, fmt.Errorf("failed to parse minutes response: %w", err)
	}
	return analysis, tokensUsed, true, nil
}

// enrichMinutes runs the dedicated extraction passes and merges what they
// find into the stored minutes. Extraction failures only log; the minutes
// from the main pass already stand on their own.
func (s *pipelineService) enrichMinutes(ctx context.Context, meeting *entities.Meeting, transcript *entities.Transcript, minutes *entities.MeetingMinutes, analysis *entities.MinutesAnalysis) {
	text := TruncateTranscript(transcript.Text, maxTranscriptChars)
	changed := false

	if res, err := s.chat.Complete(ctx, extractionSystemPrompt, buildActionItemsPrompt(text)); err == nil {
		minutes.TokensUsed += res.TokensUsed
		if extracted, perr := s.parser.ParseActionItemsResponse(res.Content); perr == nil && len(extracted) > 0 {
			merged := s.parser.MergeActionItems(analysis.ActionItems, extracted)
			if len(merged) != len(analysis.ActionItems) {
				minutes.ActionItems = toActionItems(merged)
				changed = true
			}
		}
	} else if s.logger != nil {
		s.logger.Warn("⚠️ Action item extraction failed",
			zap.String("meeting_id", meeting.ID.String()),
			zap.Error(err),
		)
	}

	if res, err := s.chat.Complete(ctx, extractionSystemPrompt, buildParticipantsPrompt(transcript.Text)); err == nil {
		minutes.TokensUsed += res.TokensUsed
		if names, perr := s.parser.ParseParticipantsResponse(res.Content); perr == nil && len(names) > 0 {
			merged := s.parser.MergeParticipants(analysis.Participants, names)
			if len(merged) != len(analysis.Participants) {
				minutes.Participants = merged
				changed = true
			}
		}
	} else if s.logger != nil {
		s.logger.Warn("⚠️ Participant extraction failed",
			zap.String("meeting_id", meeting.ID.String()),
			zap.Error(err),
		)
	}

	if changed {
		if err := s.minutesRepo.Update(ctx, minutes); err != nil && s.logger != nil {
			s.logger.Warn("⚠️ Failed to store enriched minutes",
				zap.String("meeting_id", meeting.ID.String()),
				zap.Error(err),
			)
		}
	}
}

// exportStage renders and records the downloadable document
func (s *pipelineService) exportStage(ctx context.Context, meeting *entities.Meeting, minutes *entities.MeetingMinutes, transcript *entities.Transcript) error {
	started := time.Now()
	if _, err := s.exporter.RenderMinutes(ctx, meeting, minutes, transcript); err != nil {
		metrics.RecordStage(entities.StageExport, "failed")
		return fmt.Errorf("failed to export document: %w", err)
	}
	metrics.RecordStage(entities.StageExport, "success")
	metrics.ObserveStageDuration(entities.StageExport, time.Since(started).Seconds())
	return nil
}

// advanceMeeting validates and persists a status transition, then publishes
// the new progress snapshot.
func (s *pipelineService) advanceMeeting(ctx context.Context, meeting *entities.Meeting, status entities.MeetingStatus, progress int, stage string) error {
	var transitionErr error
	switch status {
	case entities.MeetingStatusTranscribing:
		transitionErr = meeting.MarkAsTranscribing()
	case entities.MeetingStatusSummarizing:
		transitionErr = meeting.MarkAsSummarizing()
	case entities.MeetingStatusExporting:
		transitionErr = meeting.MarkAsExporting()
	default:
		transitionErr = fmt.Errorf("unexpected pipeline status %s", status)
	}
	if transitionErr != nil {
		return fmt.Errorf("invalid transition %s -> %s: %w", meeting.Status, status, transitionErr)
	}

	meeting.SetProgress(progress)
	if err := s.meetingRepo.UpdateFields(ctx, meeting.ID, map[string]interface{}{
		"status":     status,
		"progress":   meeting.Progress,
		"updated_at": time.Now(),
	}); err != nil {
		return fmt.Errorf("failed to persist %s transition: %w", status, err)
	}

	s.publishProgress(ctx, meeting.ID, string(status), stage, meeting.Progress, "")
	return nil
}

// publishProgressFor bumps progress within the current status
func (s *pipelineService) publishProgressFor(ctx context.Context, meeting *entities.Meeting, stage string, progress int) {
	meeting.SetProgress(progress)
	if err := s.meetingRepo.UpdateProgress(ctx, meeting.ID, meeting.Progress); err != nil && s.logger != nil {
		s.logger.Warn("⚠️ Failed to persist progress",
			zap.String("meeting_id", meeting.ID.String()),
			zap.Int("progress", meeting.Progress),
			zap.Error(err),
		)
	}
	s.publishProgress(ctx, meeting.ID, string(meeting.Status), stage, meeting.Progress, "")
}

// publishProgress writes the Redis snapshot the progress endpoint serves
func (s *pipelineService) publishProgress(ctx context.Context, meetingID uuid.UUID, status, stage string, progress int, errMsg string) {
	if s.progress == nil {
		return
	}
	if err := s.progress.SetProgress(ctx, meetingID, cache.ProgressSnapshot{
		Status:   status,
		Stage:    stage,
		Progress: progress,
		Error:    errMsg,
	}); err != nil && s.logger != nil {
		s.logger.Warn("⚠️ Failed to cache progress",
			zap.String("meeting_id", meetingID.String()),
			zap.Error(err),
		)
	}
}

func (s *pipelineService) setJobStage(ctx context.Context, job *entities.ProcessingJob, stage string) {
	job.SetStage(stage)
	if err := s.jobRepo.UpdateFields(ctx, job.ID, map[string]interface{}{
		"stage":      stage,
		"updated_at": time.Now(),
	}); err != nil && s.logger != nil {
		s.logger.Warn("⚠️ Failed to persist job stage",
			zap.String("job_id", job.ID.String()),
			zap.String("stage", stage),
			zap.Error(err),
		)
	}
}

// runStage wraps a stage body with outcome metrics
func (s *pipelineService) runStage(stage string, fn func() (string, func(), error)) (string, func(), error) {
	started := time.Now()
	path, cleanup, err := fn()
	if err != nil {
		metrics.RecordStage(stage, "failed")
		return "", nil, err
	}
	metrics.RecordStage(stage, "success")
	metrics.ObserveStageDuration(stage, time.Since(started).Seconds())
	if cleanup == nil {
		cleanup = func() {}
	}
	return path, cleanup, nil
}

// zombieJobWorker requeues jobs whose worker died mid-run
func (s *pipelineService) zombieJobWorker(parentCtx context.Context) {
	defer s.workerWg.Done()

	ticker := time.NewTicker(s.cfg.Worker.ZombieInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.workerStopChan:
			return

		case <-ticker.C:
			jobs, err := s.jobRepo.FindZombies(parentCtx, s.cfg.Worker.ZombieThreshold)
			if err != nil {
				continue
			}

			for _, job := range jobs {
				if s.logger != nil {
					s.logger.Warn("🧹 Requeuing zombie job",
						zap.String("job_id", job.ID.String()),
						zap.String("meeting_id", job.MeetingID.String()),
						zap.Time("updated_at", job.UpdatedAt),
					)
				}

				if err := s.jobRepo.UpdateFields(parentCtx, job.ID, map[string]interface{}{
					"status":     entities.JobStatusRetrying,
					"worker_id":  nil,
					"updated_at": time.Now(),
				}); err != nil && s.logger != nil {
					s.logger.Error("❌ Failed to requeue zombie job",
						zap.String("job_id", job.ID.String()),
						zap.Error(err),
					)
				}
			}
		}
	}
}

// failedJobLogWorker periodically reports permanently failed jobs
func (s *pipelineService) failedJobLogWorker(parentCtx context.Context) {
	defer s.workerWg.Done()

	ticker := time.NewTicker(s.cfg.Worker.FailedLogInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.workerStopChan:
			return

		case <-ticker.C:
			failedJobs, err := s.jobRepo.ListRecentFailures(parentCtx, s.cfg.Worker.FailedLogInterval)
			if err != nil {
				continue
			}

			if len(failedJobs) == 0 {
				continue
			}

			if s.logger != nil {
				s.logger.Warn("⚠️ Permanently failed jobs found (exceeded max retries)",
					zap.Int("count", len(failedJobs)),
				)
				for _, job := range failedJobs {
					errorMsg := ""
					if job.LastError != nil {
						errorMsg = *job.LastError
					}
					s.logger.Warn("💀 Dead job",
						zap.String("job_id", job.ID.String()),
						zap.String("meeting_id", job.MeetingID.String()),
						zap.Int("retry_count", job.RetryCount),
						zap.String("last_error", errorMsg),
					)
				}
			}
		}
	}
}

// tempCleanupWorker clears stale scratch files left by crashed runs
func (s *pipelineService) tempCleanupWorker(parentCtx context.Context) {
	defer s.workerWg.Done()

	ticker := time.NewTicker(s.cfg.Worker.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.workerStopChan:
			return

		case <-ticker.C:
			removed := cleanTempDir(s.cfg.Storage.TempDir, s.cfg.Worker.TempMaxAge)
			if removed > 0 && s.logger != nil {
				s.logger.Info("🧹 Removed stale temp files",
					zap.Int("count", removed),
					zap.String("dir", s.cfg.Storage.TempDir),
				)
			}
		}
	}
}

// cleanTempDir removes regular files older than maxAge and returns how many
func cleanTempDir(dir string, maxAge time.Duration) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(dir, entry.Name())); err == nil {
				removed++
			}
		}
	}
	return removed
}

// toActionItems converts parsed analysis items into the persisted shape
func toActionItems(items []entities.ActionItemAnalysis) []entities.ActionItem {
	out := make([]entities.ActionItem, 0, len(items))
	for _, item := range items {
		out = append(out, entities.ActionItem{
			Description: item.Description,
			Owner:       item.Owner,
			DueDate:     item.DueDate,
			Priority:    item.Priority,
		})
	}
	return out
}
