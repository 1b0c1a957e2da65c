package meeting

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/YouYou-1402/ai-meeting-transcriber/internal/domain/entities"
	"github.com/YouYou-1402/ai-meeting-transcriber/internal/domain/repositories"
	"github.com/YouYou-1402/ai-meeting-transcriber/internal/infrastructure/cache"
	"github.com/YouYou-1402/ai-meeting-transcriber/internal/infrastructure/media"
	"github.com/YouYou-1402/ai-meeting-transcriber/internal/infrastructure/storage"
	usecaseErrors "github.com/YouYou-1402/ai-meeting-transcriber/internal/usecase/errors"
	"github.com/YouYou-1402/ai-meeting-transcriber/pkg/config"
	"github.com/YouYou-1402/ai-meeting-transcriber/pkg/metrics"
)

// Ensure meetingService implements Service interface
var _ Service = (*meetingService)(nil)

type meetingService struct {
	meetingRepo    repositories.MeetingRepository
	transcriptRepo repositories.TranscriptRepository
	minutesRepo    repositories.MinutesRepository
	documentRepo   repositories.DocumentRepository
	jobRepo        repositories.JobRepository

	store    storage.Storage
	prober   *media.Prober
	enqueuer Enqueuer
	progress *cache.ProgressStore

	cfg    *config.Config
	logger *zap.Logger
}

// NewMeetingService constructs the meeting management service
func NewMeetingService(
	meetingRepo repositories.MeetingRepository,
	transcriptRepo repositories.TranscriptRepository,
	minutesRepo repositories.MinutesRepository,
	documentRepo repositories.DocumentRepository,
	jobRepo repositories.JobRepository,
	store storage.Storage,
	prober *media.Prober,
	enqueuer Enqueuer,
	progress *cache.ProgressStore,
	cfg *config.Config,
	logger *zap.Logger,
) Service {
	return &meetingService{
		meetingRepo:    meetingRepo,
		transcriptRepo: transcriptRepo,
		minutesRepo:    minutesRepo,
		documentRepo:   documentRepo,
		jobRepo:        jobRepo,
		store:          store,
		prober:         prober,
		enqueuer:       enqueuer,
		progress:       progress,
		cfg:            cfg,
		logger:         logger,
	}
}

// Upload validates and stores an incoming recording, registers the meeting
// and queues it for processing. The MD5 hash is computed while streaming to
// storage so the file is read exactly once.
func (s *meetingService) Upload(ctx context.Context, input UploadInput) (*entities.Meeting, error) {
	ext, mediaType, err := s.classifyMedia(input.Filename)
	if err != nil {
		return nil, err
	}
	if input.Size <= 0 {
		return nil, usecaseErrors.ErrEmptyFile
	}
	if input.Size > s.cfg.Upload.MaxFileSize {
		return nil, usecaseErrors.ErrFileTooLarge
	}

	storedName := sanitizeFilename(input.Filename)
	key, err := storage.NextAvailableKey(ctx, s.store, s.cfg.Storage.UploadDir+"/"+storedName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upload key: %w", err)
	}

	hasher := md5.New()
	if _, err := s.store.Save(ctx, key, io.TeeReader(input.Reader, hasher), input.Size); err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		base := filepath.Base(input.Filename)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	meeting := entities.NewMeeting(title, input.Filename, filepath.Base(key), key, input.Size, mediaType, ext)
	meeting.FileHash = hex.EncodeToString(hasher.Sum(nil))
	meeting.Language = strings.TrimSpace(input.Language)

	if err := s.probeUpload(ctx, meeting, key); err != nil {
		// The stored file is useless without an audio track
		if delErr := s.store.Delete(ctx, key); delErr != nil && s.logger != nil {
			s.logger.Warn("⚠️ Failed to remove rejected upload",
				zap.String("key", key),
				zap.Error(delErr))
		}
		return nil, err
	}

	if err := s.meetingRepo.Create(ctx, meeting); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil && s.logger != nil {
			s.logger.Warn("⚠️ Failed to remove unregistered upload",
				zap.String("key", key),
				zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to register meeting: %w", err)
	}

	metrics.RecordUpload(string(mediaType), input.Source)
	s.invalidateStats(ctx)

	// Enqueue failure leaves the meeting pending; it can be started later
	// via Process, so the accepted upload is not rolled back.
	if _, err := s.enqueuer.EnqueueMeeting(ctx, meeting.ID); err != nil && s.logger != nil {
		s.logger.Error("❌ Failed to enqueue uploaded meeting",
			zap.String("meeting_id", meeting.ID.String()),
			zap.Error(err))
	}

	if s.logger != nil {
		s.logger.Info("📥 Recording uploaded",
			zap.String("meeting_id", meeting.ID.String()),
			zap.String("title", meeting.Title),
			zap.String("media_type", string(mediaType)),
			zap.Int64("size_bytes", input.Size),
			zap.String("source", input.Source))
	}
	return meeting, nil
}

// IngestLocalFile registers a file already on disk exactly as an HTTP upload
// would and removes the source on success. Used by the inbox watcher.
func (s *meetingService) IngestLocalFile(ctx context.Context, path, source string) (*entities.Meeting, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open inbox file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat inbox file: %w", err)
	}

	meeting, err := s.Upload(ctx, UploadInput{
		Filename: filepath.Base(path),
		Size:     info.Size(),
		Reader:   f,
		Source:   source,
	})
	f.Close()
	if err != nil {
		return nil, err
	}

	if err := os.Remove(path); err != nil && s.logger != nil {
		s.logger.Warn("⚠️ Failed to remove ingested inbox file",
			zap.String("path", path),
			zap.Error(err))
	}
	return meeting, nil
}

// List retrieves meetings with filters and pagination
func (s *meetingService) List(ctx context.Context, filters repositories.MeetingFilters) ([]*entities.Meeting, int64, error) {
	return s.meetingRepo.List(ctx, filters)
}

// Get retrieves a meeting with presence flags for its derived records
func (s *meetingService) Get(ctx context.Context, id uuid.UUID) (*Detail, error) {
	meeting, err := s.meetingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load meeting: %w", err)
	}
	if meeting == nil {
		return nil, usecaseErrors.ErrMeetingNotFound
	}

	detail := &Detail{Meeting: meeting}

	if transcript, err := s.transcriptRepo.FindByMeetingID(ctx, id); err == nil && transcript != nil {
		detail.HasTranscript = true
	}
	if minutes, err := s.minutesRepo.FindByMeetingID(ctx, id); err == nil && minutes != nil {
		detail.HasMinutes = true
	}
	if document, err := s.documentRepo.FindLatestByMeetingID(ctx, id); err == nil && document != nil {
		detail.HasDocument = true
		detail.Document = document
	}
	if job, err := s.jobRepo.FindActiveByMeetingID(ctx, id); err == nil && job != nil {
		detail.ActiveJob = job
	}
	return detail, nil
}

// Update edits meeting metadata and, when they exist, the minutes
func (s *meetingService) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*entities.Meeting, error) {
	meeting, err := s.meetingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load meeting: %w", err)
	}
	if meeting == nil {
		return nil, usecaseErrors.ErrMeetingNotFound
	}

	fields := make(map[string]interface{})
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", usecaseErrors.ErrInvalidInput)
		}
		fields["title"] = title
	}
	if input.Participants != nil {
		fields["participants"] = input.Participants
	}
	if len(fields) > 0 {
		if err := s.meetingRepo.UpdateFields(ctx, id, fields); err != nil {
			return nil, fmt.Errorf("failed to update meeting: %w", err)
		}
	}

	if input.MinutesTitle != nil || input.Summary != nil || input.ActionItems != nil {
		minutes, err := s.minutesRepo.FindByMeetingID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load minutes: %w", err)
		}
		if minutes == nil {
			return nil, usecaseErrors.ErrNoMinutes
		}
		if input.MinutesTitle != nil {
			minutes.Title = strings.TrimSpace(*input.MinutesTitle)
		}
		if input.Summary != nil {
			minutes.Summary = *input.Summary
		}
		if input.ActionItems != nil {
			minutes.ActionItems = input.ActionItems
		}
		minutes.UpdatedAt = time.Now()
		if err := s.minutesRepo.Update(ctx, minutes); err != nil {
			return nil, fmt.Errorf("failed to update minutes: %w", err)
		}
	}

	updated, err := s.meetingRepo.FindByID(ctx, id)
	if err != nil || updated == nil {
		return meeting, nil
	}
	return updated, nil
}

// Delete removes the meeting, its derived rows and its stored files. An
// actively running job is left to fail on its own; pending and retrying
// jobs are cancelled so no worker picks the dead meeting up.
func (s *meetingService) Delete(ctx context.Context, id uuid.UUID) error {
	meeting, err := s.meetingRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load meeting: %w", err)
	}
	if meeting == nil {
		return usecaseErrors.ErrMeetingNotFound
	}

	if err := s.jobRepo.CancelActiveByMeetingID(ctx, id); err != nil && s.logger != nil {
		s.logger.Warn("⚠️ Failed to cancel queued jobs",
			zap.String("meeting_id", id.String()),
			zap.Error(err))
	}

	keys := []string{meeting.FileKey}
	if meeting.AudioKey != nil && *meeting.AudioKey != "" && *meeting.AudioKey != meeting.FileKey {
		keys = append(keys, *meeting.AudioKey)
	}
	if documents, err := s.documentRepo.ListByMeetingID(ctx, id); err == nil {
		for _, document := range documents {
			keys = append(keys, document.FileKey)
		}
	}
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil && s.logger != nil {
			s.logger.Warn("⚠️ Failed to delete stored file",
				zap.String("key", key),
				zap.Error(err))
		}
	}

	if err := s.documentRepo.DeleteByMeetingID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete documents: %w", err)
	}
	if err := s.minutesRepo.DeleteByMeetingID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete minutes: %w", err)
	}
	if err := s.transcriptRepo.DeleteByMeetingID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete transcript: %w", err)
	}
	if err := s.meetingRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete meeting: %w", err)
	}

	if err := s.progress.InvalidateProgress(ctx, id); err != nil && s.logger != nil {
		s.logger.Warn("⚠️ Failed to drop progress cache",
			zap.String("meeting_id", id.String()),
			zap.Error(err))
	}
	s.invalidateStats(ctx)

	if s.logger != nil {
		s.logger.Info("🗑️ Meeting deleted",
			zap.String("meeting_id", id.String()),
			zap.String("title", meeting.Title))
	}
	return nil
}

// Process (re)starts the pipeline for a meeting
func (s *meetingService) Process(ctx context.Context, id uuid.UUID, force bool) (*entities.ProcessingJob, error) {
	meeting, err := s.meetingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load meeting: %w", err)
	}
	if meeting == nil {
		return nil, usecaseErrors.ErrMeetingNotFound
	}

	if meeting.IsProcessing() {
		return nil, usecaseErrors.ErrAlreadyProcessing
	}
	if meeting.Status == entities.MeetingStatusCompleted && !force {
		return nil, usecaseErrors.ErrAlreadyCompleted
	}

	if meeting.IsTerminal() {
		if err := meeting.ResetForReprocess(); err != nil {
			return nil, fmt.Errorf("failed to reset meeting: %w", err)
		}
		if err := s.meetingRepo.UpdateFields(ctx, id, map[string]interface{}{
			"status":        entities.MeetingStatusPending,
			"progress":      0,
			"error_message": nil,
			"processed_at":  nil,
		}); err != nil {
			return nil, fmt.Errorf("failed to persist meeting reset: %w", err)
		}
	}

	job, err := s.enqueuer.EnqueueMeeting(ctx, id)
	if err != nil {
		return job, err
	}

	if err := s.progress.SetProgress(ctx, id, cache.ProgressSnapshot{
		Status:   string(entities.MeetingStatusPending),
		Progress: 0,
	}); err != nil && s.logger != nil {
		s.logger.Warn("⚠️ Failed to cache progress reset",
			zap.String("meeting_id", id.String()),
			zap.Error(err))
	}
	s.invalidateStats(ctx)

	if s.logger != nil {
		s.logger.Info("▶️ Meeting processing requested",
			zap.String("meeting_id", id.String()),
			zap.Bool("force", force))
	}
	return job, nil
}

// Progress returns the current pipeline snapshot, cache-first
func (s *meetingService) Progress(ctx context.Context, id uuid.UUID) (*ProgressInfo, error) {
	if snapshot, ok, err := s.progress.GetProgress(ctx, id); err == nil && ok {
		return &ProgressInfo{
			MeetingID: id,
			Status:    snapshot.Status,
			Stage:     snapshot.Stage,
			Progress:  snapshot.Progress,
			Error:     snapshot.Error,
			UpdatedAt: snapshot.UpdatedAt,
			FromCache: true,
		}, nil
	}

	meeting, err := s.meetingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load meeting: %w", err)
	}
	if meeting == nil {
		return nil, usecaseErrors.ErrMeetingNotFound
	}

	info := &ProgressInfo{
		MeetingID: id,
		Status:    string(meeting.Status),
		Progress:  meeting.Progress,
		UpdatedAt: meeting.UpdatedAt,
	}
	if meeting.ErrorMessage != nil {
		info.Error = *meeting.ErrorMessage
	}
	return info, nil
}

// GetTranscript returns the stored transcript of a meeting
func (s *meetingService) GetTranscript(ctx context.Context, id uuid.UUID) (*entities.Transcript, error) {
	if err := s.ensureMeeting(ctx, id); err != nil {
		return nil, err
	}
	transcript, err := s.transcriptRepo.FindByMeetingID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load transcript: %w", err)
	}
	if transcript == nil {
		return nil, usecaseErrors.ErrNoTranscript
	}
	return transcript, nil
}

// GetMinutes returns the stored minutes of a meeting
func (s *meetingService) GetMinutes(ctx context.Context, id uuid.UUID) (*entities.MeetingMinutes, error) {
	if err := s.ensureMeeting(ctx, id); err != nil {
		return nil, err
	}
	minutes, err := s.minutesRepo.FindByMeetingID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load minutes: %w", err)
	}
	if minutes == nil {
		return nil, usecaseErrors.ErrNoMinutes
	}
	return minutes, nil
}

// GetDocument returns the latest exported document of a meeting
func (s *meetingService) GetDocument(ctx context.Context, id uuid.UUID) (*entities.ExportedDocument, error) {
	if err := s.ensureMeeting(ctx, id); err != nil {
		return nil, err
	}
	document, err := s.documentRepo.FindLatestByMeetingID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	if document == nil {
		return nil, usecaseErrors.ErrNoDocument
	}
	return document, nil
}

// OpenDocument returns the latest exported document and a reader over its
// content for attachment downloads
func (s *meetingService) OpenDocument(ctx context.Context, id uuid.UUID) (*entities.ExportedDocument, io.ReadCloser, error) {
	document, err := s.GetDocument(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	reader, err := s.store.Open(ctx, document.FileKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open document %s: %w", document.FileKey, err)
	}
	return document, reader, nil
}

// PresignDocument returns a direct remote URL for the latest document. Local
// storage serves relative paths, which are no use to redirect to, so those
// yield "".
func (s *meetingService) PresignDocument(ctx context.Context, id uuid.UUID, expiry time.Duration) (string, error) {
	document, err := s.GetDocument(ctx, id)
	if err != nil {
		return "", err
	}
	url, err := s.store.URL(ctx, document.FileKey, expiry)
	if err != nil {
		return "", fmt.Errorf("failed to presign document: %w", err)
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "", nil
	}
	return url, nil
}

// Stats aggregates pipeline-wide numbers, cache-first
func (s *meetingService) Stats(ctx context.Context) (*Stats, error) {
	var cached Stats
	if ok, err := s.progress.GetStats(ctx, &cached); err == nil && ok {
		return &cached, nil
	}

	repoStats, err := s.meetingRepo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate stats: %w", err)
	}

	stats := &Stats{
		TotalMeetings:      repoStats.TotalMeetings,
		CompletedMeetings:  repoStats.ByStatus[string(entities.MeetingStatusCompleted)],
		FailedMeetings:     repoStats.ByStatus[string(entities.MeetingStatusFailed)],
		ByStatus:           repoStats.ByStatus,
		TotalDurationHours: round2(repoStats.TotalDurationSeconds / 3600),
		TotalFileSizeBytes: repoStats.TotalFileSize,
	}
	stats.ProcessingMeetings = repoStats.ByStatus[string(entities.MeetingStatusTranscribing)] +
		repoStats.ByStatus[string(entities.MeetingStatusSummarizing)] +
		repoStats.ByStatus[string(entities.MeetingStatusExporting)]
	if stats.TotalMeetings > 0 {
		stats.SuccessRate = round2(float64(stats.CompletedMeetings) / float64(stats.TotalMeetings) * 100)
	}

	if err := s.progress.SetStats(ctx, stats); err != nil && s.logger != nil {
		s.logger.Warn("⚠️ Failed to cache stats", zap.Error(err))
	}
	return stats, nil
}

// ensureMeeting verifies the meeting exists
func (s *meetingService) ensureMeeting(ctx context.Context, id uuid.UUID) error {
	meeting, err := s.meetingRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load meeting: %w", err)
	}
	if meeting == nil {
		return usecaseErrors.ErrMeetingNotFound
	}
	return nil
}

// probeUpload reads media metadata from the stored upload. A recording
// without an audio track is rejected; other probe failures only log, since
// the pipeline probes again before extraction anyway.
func (s *meetingService) probeUpload(ctx context.Context, meeting *entities.Meeting, key string) error {
	localPath, cleanup, err := s.store.LocalPath(ctx, key)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Could not stage upload for probing",
				zap.String("key", key),
				zap.Error(err))
		}
		return nil
	}
	defer cleanup()

	probe, err := s.prober.Probe(ctx, localPath)
	if err != nil {
		if probe != nil && !probe.HasAudio {
			return usecaseErrors.ErrMeetingNotReady
		}
		if s.logger != nil {
			s.logger.Warn("⚠️ Media probe failed at upload",
				zap.String("key", key),
				zap.Error(err))
		}
		return nil
	}
	if probe.DurationSeconds > 0 {
		meeting.DurationSeconds = probe.DurationSeconds
	}
	return nil
}

// classifyMedia resolves the extension into (format, media type)
func (s *meetingService) classifyMedia(filename string) (string, entities.MediaType, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return "", "", usecaseErrors.ErrUnsupportedFormat
	}
	for _, audio := range s.cfg.Upload.AudioExtensions {
		if ext == strings.ToLower(audio) {
			return ext, entities.MediaTypeAudio, nil
		}
	}
	for _, video := range s.cfg.Upload.VideoExtensions {
		if ext == strings.ToLower(video) {
			return ext, entities.MediaTypeVideo, nil
		}
	}
	return "", "", usecaseErrors.ErrUnsupportedFormat
}

func (s *meetingService) invalidateStats(ctx context.Context) {
	if err := s.progress.InvalidateStats(ctx); err != nil && s.logger != nil {
		s.logger.Warn("⚠️ Failed to drop stats cache", zap.Error(err))
	}
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// sanitizeFilename reduces a client-supplied filename to a safe storage name:
// path components stripped, unsafe characters collapsed to underscores,
// hidden-file dots removed.
func sanitizeFilename(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = unsafeFilenameChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if base == "" {
		return "recording"
	}
	return base
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
