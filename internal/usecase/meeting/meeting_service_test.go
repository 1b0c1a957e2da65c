package meeting

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/YouYou-1402/ai-meeting-transcriber/internal/domain/entities"
	"github.com/YouYou-1402/ai-meeting-transcriber/internal/domain/repositories"
	"github.com/YouYou-1402/ai-meeting-transcriber/internal/infrastructure/cache"
	"github.com/YouYou-1402/ai-meeting-transcriber/internal/infrastructure/media"
	"github.com/YouYou-1402/ai-meeting-transcriber/internal/infrastructure/storage"
	usecaseErrors "github.com/YouYou-1402/ai-meeting-transcriber/internal/usecase/errors"
	"github.com/YouYou-1402/ai-meeting-transcriber/pkg/config"
)

// ---- fakes ----

type fakeMeetingRepo struct {
	mu         sync.Mutex
	meetings   map[uuid.UUID]*entities.Meeting
	order      []uuid.UUID
	stats      *repositories.MeetingStats
	statsCalls int
}

func newFakeMeetingRepo() *fakeMeetingRepo {
	return &fakeMeetingRepo{meetings: make(map[uuid.UUID]*entities.Meeting)}
}

func (f *fakeMeetingRepo) Create(ctx context.Context, meeting *entities.Meeting) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *meeting
	f.meetings[meeting.ID] = &stored
	f.order = append(f.order, meeting.ID)
	return nil
}

func (f *fakeMeetingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.meetings[id]
	if !ok {
		return nil, nil
	}
	clone := *m
	return &clone, nil
}

func (f *fakeMeetingRepo) Update(ctx context.Context, meeting *entities.Meeting) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *meeting
	f.meetings[meeting.ID] = &stored
	return nil
}

func (f *fakeMeetingRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.meetings[id]
	if !ok {
		return fmt.Errorf("meeting %s not found", id)
	}
	for key, value := range fields {
		switch key {
		case "title":
			m.Title = value.(string)
		case "participants":
			m.Participants = value.([]string)
		case "status":
			m.Status = value.(entities.MeetingStatus)
		case "progress":
			m.Progress = value.(int)
		case "error_message":
			if value == nil {
				m.ErrorMessage = nil
			} else {
				s := value.(string)
				m.ErrorMessage = &s
			}
		case "processed_at":
			if value == nil {
				m.ProcessedAt = nil
			} else {
				ts := value.(time.Time)
				m.ProcessedAt = &ts
			}
		case "updated_at":
			m.UpdatedAt = value.(time.Time)
		}
	}
	return nil
}

func (f *fakeMeetingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.MeetingStatus) error {
	return f.UpdateFields(ctx, id, map[string]interface{}{"status": status})
}

func (f *fakeMeetingRepo) UpdateProgress(ctx context.Context, id uuid.UUID, progress int) error {
	return f.UpdateFields(ctx, id, map[string]interface{}{"progress": progress})
}

func (f *fakeMeetingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.meetings, id)
	return nil
}

func (f *fakeMeetingRepo) List(ctx context.Context, filters repositories.MeetingFilters) ([]*entities.Meeting, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entities.Meeting, 0, len(f.order))
	for _, id := range f.order {
		if m, ok := f.meetings[id]; ok {
			clone := *m
			out = append(out, &clone)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeMeetingRepo) Stats(ctx context.Context) (*repositories.MeetingStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statsCalls++
	if f.stats == nil {
		return &repositories.MeetingStats{ByStatus: map[string]int64{}}, nil
	}
	return f.stats, nil
}

type fakeTranscriptRepo struct {
	mu        sync.Mutex
	byMeeting map[uuid.UUID]*entities.Transcript
}

func newFakeTranscriptRepo() *fakeTranscriptRepo {
	return &fakeTranscriptRepo{byMeeting: make(map[uuid.UUID]*entities.Transcript)}
}

func (f *fakeTranscriptRepo) Create(ctx context.Context, transcript *entities.Transcript) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *transcript
	f.byMeeting[transcript.MeetingID] = &stored
	return nil
}

func (f *fakeTranscriptRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Transcript, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tr := range f.byMeeting {
		if tr.ID == id {
			clone := *tr
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeTranscriptRepo) FindByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.Transcript, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tr, ok := f.byMeeting[meetingID]
	if !ok {
		return nil, nil
	}
	clone := *tr
	return &clone, nil
}

func (f *fakeTranscriptRepo) DeleteByMeetingID(ctx context.Context, meetingID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byMeeting, meetingID)
	return nil
}

type fakeMinutesRepo struct {
	mu        sync.Mutex
	byMeeting map[uuid.UUID]*entities.MeetingMinutes
}

func newFakeMinutesRepo() *fakeMinutesRepo {
	return &fakeMinutesRepo{byMeeting: make(map[uuid.UUID]*entities.MeetingMinutes)}
}

func (f *fakeMinutesRepo) Create(ctx context.Context, minutes *entities.MeetingMinutes) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *minutes
	f.byMeeting[minutes.MeetingID] = &stored
	return nil
}

func (f *fakeMinutesRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.MeetingMinutes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.byMeeting {
		if m.ID == id {
			clone := *m
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeMinutesRepo) FindByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.MeetingMinutes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.byMeeting[meetingID]
	if !ok {
		return nil, nil
	}
	clone := *m
	return &clone, nil
}

func (f *fakeMinutesRepo) FindByTranscriptID(ctx context.Context, transcriptID uuid.UUID) (*entities.MeetingMinutes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.byMeeting {
		if m.TranscriptID == transcriptID {
			clone := *m
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeMinutesRepo) Update(ctx context.Context, minutes *entities.MeetingMinutes) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *minutes
	f.byMeeting[minutes.MeetingID] = &stored
	return nil
}

func (f *fakeMinutesRepo) DeleteByMeetingID(ctx context.Context, meetingID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byMeeting, meetingID)
	return nil
}

type fakeDocumentRepo struct {
	mu        sync.Mutex
	byMeeting map[uuid.UUID][]*entities.ExportedDocument
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{byMeeting: make(map[uuid.UUID][]*entities.ExportedDocument)}
}

func (f *fakeDocumentRepo) Create(ctx context.Context, document *entities.ExportedDocument) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *document
	f.byMeeting[document.MeetingID] = append(f.byMeeting[document.MeetingID], &stored)
	return nil
}

func (f *fakeDocumentRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.ExportedDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, docs := range f.byMeeting {
		for _, d := range docs {
			if d.ID == id {
				clone := *d
				return &clone, nil
			}
		}
	}
	return nil, nil
}

func (f *fakeDocumentRepo) FindLatestByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.ExportedDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	docs := f.byMeeting[meetingID]
	if len(docs) == 0 {
		return nil, nil
	}
	clone := *docs[len(docs)-1]
	return &clone, nil
}

func (f *fakeDocumentRepo) ListByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]*entities.ExportedDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entities.ExportedDocument, 0, len(f.byMeeting[meetingID]))
	for _, d := range f.byMeeting[meetingID] {
		clone := *d
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeDocumentRepo) DeleteByMeetingID(ctx context.Context, meetingID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byMeeting, meetingID)
	return nil
}

type fakeJobRepo struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*entities.ProcessingJob
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[uuid.UUID]*entities.ProcessingJob)}
}

func (f *fakeJobRepo) Create(ctx context.Context, job *entities.ProcessingJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *job
	f.jobs[job.ID] = &stored
	return nil
}

func (f *fakeJobRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.ProcessingJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[id]
	if !ok {
		return nil, nil
	}
	clone := *j
	return &clone, nil
}

func (f *fakeJobRepo) FindClaimable(ctx context.Context, limit int) ([]*entities.ProcessingJob, error) {
	return nil, nil
}

func (f *fakeJobRepo) Claim(ctx context.Context, jobID uuid.UUID, workerID int) (bool, error) {
	return false, nil
}

func (f *fakeJobRepo) Update(ctx context.Context, job *entities.ProcessingJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *job
	f.jobs[job.ID] = &stored
	return nil
}

func (f *fakeJobRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return nil
}

func (f *fakeJobRepo) IncrementRetry(ctx context.Context, id uuid.UUID, errMsg string) error {
	return nil
}

func (f *fakeJobRepo) FindActiveByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.ProcessingJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, j := range f.jobs {
		if j.MeetingID == meetingID && !j.IsTerminal() {
			clone := *j
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeJobRepo) FindZombies(ctx context.Context, olderThan time.Duration) ([]*entities.ProcessingJob, error) {
	return nil, nil
}

func (f *fakeJobRepo) ListRecentFailures(ctx context.Context, since time.Duration) ([]*entities.ProcessingJob, error) {
	return nil, nil
}

func (f *fakeJobRepo) CancelActiveByMeetingID(ctx context.Context, meetingID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, j := range f.jobs {
		if j.MeetingID == meetingID && j.CanBeClaimed() {
			j.MarkAsCancelled()
		}
	}
	return nil
}

type fakeEnqueuer struct {
	mu    sync.Mutex
	calls int
	err   error
	jobs  *fakeJobRepo
}

func (f *fakeEnqueuer) EnqueueMeeting(ctx context.Context, meetingID uuid.UUID) (*entities.ProcessingJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	job := entities.NewProcessingJob(meetingID, 3)
	if f.jobs != nil {
		f.jobs.Create(ctx, job)
	}
	return job, nil
}

// uploadExecutor fakes ffprobe for the upload-time media check
type uploadExecutor struct {
	probeJSON string
}

const probeWithAudioJSON = `{
	"format": {"format_name": "mp3", "duration": "125.480000", "size": "1024", "bit_rate": "128000"},
	"streams": [{"codec_type": "audio", "codec_name": "mp3", "sample_rate": "44100", "channels": 2}]
}`

const probeWithoutAudioJSON = `{
	"format": {"format_name": "mov,mp4,m4a,3gp,3g2,mj2", "duration": "60.000000", "size": "1024", "bit_rate": "256000"},
	"streams": [{"codec_type": "video", "codec_name": "h264", "width": 1280, "height": 720}]
}`

func (f *uploadExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	if filepath.Base(name) != "ffprobe" {
		return "", fmt.Errorf("unexpected command %s", name)
	}
	return f.probeJSON, nil
}

func (f *uploadExecutor) LookPath(name string) (string, error) {
	return "/usr/bin/" + name, nil
}

// ---- fixture ----

type meetingFixture struct {
	svc      *meetingService
	meetings *fakeMeetingRepo
	jobs     *fakeJobRepo
	enqueuer *fakeEnqueuer
	docs     *fakeDocumentRepo

	transcripts *fakeTranscriptRepo
	minutes     *fakeMinutesRepo
	store       storage.Storage
	progress    *cache.ProgressStore
	exec        *uploadExecutor
	cfg         *config.Config
}

func newMeetingFixture(t *testing.T) *meetingFixture {
	t.Helper()

	base := t.TempDir()
	cfg := &config.Config{}
	cfg.Storage.UploadDir = "uploads"
	cfg.Storage.TempDir = filepath.Join(base, "temp")
	cfg.Upload.MaxFileSize = 1 << 20
	cfg.Upload.AudioExtensions = []string{"mp3", "wav", "flac", "aac", "m4a", "ogg", "wma"}
	cfg.Upload.VideoExtensions = []string{"mp4", "avi", "mov", "mkv", "webm", "flv", "wmv"}

	exec := &uploadExecutor{probeJSON: probeWithAudioJSON}
	prober, err := media.NewProber(exec)
	if err != nil {
		t.Fatalf("NewProber: %v", err)
	}

	jobs := newFakeJobRepo()
	fx := &meetingFixture{
		meetings:    newFakeMeetingRepo(),
		transcripts: newFakeTranscriptRepo(),
		minutes:     newFakeMinutesRepo(),
		docs:        newFakeDocumentRepo(),
		jobs:        jobs,
		enqueuer:    &fakeEnqueuer{jobs: jobs},
		store:       storage.NewLocalStorageAt(base),
		progress:    cache.NewProgressStore(cache.NewMemoryStore(), time.Minute, time.Minute),
		exec:        exec,
		cfg:         cfg,
	}
	fx.svc = NewMeetingService(
		fx.meetings, fx.transcripts, fx.minutes, fx.docs, fx.jobs,
		fx.store, prober, fx.enqueuer, fx.progress,
		cfg, nil,
	).(*meetingService)
	return fx
}

func (fx *meetingFixture) upload(t *testing.T, input UploadInput) *entities.Meeting {
	t.Helper()
	meeting, err := fx.svc.Upload(context.Background(), input)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	return meeting
}

// ---- tests ----

func TestUploadStoresRegistersAndEnqueues(t *testing.T) {
	ctx := context.Background()
	fx := newMeetingFixture(t)

	payload := "fake mp3 bytes"
	meeting := fx.upload(t, UploadInput{
		Filename: "standup.mp3",
		Size:     int64(len(payload)),
		Reader:   strings.NewReader(payload),
		Title:    "Daily Standup",
		Language: "en",
		Source:   "http",
	})

	if meeting.Status != entities.MeetingStatusPending {
		t.Errorf("status = %s, want pending", meeting.Status)
	}
	if meeting.MediaType != entities.MediaTypeAudio {
		t.Errorf("media type = %s, want audio", meeting.MediaType)
	}
	if meeting.FileFormat != "mp3" {
		t.Errorf("file format = %q, want mp3", meeting.FileFormat)
	}
	if meeting.FileKey != "uploads/standup.mp3" {
		t.Errorf("file key = %q", meeting.FileKey)
	}
	if meeting.StoredFilename != "standup.mp3" {
		t.Errorf("stored filename = %q", meeting.StoredFilename)
	}
	if meeting.Language != "en" {
		t.Errorf("language = %q, want en", meeting.Language)
	}
	if meeting.DurationSeconds != 125.48 {
		t.Errorf("duration = %f, want the probed 125.48", meeting.DurationSeconds)
	}

	sum := md5.Sum([]byte(payload))
	if meeting.FileHash != hex.EncodeToString(sum[:]) {
		t.Errorf("file hash = %q, want the md5 of the payload", meeting.FileHash)
	}

	if ok, _ := fx.store.Exists(ctx, meeting.FileKey); !ok {
		t.Error("uploaded file should be stored")
	}
	if stored, _ := fx.meetings.FindByID(ctx, meeting.ID); stored == nil {
		t.Error("meeting row should be created")
	}
	if fx.enqueuer.calls != 1 {
		t.Errorf("enqueue calls = %d, want 1", fx.enqueuer.calls)
	}
}

func TestUploadDefaultsTitleFromFilename(t *testing.T) {
	fx := newMeetingFixture(t)

	payload := "bytes"
	meeting := fx.upload(t, UploadInput{
		Filename: "weekly review.mp3",
		Size:     int64(len(payload)),
		Reader:   strings.NewReader(payload),
		Source:   "http",
	})

	if meeting.Title != "weekly review" {
		t.Errorf("title = %q, want the filename stem", meeting.Title)
	}
	if meeting.OriginalFilename != "weekly review.mp3" {
		t.Errorf("original filename = %q, want it kept verbatim", meeting.OriginalFilename)
	}
	if meeting.StoredFilename != "weekly_review.mp3" {
		t.Errorf("stored filename = %q, want it sanitized", meeting.StoredFilename)
	}
}

func TestUploadValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   UploadInput
		wantErr error
	}{
		{
			name:    "unsupported extension",
			input:   UploadInput{Filename: "notes.txt", Size: 10, Reader: strings.NewReader("0123456789")},
			wantErr: usecaseErrors.ErrUnsupportedFormat,
		},
		{
			name:    "no extension",
			input:   UploadInput{Filename: "recording", Size: 10, Reader: strings.NewReader("0123456789")},
			wantErr: usecaseErrors.ErrUnsupportedFormat,
		},
		{
			name:    "empty file",
			input:   UploadInput{Filename: "standup.mp3", Size: 0, Reader: strings.NewReader("")},
			wantErr: usecaseErrors.ErrEmptyFile,
		},
		{
			name:    "oversized file",
			input:   UploadInput{Filename: "standup.mp3", Size: 2 << 20, Reader: strings.NewReader("x")},
			wantErr: usecaseErrors.ErrFileTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newMeetingFixture(t)
			_, err := fx.svc.Upload(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Upload error = %v, want %v", err, tt.wantErr)
			}
			if fx.enqueuer.calls != 0 {
				t.Error("rejected upload must not be enqueued")
			}
		})
	}
}

func TestUploadRejectsFilesWithoutAudio(t *testing.T) {
	ctx := context.Background()
	fx := newMeetingFixture(t)
	fx.exec.probeJSON = probeWithoutAudioJSON

	payload := "fake mp4 bytes"
	_, err := fx.svc.Upload(ctx, UploadInput{
		Filename: "screencast.mp4",
		Size:     int64(len(payload)),
		Reader:   strings.NewReader(payload),
		Source:   "http",
	})
	if !errors.Is(err, usecaseErrors.ErrMeetingNotReady) {
		t.Fatalf("Upload error = %v, want ErrMeetingNotReady", err)
	}

	if ok, _ := fx.store.Exists(ctx, "uploads/screencast.mp4"); ok {
		t.Error("rejected upload should be removed from storage")
	}
	if list, _, _ := fx.meetings.List(ctx, repositories.MeetingFilters{}); len(list) != 0 {
		t.Error("rejected upload must not create a meeting row")
	}
	if fx.enqueuer.calls != 0 {
		t.Error("rejected upload must not be enqueued")
	}
}

func TestUploadResolvesFilenameCollision(t *testing.T) {
	fx := newMeetingFixture(t)

	payload := "bytes"
	first := fx.upload(t, UploadInput{
		Filename: "standup.mp3", Size: int64(len(payload)), Reader: strings.NewReader(payload), Source: "http",
	})
	second := fx.upload(t, UploadInput{
		Filename: "standup.mp3", Size: int64(len(payload)), Reader: strings.NewReader(payload), Source: "http",
	})

	if first.FileKey != "uploads/standup.mp3" {
		t.Errorf("first key = %q", first.FileKey)
	}
	if second.FileKey != "uploads/standup_1.mp3" {
		t.Errorf("second key = %q, want the _1 suffix", second.FileKey)
	}
	if second.StoredFilename != "standup_1.mp3" {
		t.Errorf("second stored filename = %q", second.StoredFilename)
	}
}

func TestIngestLocalFileRemovesSource(t *testing.T) {
	ctx := context.Background()
	fx := newMeetingFixture(t)

	inbox := t.TempDir()
	path := filepath.Join(inbox, "allhands.wav")
	if err := os.WriteFile(path, []byte("fake wav bytes"), 0644); err != nil {
		t.Fatalf("write inbox file: %v", err)
	}

	meeting, err := fx.svc.IngestLocalFile(ctx, path, "watcher")
	if err != nil {
		t.Fatalf("IngestLocalFile: %v", err)
	}
	if meeting.Title != "allhands" {
		t.Errorf("title = %q, want the filename stem", meeting.Title)
	}
	if ok, _ := fx.store.Exists(ctx, meeting.FileKey); !ok {
		t.Error("ingested file should be stored")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("inbox file should be removed after ingestion")
	}
	if fx.enqueuer.calls != 1 {
		t.Errorf("enqueue calls = %d, want 1", fx.enqueuer.calls)
	}
}

func TestProcessGuards(t *testing.T) {
	ctx := context.Background()

	t.Run("missing meeting", func(t *testing.T) {
		fx := newMeetingFixture(t)
		_, err := fx.svc.Process(ctx, uuid.New(), false)
		if !errors.Is(err, usecaseErrors.ErrMeetingNotFound) {
			t.Errorf("error = %v, want ErrMeetingNotFound", err)
		}
	})

	t.Run("already processing", func(t *testing.T) {
		fx := newMeetingFixture(t)
		meeting := seedMeetingWithStatus(t, fx, entities.MeetingStatusTranscribing)
		_, err := fx.svc.Process(ctx, meeting.ID, false)
		if !errors.Is(err, usecaseErrors.ErrAlreadyProcessing) {
			t.Errorf("error = %v, want ErrAlreadyProcessing", err)
		}
	})

	t.Run("completed without force", func(t *testing.T) {
		fx := newMeetingFixture(t)
		meeting := seedMeetingWithStatus(t, fx, entities.MeetingStatusCompleted)
		_, err := fx.svc.Process(ctx, meeting.ID, false)
		if !errors.Is(err, usecaseErrors.ErrAlreadyCompleted) {
			t.Errorf("error = %v, want ErrAlreadyCompleted", err)
		}
		if fx.enqueuer.calls != 0 {
			t.Error("guarded process must not enqueue")
		}
	})

	t.Run("completed with force resets", func(t *testing.T) {
		fx := newMeetingFixture(t)
		meeting := seedMeetingWithStatus(t, fx, entities.MeetingStatusCompleted)
		job, err := fx.svc.Process(ctx, meeting.ID, true)
		if err != nil {
			t.Fatalf("Process: %v", err)
		}
		if job == nil {
			t.Fatal("expected a job")
		}
		stored, _ := fx.meetings.FindByID(ctx, meeting.ID)
		if stored.Status != entities.MeetingStatusPending {
			t.Errorf("status = %s, want pending after reset", stored.Status)
		}
		if stored.Progress != 0 {
			t.Errorf("progress = %d, want 0 after reset", stored.Progress)
		}
		if stored.ProcessedAt != nil {
			t.Error("processed_at should be cleared after reset")
		}
	})

	t.Run("failed retries without force", func(t *testing.T) {
		fx := newMeetingFixture(t)
		meeting := seedMeetingWithStatus(t, fx, entities.MeetingStatusFailed)
		if _, err := fx.svc.Process(ctx, meeting.ID, false); err != nil {
			t.Fatalf("Process: %v", err)
		}
		stored, _ := fx.meetings.FindByID(ctx, meeting.ID)
		if stored.Status != entities.MeetingStatusPending {
			t.Errorf("status = %s, want pending after reset", stored.Status)
		}
		if stored.ErrorMessage != nil {
			t.Error("error message should be cleared after reset")
		}
	})
}

func seedMeetingWithStatus(t *testing.T, fx *meetingFixture, status entities.MeetingStatus) *entities.Meeting {
	t.Helper()
	meeting := entities.NewMeeting("Sprint Review", "review.mp4", "review.mp4", "uploads/review.mp4", 2048, entities.MediaTypeVideo, "mp4")
	meeting.Status = status
	switch status {
	case entities.MeetingStatusCompleted:
		now := time.Now()
		meeting.ProcessedAt = &now
		meeting.Progress = 100
	case entities.MeetingStatusFailed:
		msg := "transcription failed"
		meeting.ErrorMessage = &msg
	}
	if err := fx.meetings.Create(context.Background(), meeting); err != nil {
		t.Fatalf("seed meeting: %v", err)
	}
	return meeting
}

func TestDeleteRemovesRowsAndFiles(t *testing.T) {
	ctx := context.Background()
	fx := newMeetingFixture(t)

	payload := "bytes"
	meeting := fx.upload(t, UploadInput{
		Filename: "standup.mp3", Size: int64(len(payload)), Reader: strings.NewReader(payload), Source: "http",
	})

	audioKey := "uploads/audio/" + meeting.ID.String() + ".wav"
	fx.store.Save(ctx, audioKey, strings.NewReader("wav"), 3)
	fx.meetings.UpdateFields(ctx, meeting.ID, map[string]interface{}{"status": entities.MeetingStatusCompleted})
	stored, _ := fx.meetings.FindByID(ctx, meeting.ID)
	stored.AudioKey = &audioKey
	fx.meetings.Update(ctx, stored)

	transcript := entities.NewTranscript(meeting.ID, "hello world", "en", nil)
	fx.transcripts.Create(ctx, transcript)
	minutes := entities.NewMeetingMinutes(meeting.ID, transcript.ID)
	fx.minutes.Create(ctx, minutes)
	docKey := "outputs/" + meeting.ID.String() + "/minutes.docx"
	fx.store.Save(ctx, docKey, strings.NewReader("docx"), 4)
	fx.docs.Create(ctx, entities.NewExportedDocument(meeting.ID, minutes.ID, "minutes.docx", docKey, entities.DocumentFormatDocx, 4))

	if err := fx.svc.Delete(ctx, meeting.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if m, _ := fx.meetings.FindByID(ctx, meeting.ID); m != nil {
		t.Error("meeting row should be gone")
	}
	if tr, _ := fx.transcripts.FindByMeetingID(ctx, meeting.ID); tr != nil {
		t.Error("transcript should be gone")
	}
	if mm, _ := fx.minutes.FindByMeetingID(ctx, meeting.ID); mm != nil {
		t.Error("minutes should be gone")
	}
	if d, _ := fx.docs.FindLatestByMeetingID(ctx, meeting.ID); d != nil {
		t.Error("documents should be gone")
	}
	for _, key := range []string{meeting.FileKey, audioKey, docKey} {
		if ok, _ := fx.store.Exists(ctx, key); ok {
			t.Errorf("stored file %s should be deleted", key)
		}
	}
}

func TestDeleteCancelsQueuedJob(t *testing.T) {
	ctx := context.Background()
	fx := newMeetingFixture(t)

	payload := "bytes"
	meeting := fx.upload(t, UploadInput{
		Filename: "standup.mp3", Size: int64(len(payload)), Reader: strings.NewReader(payload), Source: "http",
	})
	// the upload enqueued a pending job through the fake enqueuer
	queued, _ := fx.jobs.FindActiveByMeetingID(ctx, meeting.ID)
	if queued == nil {
		t.Fatal("expected a queued job")
	}

	if err := fx.svc.Delete(ctx, meeting.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	job, _ := fx.jobs.FindByID(ctx, queued.ID)
	if job.Status != entities.JobStatusCancelled {
		t.Errorf("job status = %s, want cancelled", job.Status)
	}
}

func TestProgressPrefersCache(t *testing.T) {
	ctx := context.Background()
	fx := newMeetingFixture(t)

	payload := "bytes"
	meeting := fx.upload(t, UploadInput{
		Filename: "standup.mp3", Size: int64(len(payload)), Reader: strings.NewReader(payload), Source: "http",
	})

	fx.progress.SetProgress(ctx, meeting.ID, cache.ProgressSnapshot{
		Status:   string(entities.MeetingStatusTranscribing),
		Stage:    "transcribe",
		Progress: 50,
	})

	info, err := fx.svc.Progress(ctx, meeting.ID)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if !info.FromCache {
		t.Error("expected a cache hit")
	}
	if info.Status != string(entities.MeetingStatusTranscribing) || info.Progress != 50 {
		t.Errorf("snapshot = %s/%d, want transcribing/50", info.Status, info.Progress)
	}

	// without the snapshot the row is the source of truth
	fx.progress.InvalidateProgress(ctx, meeting.ID)
	info, err = fx.svc.Progress(ctx, meeting.ID)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if info.FromCache {
		t.Error("expected a cache miss")
	}
	if info.Status != string(entities.MeetingStatusPending) {
		t.Errorf("status = %s, want the row's pending", info.Status)
	}
}

func TestUpdateEditsMeetingAndMinutes(t *testing.T) {
	ctx := context.Background()
	fx := newMeetingFixture(t)

	payload := "bytes"
	meeting := fx.upload(t, UploadInput{
		Filename: "standup.mp3", Size: int64(len(payload)), Reader: strings.NewReader(payload), Source: "http",
	})
	transcript := entities.NewTranscript(meeting.ID, "hello world", "en", nil)
	fx.transcripts.Create(ctx, transcript)
	minutes := entities.NewMeetingMinutes(meeting.ID, transcript.ID)
	fx.minutes.Create(ctx, minutes)

	title := "Renamed Standup"
	summary := "A better summary."
	updated, err := fx.svc.Update(ctx, meeting.ID, UpdateInput{
		Title:        &title,
		Participants: []string{"An", "Binh"},
		Summary:      &summary,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "Renamed Standup" {
		t.Errorf("title = %q", updated.Title)
	}
	if len(updated.Participants) != 2 {
		t.Errorf("participants = %v", updated.Participants)
	}

	storedMinutes, _ := fx.minutes.FindByMeetingID(ctx, meeting.ID)
	if storedMinutes.Summary != "A better summary." {
		t.Errorf("minutes summary = %q", storedMinutes.Summary)
	}

	empty := "   "
	if _, err := fx.svc.Update(ctx, meeting.ID, UpdateInput{Title: &empty}); !errors.Is(err, usecaseErrors.ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput for a blank title", err)
	}

	noMinutes := "Edited"
	fx.minutes.DeleteByMeetingID(ctx, meeting.ID)
	if _, err := fx.svc.Update(ctx, meeting.ID, UpdateInput{Summary: &noMinutes}); !errors.Is(err, usecaseErrors.ErrNoMinutes) {
		t.Errorf("error = %v, want ErrNoMinutes when minutes are missing", err)
	}
}

func TestStatsComputesRatesAndCaches(t *testing.T) {
	ctx := context.Background()
	fx := newMeetingFixture(t)
	fx.meetings.stats = &repositories.MeetingStats{
		TotalMeetings: 4,
		ByStatus: map[string]int64{
			"completed":    2,
			"failed":       1,
			"transcribing": 1,
		},
		TotalFileSize:        4096,
		TotalDurationSeconds: 5400,
	}

	stats, err := fx.svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalMeetings != 4 || stats.CompletedMeetings != 2 || stats.FailedMeetings != 1 {
		t.Errorf("counts = %d/%d/%d", stats.TotalMeetings, stats.CompletedMeetings, stats.FailedMeetings)
	}
	if stats.ProcessingMeetings != 1 {
		t.Errorf("processing = %d, want 1", stats.ProcessingMeetings)
	}
	if stats.SuccessRate != 50 {
		t.Errorf("success rate = %f, want 50", stats.SuccessRate)
	}
	if stats.TotalDurationHours != 1.5 {
		t.Errorf("duration hours = %f, want 1.5", stats.TotalDurationHours)
	}

	// second read is served from the cache
	if _, err := fx.svc.Stats(ctx); err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if fx.meetings.statsCalls != 1 {
		t.Errorf("repo stats calls = %d, want 1", fx.meetings.statsCalls)
	}
}

func TestGetReportsDerivedRecords(t *testing.T) {
	ctx := context.Background()
	fx := newMeetingFixture(t)

	payload := "bytes"
	meeting := fx.upload(t, UploadInput{
		Filename: "standup.mp3", Size: int64(len(payload)), Reader: strings.NewReader(payload), Source: "http",
	})

	detail, err := fx.svc.Get(ctx, meeting.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if detail.HasTranscript || detail.HasMinutes || detail.HasDocument {
		t.Error("fresh meeting should have no derived records")
	}
	if detail.ActiveJob == nil {
		t.Error("the enqueued job should be reported")
	}

	transcript := entities.NewTranscript(meeting.ID, "hello world", "en", nil)
	fx.transcripts.Create(ctx, transcript)
	minutes := entities.NewMeetingMinutes(meeting.ID, transcript.ID)
	fx.minutes.Create(ctx, minutes)
	fx.docs.Create(ctx, entities.NewExportedDocument(meeting.ID, minutes.ID, "minutes.docx", "outputs/x.docx", entities.DocumentFormatDocx, 4))

	detail, err = fx.svc.Get(ctx, meeting.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !detail.HasTranscript || !detail.HasMinutes || !detail.HasDocument {
		t.Error("derived records should be flagged")
	}

	if _, err := fx.svc.Get(ctx, uuid.New()); !errors.Is(err, usecaseErrors.ErrMeetingNotFound) {
		t.Errorf("error = %v, want ErrMeetingNotFound", err)
	}
}

func TestDocumentAccessors(t *testing.T) {
	ctx := context.Background()
	fx := newMeetingFixture(t)

	payload := "bytes"
	meeting := fx.upload(t, UploadInput{
		Filename: "standup.mp3", Size: int64(len(payload)), Reader: strings.NewReader(payload), Source: "http",
	})

	if _, err := fx.svc.GetDocument(ctx, meeting.ID); !errors.Is(err, usecaseErrors.ErrNoDocument) {
		t.Errorf("error = %v, want ErrNoDocument before export", err)
	}

	docKey := "outputs/" + meeting.ID.String() + "/minutes.docx"
	fx.store.Save(ctx, docKey, strings.NewReader("docx bytes"), 10)
	fx.docs.Create(ctx, entities.NewExportedDocument(meeting.ID, uuid.New(), "minutes.docx", docKey, entities.DocumentFormatDocx, 10))

	document, reader, err := fx.svc.OpenDocument(ctx, meeting.ID)
	if err != nil {
		t.Fatalf("OpenDocument: %v", err)
	}
	defer reader.Close()
	if document.Filename != "minutes.docx" {
		t.Errorf("filename = %q", document.Filename)
	}
	buf := make([]byte, 16)
	n, _ := reader.Read(buf)
	if string(buf[:n]) != "docx bytes" {
		t.Errorf("document content = %q", string(buf[:n]))
	}

	// local storage cannot produce a redirectable URL
	url, err := fx.svc.PresignDocument(ctx, meeting.ID, time.Minute)
	if err != nil {
		t.Fatalf("PresignDocument: %v", err)
	}
	if url != "" {
		t.Errorf("presigned url = %q, want empty for local storage", url)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"standup.mp3", "standup.mp3"},
		{"weekly review.mp3", "weekly_review.mp3"},
		{"team review (final).mp4", "team_review_final_.mp4"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\me\track 1.mp3`, "track_1.mp3"},
		{"...hidden.wav", "hidden.wav"},
		{"???", "recording"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
