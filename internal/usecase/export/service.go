package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/YouYou-1402/ai-meeting-transcriber/internal/domain/entities"
	"github.com/YouYou-1402/ai-meeting-transcriber/internal/domain/repositories"
	"github.com/YouYou-1402/ai-meeting-transcriber/internal/infrastructure/storage"
	"github.com/YouYou-1402/ai-meeting-transcriber/pkg/config"
	"github.com/YouYou-1402/ai-meeting-transcriber/pkg/metrics"
)

// Service renders meeting minutes into downloadable documents
type Service interface {
	// RenderMinutes renders the minutes to a .docx file, stores it and
	// records the ExportedDocument row
	RenderMinutes(ctx context.Context, meeting *entities.Meeting, minutes *entities.MeetingMinutes, transcript *entities.Transcript) (*entities.ExportedDocument, error)
}

// Ensure DocxService implements Service interface
var _ Service = (*DocxService)(nil)

// DocxService renders minutes as Word documents
type DocxService struct {
	documentRepo repositories.DocumentRepository
	store        storage.Storage
	renderer     *docxRenderer
	cfg          *config.Config
	logger       *zap.Logger
}

// NewDocxService constructs the document export service
func NewDocxService(
	documentRepo repositories.DocumentRepository,
	store storage.Storage,
	cfg *config.Config,
	logger *zap.Logger,
) *DocxService {
	return &DocxService{
		documentRepo: documentRepo,
		store:        store,
		renderer:     newDocxRenderer(cfg.Export.FontFamily, cfg.Export.FontSize),
		cfg:          cfg,
		logger:       logger,
	}
}

// RenderMinutes renders the structured minutes into a .docx under
// outputs/<meeting-id>/ and records it so the API can serve the download.
func (s *DocxService) RenderMinutes(ctx context.Context, meeting *entities.Meeting, minutes *entities.MeetingMinutes, transcript *entities.Transcript) (*entities.ExportedDocument, error) {
	started := time.Now()

	filename := fmt.Sprintf("minutes_%s.docx", slugify(meeting.Title))

	// Render to a scratch file first; storage backends need a reader.
	tmpPath := filepath.Join(s.cfg.Storage.TempDir, fmt.Sprintf("render_%s.docx", uuid.New().String()))
	if err := os.MkdirAll(s.cfg.Storage.TempDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	if err := s.renderer.render(meeting, minutes, transcript, s.cfg.Export.IncludeTranscript, tmpPath); err != nil {
		return nil, fmt.Errorf("failed to render minutes: %w", err)
	}
	defer os.Remove(tmpPath)

	info, err := os.Stat(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat rendered document: %w", err)
	}

	key := fmt.Sprintf("outputs/%s/%s", meeting.ID.String(), filename)
	key, err = storage.NextAvailableKey(ctx, s.store, key)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output key: %w", err)
	}

	f, err := os.Open(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open rendered document: %w", err)
	}
	defer f.Close()

	if _, err := s.store.Save(ctx, key, f, info.Size()); err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	document := entities.NewExportedDocument(meeting.ID, minutes.ID, filepath.Base(key), key, entities.DocumentFormatDocx, info.Size())
	if err := s.documentRepo.Create(ctx, document); err != nil {
		// The stored file without its row is unreachable; remove it.
		if delErr := s.store.Delete(ctx, key); delErr != nil && s.logger != nil {
			s.logger.Warn("⚠️ Failed to remove orphaned document file",
				zap.String("key", key),
				zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to record document: %w", err)
	}

	metrics.RecordExport(string(entities.DocumentFormatDocx))

	if s.logger != nil {
		s.logger.Info("📄 Minutes document rendered",
			zap.String("meeting_id", meeting.ID.String()),
			zap.String("key", key),
			zap.Int64("size_bytes", info.Size()),
			zap.Duration("took", time.Since(started)))
	}
	return document, nil
}
