package entities

import (
	"time"

	"github.com/google/uuid"
)

// DocumentFormat is the rendered file type
type DocumentFormat string

const (
	DocumentFormatDocx DocumentFormat = "docx"
	DocumentFormatPdf  DocumentFormat = "pdf" // reserved; no renderer ships yet
)

// ExportedDocument is a rendered minutes file stored under the outputs area
type ExportedDocument struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID uuid.UUID      `json:"meeting_id" gorm:"type:uuid;not null;index"`
	MinutesID uuid.UUID      `json:"minutes_id" gorm:"type:uuid;not null;index"`
	Filename  string         `json:"filename" gorm:"type:varchar(500);not null"`
	FileKey   string         `json:"file_key" gorm:"type:text;not null"`
	Format    DocumentFormat `json:"format" gorm:"type:varchar(10);not null;default:'docx'"`
	FileSize  int64          `json:"file_size,omitempty"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (ExportedDocument) TableName() string {
	return "exported_documents"
}

// NewExportedDocument records a rendered minutes document
func NewExportedDocument(meetingID, minutesID uuid.UUID, filename, fileKey string, format DocumentFormat, fileSize int64) *ExportedDocument {
	return &ExportedDocument{
		ID:        uuid.New(),
		MeetingID: meetingID,
		MinutesID: minutesID,
		Filename:  filename,
		FileKey:   fileKey,
		Format:    format,
		FileSize:  fileSize,
		CreatedAt: time.Now(),
	}
}
