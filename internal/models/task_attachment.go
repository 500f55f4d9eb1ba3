package models

import (
	"strings"
	"time"
)

type FileType string

const (
	FileTypeVideo    FileType = "video"
	FileTypeAudio    FileType = "audio"
	FileTypeImage    FileType = "image"
	FileTypeDocument FileType = "document"
)

type TaskAttachment struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	TaskID     uint64    `gorm:"not null;index" json:"task_id"`
	UploadedBy uint64    `gorm:"not null;index" json:"uploaded_by"`
	FileName   string    `gorm:"type:varchar(255);not null" json:"file_name"`
	FilePath   string    `gorm:"type:varchar(500);not null" json:"file_path"`
	FileType   FileType  `gorm:"type:varchar(20);not null" json:"file_type"`
	FileSize   int64     `gorm:"default:0" json:"file_size"`
	CreatedAt  time.Time `json:"created_at"`

	// Relations
	Uploader User `gorm:"foreignKey:UploadedBy" json:"uploader,omitempty"`
}

// FileTypeFromMIME maps a MIME type onto the attachment file type.
func FileTypeFromMIME(mimetype string) FileType {
	switch {
	case strings.HasPrefix(mimetype, "video/"):
		return FileTypeVideo
	case strings.HasPrefix(mimetype, "audio/"):
		return FileTypeAudio
	case strings.HasPrefix(mimetype, "image/"):
		return FileTypeImage
	default:
		return FileTypeDocument
	}
}
