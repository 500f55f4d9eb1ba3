// Package upload stores multipart files under the public uploads root,
// enforcing per-asset-class size and MIME policies.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/bikrans/platform-api/internal/config"
)

var (
	ErrFileTooLarge   = errors.New("file exceeds the size limit")
	ErrTypeNotAllowed = errors.New("file type is not allowed")
	ErrFileRequired   = errors.New("file is required")
)

// Saver writes uploads beneath a single root directory. Files land in the
// policy's subdirectory under a random name; the original name is only kept
// in the database.
type Saver struct {
	root string
}

// NewSaver creates a Saver rooted at dir.
func NewSaver(root string) *Saver {
	return &Saver{root: root}
}

// Stored describes a successfully written upload.
type Stored struct {
	// PublicPath is the URL path the file is served from.
	PublicPath string
	// DiskPath is the absolute location on disk.
	DiskPath string
	FileName string
	MIMEType string
	Size     int64
}

// Save validates the upload against the policy and writes it into place. The
// file is written under a temporary name first and renamed only after the
// copy completes, so a failed write never leaves a partial file at the final
// path.
func (s *Saver) Save(header *multipart.FileHeader, policy config.UploadPolicy) (*Stored, error) {
	if header == nil {
		return nil, ErrFileRequired
	}
	if header.Size > policy.MaxSize {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, policy.MaxSize)
	}

	mimeType := header.Header.Get("Content-Type")
	if !allowed(mimeType, policy.AllowedTypes) {
		return nil, fmt.Errorf("%w: %s", ErrTypeNotAllowed, mimeType)
	}

	dir := filepath.Join(s.root, policy.SubDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
	finalPath := filepath.Join(dir, name)
	tmpPath := finalPath + ".tmp"

	dst, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}

	written, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to write upload: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to finalize upload: %w", err)
	}

	return &Stored{
		PublicPath: "/uploads/" + policy.SubDir + "/" + name,
		DiskPath:   finalPath,
		FileName:   header.Filename,
		MIMEType:   mimeType,
		Size:       written,
	}, nil
}

// Remove deletes a previously stored upload by its public path. Paths outside
// /uploads/ are ignored, so database rows pointing at bundled assets never
// cause deletions.
func (s *Saver) Remove(publicPath string) error {
	rel, ok := strings.CutPrefix(publicPath, "/uploads/")
	if !ok || rel == "" || strings.Contains(rel, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func allowed(mimeType string, allowlist []string) bool {
	for _, t := range allowlist {
		if strings.EqualFold(t, mimeType) {
			return true
		}
	}
	return false
}
