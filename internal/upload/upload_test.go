package upload

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bikrans/platform-api/internal/config"
)

func fileHeader(t *testing.T, name, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="file"; filename="` + name + `"`},
		"Content-Type":        {contentType},
	})
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File["file"][0]
}

func testPolicy(subDir string) config.UploadPolicy {
	return config.UploadPolicy{
		MaxSize:      1024,
		SubDir:       subDir,
		AllowedTypes: []string{"image/png", "image/jpeg"},
	}
}

func TestSaver_Save(t *testing.T) {
	root := t.TempDir()
	saver := NewSaver(root)

	header := fileHeader(t, "Photo.PNG", "image/png", []byte("png bytes"))
	stored, err := saver.Save(header, testPolicy("sliders"))
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(stored.PublicPath, "/uploads/sliders/"))
	require.True(t, strings.HasSuffix(stored.PublicPath, ".png"), "extension is lowercased: %s", stored.PublicPath)
	require.Equal(t, "Photo.PNG", stored.FileName)
	require.Equal(t, int64(len("png bytes")), stored.Size)

	data, err := os.ReadFile(stored.DiskPath)
	require.NoError(t, err)
	require.Equal(t, "png bytes", string(data))

	// No temp file left behind.
	entries, err := os.ReadDir(filepath.Join(root, "sliders"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestSaver_Save_RandomizedNames(t *testing.T) {
	saver := NewSaver(t.TempDir())

	a, err := saver.Save(fileHeader(t, "same.png", "image/png", []byte("a")), testPolicy("x"))
	require.NoError(t, err)
	b, err := saver.Save(fileHeader(t, "same.png", "image/png", []byte("b")), testPolicy("x"))
	require.NoError(t, err)
	require.NotEqual(t, a.PublicPath, b.PublicPath)
}

func TestSaver_Save_TooLarge(t *testing.T) {
	saver := NewSaver(t.TempDir())

	header := fileHeader(t, "big.png", "image/png", bytes.Repeat([]byte("x"), 2048))
	_, err := saver.Save(header, testPolicy("sliders"))
	require.ErrorIs(t, err, ErrFileTooLarge)
}

func TestSaver_Save_TypeNotAllowed(t *testing.T) {
	saver := NewSaver(t.TempDir())

	header := fileHeader(t, "script.sh", "application/x-sh", []byte("#!/bin/sh"))
	_, err := saver.Save(header, testPolicy("sliders"))
	require.ErrorIs(t, err, ErrTypeNotAllowed)
}

func TestSaver_Save_NilHeader(t *testing.T) {
	saver := NewSaver(t.TempDir())

	_, err := saver.Save(nil, testPolicy("sliders"))
	require.ErrorIs(t, err, ErrFileRequired)
}

func TestSaver_Remove(t *testing.T) {
	root := t.TempDir()
	saver := NewSaver(root)

	stored, err := saver.Save(fileHeader(t, "a.png", "image/png", []byte("a")), testPolicy("sliders"))
	require.NoError(t, err)

	require.NoError(t, saver.Remove(stored.PublicPath))
	_, err = os.Stat(stored.DiskPath)
	require.True(t, os.IsNotExist(err))

	// Removing it again is not an error.
	require.NoError(t, saver.Remove(stored.PublicPath))
}

func TestSaver_Remove_IgnoresForeignPaths(t *testing.T) {
	root := t.TempDir()
	saver := NewSaver(root)

	outside := filepath.Join(root, "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep"), 0o644))

	require.NoError(t, saver.Remove("/BIKRANS-FINAL.png"))
	require.NoError(t, saver.Remove("/uploads/../keep.txt"))

	_, err := os.Stat(outside)
	require.NoError(t, err)
}
