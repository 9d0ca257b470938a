package importer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

// MaxFileSize is the largest accepted import file
const MaxFileSize = 10 << 20

var (
	ErrNoFile          = errors.New("please select a CSV file to import")
	ErrFileTooLarge    = errors.New("file size must be less than 10MB")
	ErrUnsupportedFile = errors.New("please select a CSV file only")
)

var allowedTypes = map[string]bool{
	"text/csv":                 true,
	"application/vnd.ms-excel": true,
	"application/csv":          true,
	"text/plain":               true,
}

var allowedExts = map[string]bool{
	".csv": true,
	".txt": true,
}

// File is a candidate import file. Content is read only when a run starts.
type File struct {
	Name        string
	Size        int64
	ContentType string

	open func() (io.ReadCloser, error)
}

// FileFromPath describes a file on disk
func FileFromPath(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	return &File{
		Name:        filepath.Base(path),
		Size:        info.Size(),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		open:        func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// FileFromHeader wraps a multipart upload
func FileFromHeader(fh *multipart.FileHeader) *File {
	return &File{
		Name:        fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// FileFromBytes wraps in-memory content
func FileFromBytes(name, contentType string, content []byte) *File {
	return &File{
		Name:        name,
		Size:        int64(len(content)),
		ContentType: contentType,
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(content)), nil
		},
	}
}

// SelectFile checks a candidate against the type allow-list and the size
// ceiling. It never reads the content.
func SelectFile(f *File) error {
	if f == nil {
		return ErrNoFile
	}

	mediaType := strings.ToLower(strings.TrimSpace(f.ContentType))
	if parsed, _, err := mime.ParseMediaType(mediaType); err == nil {
		mediaType = parsed
	}
	ext := strings.ToLower(filepath.Ext(f.Name))
	if !allowedTypes[mediaType] && !allowedExts[ext] {
		return ErrUnsupportedFile
	}

	if f.Size > MaxFileSize {
		return ErrFileTooLarge
	}

	return nil
}

// readAll loads the content, refusing to read past the size ceiling even if
// the declared size was wrong
func (f *File) readAll() ([]byte, error) {
	if f.open == nil {
		return nil, ErrNoFile
	}
	rc, err := f.open()
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) > MaxFileSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}
